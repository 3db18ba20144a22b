package world

import "fmt"

// Container holds other items. A plain container (a sack) is always open.
type Container struct {
	Item
	Items    []Thing
	Capacity int // maximum contents weight, 0 for unlimited
}

func (*Container) Class() string { return "Container" }

func (c *Container) Contents() []Thing  { return c.Items }
func (c *Container) HolderName() string { return c.Name }

func (c *Container) accept(t Thing) { c.Items = append(c.Items, t) }

func (c *Container) release(t Thing) bool {
	var ok bool
	c.Items, ok = removeThing(c.Items, t)
	return ok
}

// Weight includes everything inside.
func (c *Container) Weight() int {
	w := c.BaseWeight
	for _, t := range c.Items {
		w += t.Weight()
	}
	return w
}

// ContentsWeight is the weight of the contents alone.
func (c *Container) ContentsWeight() int { return c.Weight() - c.BaseWeight }

// CanHold checks capacity for t. Gold merges and never fills a container.
func (c *Container) CanHold(t Thing) error {
	if _, ok := t.(*Serpens); ok {
		return nil
	}
	if c.Capacity > 0 && c.ContentsWeight()+t.Weight() > c.Capacity {
		return fmt.Errorf("%s: %w", c.Name, ErrFull)
	}
	return nil
}

// Box is a container with a lid.
type Box struct {
	Container
	Open bool
}

func (*Box) Class() string { return "Box" }

func (b *Box) IsOpen() bool      { return b.Open }
func (b *Box) SetOpen(open bool) { b.Open = open }

// Lockbox is a box that a matching key can lock.
type Lockbox struct {
	Box
	Locked bool
	KeyID  int
}

func (*Lockbox) Class() string { return "Lockbox" }

func (l *Lockbox) IsLocked() bool        { return l.Locked }
func (l *Lockbox) SetLocked(locked bool) { l.Locked = locked }
func (l *Lockbox) LockID() int           { return l.KeyID }

// Storage is the capability shared by every container kind.
type Storage interface {
	Thing
	Holder
	CanHold(t Thing) error
}

// Accessible reports whether t's contents can be reached: it is not a
// closed or locked openable.
func Accessible(t Thing) bool {
	if o, ok := t.(Openable); ok && !o.IsOpen() {
		return false
	}
	return true
}

// Open opens an openable, refusing when it is locked.
func Open(t Openable) error {
	if l, ok := t.(Lockable); ok && l.IsLocked() {
		return ErrLocked
	}
	if t.IsOpen() {
		return ErrAlreadyOpen
	}
	t.SetOpen(true)
	return nil
}

// Close shuts an openable.
func Close(t Openable) error {
	if !t.IsOpen() {
		return ErrAlreadyClosed
	}
	t.SetOpen(false)
	return nil
}

// Lock locks l with key; locking closes it first.
func Lock(l Lockable, key *Key) error {
	if l.IsLocked() {
		return ErrLocked
	}
	if key == nil || key.KeyID != l.LockID() {
		return ErrWrongKey
	}
	l.SetOpen(false)
	l.SetLocked(true)
	return nil
}

// Unlock unlocks l with key.
func Unlock(l Lockable, key *Key) error {
	if !l.IsLocked() {
		return ErrUnlocked
	}
	if key == nil || key.KeyID != l.LockID() {
		return ErrWrongKey
	}
	l.SetLocked(false)
	return nil
}
