package world

// Link is one direction of a portal: either a room (by key) or the paired
// portal on the far side (by ID). Exactly one is set.
type Link struct {
	Room   string
	Portal ID
}

// Passage is an always-open portal: stairs, a path, a hole.
type Passage struct {
	Item
	Links map[string]Link
}

func (*Passage) Class() string { return "Passage" }

func (p *Passage) PortalLinks() map[string]Link { return p.Links }
func (*Passage) Passable() bool                 { return true }

// Wall must be climbed; Difficulty is subtracted from the climber's roll.
type Wall struct {
	Passage
	Difficulty int
}

func (*Wall) Class() string { return "Wall" }

// Passable is false: walls are crossed with climb, never walked through.
func (*Wall) Passable() bool { return false }

// Window is passable when open or broken.
type Window struct {
	Passage
	Open   bool
	Broken bool
}

func (*Window) Class() string { return "Window" }

func (w *Window) IsOpen() bool      { return w.Open || w.Broken }
func (w *Window) SetOpen(open bool) { w.Open = open }
func (w *Window) Passable() bool    { return w.Open || w.Broken }

// Door is a lockable passage.
type Door struct {
	Passage
	Open   bool
	Locked bool
	KeyID  int
}

func (*Door) Class() string { return "Door" }

func (d *Door) IsOpen() bool          { return d.Open }
func (d *Door) SetOpen(open bool)     { d.Open = open }
func (d *Door) IsLocked() bool        { return d.Locked }
func (d *Door) SetLocked(locked bool) { d.Locked = locked }
func (d *Door) LockID() int           { return d.KeyID }
func (d *Door) Passable() bool        { return d.Open }

func newPassage(name, desc, composition string) Passage {
	p := Passage{Item: Item{Base: newBase(name, desc, 0, composition)}, Links: map[string]Link{}}
	p.Fixed = true
	return p
}

// Pair links two portals to each other: a leads dir to b, b leads the
// opposite way back to a.
func Pair(a Traversable, dir string, b Traversable, back string) {
	a.PortalLinks()[dir] = Link{Portal: b.Core().ID()}
	b.PortalLinks()[back] = Link{Portal: a.Core().ID()}
}

// Exit is one way out of a room.
type Exit struct {
	Dir    string
	To     *Room
	Via    Traversable // nil for a plain room link
	Target Traversable // the far portal of a pair, if any
}

// Blocked reports why the exit cannot be walked through, or "".
func (e Exit) Blocked() string {
	if e.Via == nil || e.Via.Passable() {
		return ""
	}
	if _, ok := e.Via.(*Wall); ok {
		return "climb"
	}
	if l, ok := e.Via.(Lockable); ok && l.IsLocked() {
		return "locked"
	}
	return "closed"
}
