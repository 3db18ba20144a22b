package engine

import (
	"errors"

	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// twin returns the far side of a paired portal, if t is one.
func (e *Engine) twin(t world.Thing) world.Thing {
	room := world.RoomOf(t)
	if room == nil {
		return nil
	}
	if x, ok := e.World.ExitVia(room, t); ok && x.Target != nil {
		return x.Target
	}
	return nil
}

func (e *Engine) openable(verb, term string) world.Openable {
	if term == "" {
		e.say("%s what?", world.Capitalize(verb))
		return nil
	}
	t := e.find(term, resolve.ScopeBoth, resolve.Accessible)
	if t == nil {
		return nil
	}
	o, ok := t.(world.Openable)
	if !ok {
		e.say("You can't %s %s.", verb, the(t))
		return nil
	}
	return o
}

func open(e *Engine, in types.Intent) result {
	o := e.openable("open", in.Direct)
	if o == nil {
		return rejected
	}
	switch err := world.Open(o); {
	case errors.Is(err, world.ErrLocked):
		e.say("You try to open it, but %s is locked.", the(o))
		return rejected
	case errors.Is(err, world.ErrAlreadyOpen):
		e.say("%s is already open.", capThe(o))
		return rejected
	case err != nil:
		e.report(err)
		return rejected
	}
	if far, ok := e.twin(o).(world.Openable); ok {
		far.SetOpen(true)
	}
	e.say("You open %s.", the(o))
	if h, ok := o.(world.Storage); ok {
		var inside []string
		for _, t := range h.Contents() {
			inside = append(inside, t.Core().Indefinite())
		}
		if len(inside) > 0 {
			e.say("Inside you see %s.", joinAnd(inside))
		}
	}
	return acted
}

func closeVerb(e *Engine, in types.Intent) result {
	o := e.openable("close", in.Direct)
	if o == nil {
		return rejected
	}
	if w, ok := o.(*world.Window); ok && w.Broken {
		e.say("%s is broken and won't close.", capThe(o))
		return rejected
	}
	if err := world.Close(o); err != nil {
		e.say("%s is already closed.", capThe(o))
		return rejected
	}
	if far, ok := e.twin(o).(world.Openable); ok {
		far.SetOpen(false)
	}
	e.say("You close %s.", the(o))
	return acted
}

// keyFor finds the key to use on l: the one named, else the first key the
// player carries that fits, else any key at all.
func (e *Engine) keyFor(l world.Lockable, term string) *world.Key {
	if term != "" {
		t := e.find(term, resolve.ScopePlayer, resolve.Accessible)
		if t == nil {
			return nil
		}
		k, ok := t.(*world.Key)
		if !ok {
			e.say("%s is not a key.", capThe(t))
			return nil
		}
		return k
	}
	var fits, spare *world.Key
	consider := func(t world.Thing) {
		k, ok := t.(*world.Key)
		if !ok {
			return
		}
		if spare == nil {
			spare = k
		}
		if fits == nil && k.KeyID == l.LockID() {
			fits = k
		}
	}
	for _, t := range e.World.Player.Inventory {
		consider(t)
		if s, ok := t.(world.Storage); ok && world.Accessible(t) {
			for _, inner := range s.Contents() {
				consider(inner)
			}
		}
	}
	switch {
	case fits != nil:
		return fits
	case spare != nil:
		return spare
	}
	e.say("You have no key.")
	return nil
}

func (e *Engine) lockable(verb string, in types.Intent) (world.Lockable, *world.Key) {
	o := e.openable(verb, in.Direct)
	if o == nil {
		return nil, nil
	}
	l, ok := o.(world.Lockable)
	if !ok {
		e.say("%s has no lock.", capThe(o))
		return nil, nil
	}
	k := e.keyFor(l, in.Indirect)
	if k == nil {
		return nil, nil
	}
	return l, k
}

func lock(e *Engine, in types.Intent) result {
	l, k := e.lockable("lock", in)
	if l == nil {
		return rejected
	}
	switch err := world.Lock(l, k); {
	case errors.Is(err, world.ErrLocked):
		e.say("%s is already locked.", capThe(l))
		return rejected
	case errors.Is(err, world.ErrWrongKey):
		e.say("%s doesn't fit %s.", capThe(k), the(l))
		return rejected
	case err != nil:
		e.report(err)
		return rejected
	}
	if far, ok := e.twin(l).(world.Lockable); ok {
		far.SetOpen(false)
		far.SetLocked(true)
	}
	e.say("You lock %s.", the(l))
	return acted
}

func unlock(e *Engine, in types.Intent) result {
	l, k := e.lockable("unlock", in)
	if l == nil {
		return rejected
	}
	switch err := world.Unlock(l, k); {
	case errors.Is(err, world.ErrUnlocked):
		e.say("%s is not locked.", capThe(l))
		return rejected
	case errors.Is(err, world.ErrWrongKey):
		e.say("%s doesn't fit %s.", capThe(k), the(l))
		return rejected
	case err != nil:
		e.report(err)
		return rejected
	}
	if far, ok := e.twin(l).(world.Lockable); ok {
		far.SetLocked(false)
	}
	e.say("You unlock %s.", the(l))
	return acted
}
