package world

import (
	"fmt"
	"sort"
)

// ID is the stable identity of every non-room object.
// Zero means "not registered yet".
type ID uint64

// Registry maps IDs to live objects. It is touched only when objects are
// constructed, destroyed or loaded.
type Registry struct {
	objects map[ID]Thing
	next    ID
}

// NewRegistry creates an empty registry. IDs start at 1.
func NewRegistry() *Registry {
	return &Registry{objects: map[ID]Thing{}, next: 1}
}

// Register assigns the next free ID to t (unless it already has one that is
// free to adopt) and records it.
func (r *Registry) Register(t Thing) ID {
	b := t.Core()
	if b.id != 0 {
		if err := r.Adopt(t); err == nil {
			return b.id
		}
	}
	for {
		if _, taken := r.objects[r.next]; !taken {
			break
		}
		r.next++
	}
	b.id = r.next
	r.next++
	r.objects[b.id] = t
	return b.id
}

// Adopt records t under the ID it already carries, as read from a save.
// It fails on a zero ID or an identity collision.
func (r *Registry) Adopt(t Thing) error {
	id := t.Core().id
	if id == 0 {
		return &InvariantError{Msg: fmt.Sprintf("%s has no id to adopt", t.Core().Name)}
	}
	if prev, ok := r.objects[id]; ok && prev != t {
		return &InvariantError{Msg: fmt.Sprintf("id %d claimed by both %q and %q", id, prev.Core().Name, t.Core().Name)}
	}
	r.objects[id] = t
	if id >= r.next {
		r.next = id + 1
	}
	return nil
}

// Unregister forgets id. Unknown IDs are ignored.
func (r *Registry) Unregister(id ID) {
	delete(r.objects, id)
}

// Lookup returns the object registered under id.
func (r *Registry) Lookup(id ID) (Thing, bool) {
	if id == 0 {
		return nil, false
	}
	t, ok := r.objects[id]
	return t, ok
}

// Being returns the creature registered under id, if any.
func (r *Registry) Being(id ID) (Being, bool) {
	t, ok := r.Lookup(id)
	if !ok {
		return nil, false
	}
	b, ok := t.(Being)
	return b, ok
}

// Len returns the number of registered objects.
func (r *Registry) Len() int { return len(r.objects) }

// All returns every registered object ordered by ID.
func (r *Registry) All() []Thing {
	ids := make([]ID, 0, len(r.objects))
	for id := range r.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Thing, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.objects[id])
	}
	return out
}
