// Package resolve finds the object a noun term refers to, asking the
// player to pick when more than one fits.
package resolve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// Scope selects which subtrees are searched.
type Scope int

const (
	ScopeBoth Scope = iota
	ScopePlayer
	ScopeRoom
)

// Depth limits how far into holders the search reaches.
type Depth int

const (
	Visible    Depth = iota // skip closed containers, creature inventories and locked items
	Accessible              // skip creature inventories and locked items
	Unlocked                // skip locked items
	Everything
)

// ErrCancelled is returned when the player backs out of a choice.
var ErrCancelled = errors.New("cancelled")

// NotFoundError indicates nothing matched a term.
type NotFoundError struct {
	Term string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("There is no '%s' here.", e.Term)
}

// AmbiguityError is returned when several objects match and there is no
// console to ask.
type AmbiguityError struct {
	Term       string
	Candidates []world.Thing
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("Which %s do you mean?", e.Term)
}

// maxAsks bounds how often an unclear answer is re-asked.
const maxAsks = 3

// Resolver looks terms up in the player's surroundings.
type Resolver struct {
	w       *world.World
	dict    *content.Dict
	console types.Console
}

// New creates a resolver. console may be nil, in which case ambiguity is
// reported as an error.
func New(w *world.World, dict *content.Dict, console types.Console) *Resolver {
	return &Resolver{w: w, dict: dict, console: console}
}

// Resolve returns the single object term names. "my X" searches only what
// the player holds. A successful resolution updates the pronoun slots.
func (r *Resolver) Resolve(term string, scope Scope, depth Depth) (world.Thing, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if rest, ok := strings.CutPrefix(term, "my "); ok {
		term, scope = rest, ScopePlayer
	}
	if term == "" {
		return nil, &NotFoundError{Term: term}
	}
	found := r.Candidates(term, scope, depth)
	var pick world.Thing
	switch len(found) {
	case 0:
		return nil, &NotFoundError{Term: term}
	case 1:
		pick = found[0]
	default:
		var err error
		if pick, err = r.choose(term, found); err != nil {
			return nil, err
		}
	}
	r.w.Refer(pick)
	return pick, nil
}

// Candidates lists every object in scope named term, player's things first.
func (r *Resolver) Candidates(term string, scope Scope, depth Depth) []world.Thing {
	var p world.Being
	if r.w.Player != nil {
		p = r.w.Player
	}
	seen := map[*world.Base]bool{}
	var out []world.Thing
	visit := func(t world.Thing) {
		if seen[t.Core()] || !t.Core().Named(term) {
			return
		}
		seen[t.Core()] = true
		out = append(out, t)
	}
	if p != nil && scope != ScopeRoom {
		search(p, depth, p, visit)
	}
	if room := r.w.Here(); room != nil && scope != ScopePlayer {
		search(room, depth, p, visit)
	}
	return out
}

// search walks h, descending only where depth allows. The player is
// searched separately and skipped here.
func search(h world.Holder, depth Depth, player world.Being, fn func(world.Thing)) {
	for _, t := range h.Contents() {
		if player != nil && t.Core() == player.Core() {
			continue
		}
		fn(t)
		inner, ok := t.(world.Holder)
		if !ok || !descend(t, depth, player) {
			continue
		}
		search(inner, depth, player, fn)
	}
}

func descend(t world.Thing, depth Depth, player world.Being) bool {
	if l, ok := t.(world.Lockable); ok && l.IsLocked() && depth < Everything {
		return false
	}
	if b, ok := t.(world.Being); ok && depth < Unlocked {
		return player != nil && b.Core() == player.Core()
	}
	if o, ok := t.(world.Openable); ok && !o.IsOpen() && depth == Visible {
		return false
	}
	return true
}

// Discriminator tells apart objects that share a name.
func (r *Resolver) Discriminator(t world.Thing) string {
	if b, ok := t.(world.Being); ok {
		c := b.Body()
		if c.Dead() {
			return "dead"
		}
		return fmt.Sprintf("%d/%d HP", c.HP, c.MXHP())
	}
	parent := t.Core().Parent()
	switch h := parent.(type) {
	case nil:
		return "nowhere"
	case *world.Room:
		return "here"
	case world.Being:
		p := r.w.Player
		if p != nil && h.Core() == p.Core() {
			if p.SlotOf(t) != "" {
				return "equipped"
			}
			return "Inventory"
		}
		return h.Core().Name
	default:
		return parent.HolderName()
	}
}

func (r *Resolver) choose(term string, found []world.Thing) (world.Thing, error) {
	if r.console == nil {
		return nil, &AmbiguityError{Term: term, Candidates: found}
	}
	r.console.Print(fmt.Sprintf("Which %s do you mean?", term))
	for i, t := range found {
		r.console.Print(fmt.Sprintf("%d. %s (%s)", i+1, t.Core().Name, r.Discriminator(t)))
	}
	for range maxAsks {
		answer, err := r.console.ReadLine("> ")
		if err != nil {
			return nil, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if r.dict != nil && r.dict.IsCancel(answer) {
			return nil, ErrCancelled
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(found) {
			return found[n-1], nil
		}
		for _, t := range found {
			if answer == strings.ToLower(r.Discriminator(t)) ||
				answer == strings.ToLower(t.Core().Name+" "+r.Discriminator(t)) {
				return t, nil
			}
		}
		r.console.Print(fmt.Sprintf("Pick a number from 1 to %d.", len(found)))
	}
	return nil, ErrCancelled
}
