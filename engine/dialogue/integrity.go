package dialogue

import (
	"fmt"
	"sort"
	"strings"
)

// IntegrityError lists every structural problem found in a tree.
type IntegrityError struct {
	Speaker  string
	Problems []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("dialogue for %s: %s", e.Speaker, strings.Join(e.Problems, "; "))
}

// Check validates a tree: chatter must always produce output, every node
// must pick one output and one branching style, every guard must compile
// to a bool or int, and every trite pool must exist.
func Check(speaker string, t *Tree, hasTrite func(string) bool) error {
	var problems []string
	add := func(format string, args ...any) { problems = append(problems, fmt.Sprintf(format, args...)) }

	var walk func(n *Node, id string)
	walk = func(n *Node, id string) {
		if n == nil {
			add("%s: empty node", id)
			return
		}
		if n.Remark != "" && len(n.Trites) > 0 {
			add("%s: has both a remark and trites", id)
		}
		if len(n.Cases) > 0 && len(n.Replies) > 0 {
			add("%s: has both cases and replies", id)
		}
		if len(n.Cases) > 0 && (len(n.Children) < len(n.Cases) || len(n.Children) > len(n.Cases)+1) {
			add("%s: %d cases need %d or %d children, found %d", id, len(n.Cases), len(n.Cases), len(n.Cases)+1, len(n.Children))
		}
		if len(n.Replies) > 0 && len(n.Replies) != len(n.Children) {
			add("%s: %d replies but %d children", id, len(n.Replies), len(n.Children))
		}
		exprs := append([]string(nil), n.Cases...)
		if n.Case != "" {
			exprs = append(exprs, n.Case)
		}
		for _, src := range exprs {
			e, err := Compile(src)
			if err != nil {
				add("%s: case %q: %v", id, src, err)
				continue
			}
			if k := e.Kind(); k == KindString || k == KindList {
				add("%s: case %q is a %s, not a bool or int", id, src, k)
			}
		}
		for _, tr := range n.Trites {
			if hasTrite != nil && !hasTrite(tr) {
				add("%s: unknown trite pool %q", id, tr)
			}
		}
		for i, c := range n.Children {
			walk(c, fmt.Sprintf("%s.%d", id, i))
		}
	}

	for _, b := range []struct {
		name string
		n    *Node
	}{{Surprise, t.Surprise}, {Quest, t.Quest}, {Colloquy, t.Colloquy}, {Chatter, t.Chatter}} {
		if b.n != nil {
			walk(b.n, b.name)
		}
	}
	actions := make([]string, 0, len(t.Reactions))
	for a := range t.Reactions {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	for _, a := range actions {
		walk(t.Reactions[a], "reactions:"+a)
	}

	if t.Chatter == nil {
		add("chatter branch is missing")
	} else if !Definite(t.Chatter) {
		add("chatter has no path that always speaks")
	}
	if t.Checkpoint != "" && t.Lookup(t.Checkpoint) == nil {
		add("checkpoint %q does not name a node", t.Checkpoint)
	}

	if len(problems) > 0 {
		return &IntegrityError{Speaker: speaker, Problems: problems}
	}
	return nil
}

// Definite reports whether visiting n always produces output, whatever
// the game state.
func Definite(n *Node) bool {
	return n != nil && !guarded(n) && speaks(n)
}

// guarded reports whether n can be skipped when its parent reaches it.
func guarded(n *Node) bool {
	return n.Case != "" || n.VisitLimit > 0 || n.RapportReq != nil
}

// speaks reports whether n produces output every time it is entered.
func speaks(n *Node) bool {
	if n.Remark != "" || len(n.Trites) > 0 {
		return true
	}
	switch {
	case len(n.Cases) > 0:
		if len(n.Children) <= len(n.Cases) {
			return false
		}
		for _, c := range n.Children {
			if !Definite(c) {
				return false
			}
		}
		return true
	case len(n.Replies) > 0:
		for _, c := range n.Children {
			if !Definite(c) {
				return false
			}
		}
		return len(n.Children) > 0
	}
	// The walk stops at the first child it enters, so every child that
	// may be entered before an unguarded one must speak too.
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		if !guarded(c) {
			return speaks(c)
		}
		if !speaks(c) {
			return false
		}
	}
	return false
}
