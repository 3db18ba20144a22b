// Package dialogue implements conversation trees: guarded nodes with
// remarks or canned lines, case and reply branching, visit limits,
// checkpoints and the side effects a conversation leaves on the speaker.
// It knows nothing about the world; callers supply an Env.
package dialogue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Branch names, in parley order.
const (
	Surprise = "surprise"
	Quest    = "quest"
	Colloquy = "colloquy"
	Chatter  = "chatter"
)

// ParleyTimeout is how long, in ticks, a parley is remembered.
const ParleyTimeout = 100

// ErrCancelled is returned when the player backs out of a reply menu.
var ErrCancelled = errors.New("conversation cancelled")

// Node is one step of a conversation.
type Node struct {
	Case       string   `json:"case,omitempty"`
	Remark     string   `json:"remark,omitempty"`
	Trites     []string `json:"trites,omitempty"`
	Cases      []string `json:"cases,omitempty"`
	Replies    []string `json:"replies,omitempty"`
	Children   []*Node  `json:"children,omitempty"`
	VisitLimit int      `json:"visitLimit,omitempty"`
	RapportReq *int     `json:"rapportReq,omitempty"`
	Checkpoint bool     `json:"isCheckpoint,omitempty"`
	LoveMod    int      `json:"loveMod,omitempty"`
	FearMod    int      `json:"fearMod,omitempty"`
	RepMod     int      `json:"repMod,omitempty"`
	Memories   []string `json:"memories,omitempty"`
	Events     []string `json:"events,omitempty"`
	ReactTrue  bool     `json:"reactTrue,omitempty"`
}

// Tree is a speaker's whole repertoire plus what it remembers of past
// parleys.
type Tree struct {
	Surprise   *Node               `json:"surprise,omitempty"`
	Quest      *Node               `json:"quest,omitempty"`
	Colloquy   *Node               `json:"colloquy,omitempty"`
	Chatter    *Node               `json:"chatter,omitempty"`
	Reactions  map[string]*Node    `json:"reactions,omitempty"`
	Visits     map[string]int      `json:"visitCounts"`
	Checkpoint string              `json:"checkpoint,omitempty"`
	LastParley int                 `json:"lastParley"`
	Spent      map[string][]string `json:"spent,omitempty"`
}

// NewTree creates an empty tree that has never been spoken to.
func NewTree() *Tree {
	return &Tree{Reactions: map[string]*Node{}, Visits: map[string]int{}, LastParley: -1}
}

// Mods are the side effects of entering a node.
type Mods struct {
	Love     int
	Fear     int
	Rep      int
	Memories []string
	Events   []string
}

// Env is what a conversation needs from the game.
type Env interface {
	Facts
	Say(text string)
	Choose(options []string) (int, error)
	Roll(sides int) int
	Trite(pool string) []string
	Apply(m Mods)
	Now() int
}

// Outcome reports how a parley went.
type Outcome struct {
	Spoke  bool
	Branch string
}

func (t *Tree) branch(name string) *Node {
	switch name {
	case Surprise:
		return t.Surprise
	case Quest:
		return t.Quest
	case Colloquy:
		return t.Colloquy
	case Chatter:
		return t.Chatter
	}
	if strings.HasPrefix(name, "reactions:") {
		return t.Reactions[strings.TrimPrefix(name, "reactions:")]
	}
	return nil
}

// Lookup finds a node by its id: a branch name followed by dot-separated
// child indices, e.g. "colloquy.0.1".
func (t *Tree) Lookup(id string) *Node {
	parts := strings.Split(id, ".")
	n := t.branch(parts[0])
	for _, p := range parts[1:] {
		if n == nil {
			return nil
		}
		i, err := strconv.Atoi(p)
		if err != nil || i < 0 || i >= len(n.Children) {
			return nil
		}
		n = n.Children[i]
	}
	return n
}

type walker struct {
	tree     *Tree
	env      Env
	accepted bool
}

// Parley runs one conversation: surprise, then the checkpoint, then quest,
// colloquy and chatter, stopping at the first branch that says anything.
func Parley(t *Tree, env Env) (Outcome, error) {
	t.ensure()
	now := env.Now()
	if t.LastParley >= 0 && now-t.LastParley > ParleyTimeout {
		t.Visits = map[string]int{}
		t.Checkpoint = ""
	}
	t.LastParley = now

	w := &walker{tree: t, env: env}
	order := []string{Surprise}
	if t.Checkpoint != "" {
		order = append(order, t.Checkpoint)
	}
	order = append(order, Quest, Colloquy, Chatter)
	for _, id := range order {
		n := t.Lookup(id)
		if n == nil {
			continue
		}
		_, spoke, err := w.visit(n, id)
		if err != nil {
			return Outcome{Spoke: spoke, Branch: rootOf(id)}, err
		}
		if spoke {
			return Outcome{Spoke: true, Branch: rootOf(id)}, nil
		}
	}
	return Outcome{}, nil
}

// React walks the reaction tree for an action such as "give" and reports
// whether the speaker accepts.
func React(t *Tree, action string, env Env) (accepted, spoke bool, err error) {
	t.ensure()
	id := "reactions:" + action
	n := t.Lookup(id)
	if n == nil {
		return false, false, nil
	}
	w := &walker{tree: t, env: env}
	_, spoke, err = w.visit(n, id)
	return w.accepted, spoke, err
}

func rootOf(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

func (t *Tree) ensure() {
	if t.Visits == nil {
		t.Visits = map[string]int{}
	}
	if t.Spent == nil {
		t.Spent = map[string][]string{}
	}
}

// guard evaluates an expression; integers are sampled as a d100 chance.
func (w *walker) guard(src string) bool {
	e, err := Compile(src)
	if err != nil {
		return false
	}
	v := e.Eval(w.env)
	if v.Kind == KindInt {
		return w.env.Roll(100) <= v.N
	}
	return v.truthy()
}

func (w *walker) eligible(n *Node, id string) bool {
	if n.Case != "" && !w.guard(n.Case) {
		return false
	}
	if n.VisitLimit > 0 && w.tree.Visits[id] >= n.VisitLimit {
		return false
	}
	if n.RapportReq != nil {
		v, ok := w.env.Fact("speaker.rapport")
		if !ok || v.number() != *n.RapportReq {
			return false
		}
	}
	return true
}

// visit enters n if its guards pass. It reports whether n was entered and
// whether anything was said in n or below it.
func (w *walker) visit(n *Node, id string) (entered, spoke bool, err error) {
	if !w.eligible(n, id) {
		return false, false, nil
	}
	w.tree.Visits[id]++
	if n.Checkpoint {
		w.tree.Checkpoint = id
	}
	if n.ReactTrue {
		w.accepted = true
	}
	if n.LoveMod != 0 || n.FearMod != 0 || n.RepMod != 0 || len(n.Memories) > 0 || len(n.Events) > 0 {
		w.env.Apply(Mods{Love: n.LoveMod, Fear: n.FearMod, Rep: n.RepMod, Memories: n.Memories, Events: n.Events})
	}

	switch {
	case n.Remark != "":
		w.env.Say(n.Remark)
		spoke = true
	case len(n.Trites) > 0:
		if line := w.trite(n.Trites); line != "" {
			w.env.Say(line)
			spoke = true
		}
	}

	child := func(i int) string { return id + "." + strconv.Itoa(i) }
	switch {
	case len(n.Cases) > 0:
		chosen := -1
		for i, c := range n.Cases {
			if i < len(n.Children) && w.guard(c) {
				chosen = i
				break
			}
		}
		if chosen < 0 && len(n.Children) > len(n.Cases) {
			chosen = len(n.Children) - 1
		}
		if chosen >= 0 {
			_, s, err := w.visit(n.Children[chosen], child(chosen))
			spoke = spoke || s
			if err != nil {
				return true, spoke, err
			}
		}
	case len(n.Replies) > 0:
		i, err := w.env.Choose(n.Replies)
		if err != nil {
			return true, spoke, err
		}
		if i < 0 || i >= len(n.Children) {
			return true, spoke, fmt.Errorf("reply %d out of range", i)
		}
		_, s, err := w.visit(n.Children[i], child(i))
		spoke = spoke || s
		if err != nil {
			return true, spoke, err
		}
	default:
		for i, c := range n.Children {
			in, s, err := w.visit(c, child(i))
			spoke = spoke || s
			if err != nil {
				return true, spoke, err
			}
			if in {
				break
			}
		}
	}
	return true, spoke, nil
}

// trite picks a pool at random and samples a line from it without
// replacement; once a pool is exhausted it refills.
func (w *walker) trite(pools []string) string {
	pool := pools[w.env.Roll(len(pools))-1]
	lines := w.env.Trite(pool)
	if len(lines) == 0 {
		return ""
	}
	spent := w.tree.Spent[pool]
	var fresh []string
	for _, l := range lines {
		if !containsString(spent, l) {
			fresh = append(fresh, l)
		}
	}
	if len(fresh) == 0 {
		spent = nil
		fresh = lines
	}
	line := fresh[w.env.Roll(len(fresh))-1]
	w.tree.Spent[pool] = append(spent, line)
	return line
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
