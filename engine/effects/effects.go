// Package effects implements the named world mutations carried by
// controllers, switches, timers and consumables. Every effect type is one
// atomic operation keyed by a string, so content can name effects but never
// run code.
package effects

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// Params are an effect's arguments as decoded from content or a save.
type Params map[string]any

// String returns a string parameter, or "".
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Int returns an integer parameter, or def when absent.
func (p Params) Int(key string, def int) int {
	switch n := p[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

// Bool returns a boolean parameter, or def when absent.
func (p Params) Bool(key string, def bool) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return def
}

// Handler applies one effect. source is the object that fired it and may
// be nil.
type Handler func(w *world.World, source world.Thing, p Params) error

// UnknownEffectError is returned for an effect name with no handler.
type UnknownEffectError struct {
	Name string
}

func (e *UnknownEffectError) Error() string {
	return fmt.Sprintf("unknown effect %q", e.Name)
}

// TargetError is returned when an effect names an object that is not there.
type TargetError struct {
	Effect string
	Target string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("effect %s: no target %q", e.Effect, e.Target)
}

// Registry maps effect names to handlers. It implements world.Effector.
type Registry struct {
	handlers map[string]Handler
	Spells   *Spells
}

// New returns a registry with every built-in effect and spell.
func New() *Registry {
	r := &Registry{handlers: map[string]Handler{}, Spells: NewSpells()}
	r.Register("message", message)
	r.Register("open", setOpen(true))
	r.Register("close", setOpen(false))
	r.Register("toggle", toggle)
	r.Register("lock", setLocked(true))
	r.Register("unlock", setLocked(false))
	r.Register("link", link)
	r.Register("unlink", unlink)
	r.Register("spawn", spawn)
	r.Register("teleport", teleport)
	r.Register("status", addStatus)
	r.Register("room_status", roomStatus)
	r.Register("damage", damage)
	r.Register("heal", heal)
	r.Register("restore", restore)
	r.Register("light", light)
	return r
}

// Register adds or replaces a handler.
func (r *Registry) Register(name string, h Handler) {
	r.handlers[name] = h
}

// Known reports whether name has a handler.
func (r *Registry) Known(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names lists the registered effect names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Apply runs effs in order. It stops at the first failure.
func (r *Registry) Apply(w *world.World, source world.Thing, effs []types.Effect) error {
	for _, eff := range effs {
		h, ok := r.handlers[eff.Type]
		if !ok {
			return &UnknownEffectError{Name: eff.Type}
		}
		w.Logger.Debug("effect", zap.String("type", eff.Type), zap.Any("params", eff.Params))
		if err := h(w, source, Params(eff.Params)); err != nil {
			return err
		}
	}
	return nil
}

// find resolves the "target" parameter. Empty or "self" is the source,
// "player" is the player; anything else is a name looked up in the source's
// room first, then anywhere in the world.
func find(w *world.World, source world.Thing, effect string, p Params) (world.Thing, error) {
	name := p.String("target")
	switch name {
	case "", "self":
		if source == nil {
			return nil, &TargetError{Effect: effect, Target: "self"}
		}
		return source, nil
	case "player":
		return w.Player, nil
	}
	if room := sourceRoom(w, source); room != nil {
		var hit world.Thing
		world.Walk(room, func(t world.Thing) {
			if hit == nil && t.Core().Named(name) {
				hit = t
			}
		})
		if hit != nil {
			return hit, nil
		}
	}
	for _, t := range w.Registry.All() {
		if t.Core().Named(name) {
			return t, nil
		}
	}
	return nil, &TargetError{Effect: effect, Target: name}
}

func findBeing(w *world.World, source world.Thing, effect string, p Params) (world.Being, error) {
	if p.String("target") == "" {
		if b, ok := source.(world.Being); ok {
			return b, nil
		}
		return w.Player, nil
	}
	t, err := find(w, source, effect, p)
	if err != nil {
		return nil, err
	}
	b, ok := t.(world.Being)
	if !ok {
		return nil, &TargetError{Effect: effect, Target: t.Core().Name}
	}
	return b, nil
}

func sourceRoom(w *world.World, source world.Thing) *world.Room {
	if source != nil {
		if r := world.RoomOf(source); r != nil {
			return r
		}
	}
	return w.Here()
}

func findRoom(w *world.World, source world.Thing, effect string, p Params) (*world.Room, error) {
	name := p.String("room")
	if name == "" {
		if r := sourceRoom(w, source); r != nil {
			return r, nil
		}
	}
	r, ok := w.Room(name)
	if !ok {
		return nil, &TargetError{Effect: effect, Target: name}
	}
	return r, nil
}

func message(w *world.World, source world.Thing, p Params) error {
	text := p.String("text")
	if p.Bool("local", false) {
		w.SayAt(sourceRoom(w, source), "%s", text)
		return nil
	}
	w.Say("%s", text)
	return nil
}

func setOpen(open bool) Handler {
	return func(w *world.World, source world.Thing, p Params) error {
		name := "close"
		if open {
			name = "open"
		}
		t, err := find(w, source, name, p)
		if err != nil {
			return err
		}
		o, ok := t.(world.Openable)
		if !ok {
			return &TargetError{Effect: name, Target: t.Core().Name}
		}
		if l, ok := o.(world.Lockable); ok && open && l.IsLocked() {
			l.SetLocked(false)
		}
		if o.IsOpen() == open {
			return nil
		}
		o.SetOpen(open)
		verb := "closes"
		if open {
			verb = "opens"
		}
		w.SayAt(world.RoomOf(t), "%s %s.", world.Capitalize(t.Core().Definite()), verb)
		return nil
	}
}

func toggle(w *world.World, source world.Thing, p Params) error {
	t, err := find(w, source, "toggle", p)
	if err != nil {
		return err
	}
	o, ok := t.(world.Openable)
	if !ok {
		return &TargetError{Effect: "toggle", Target: t.Core().Name}
	}
	return setOpen(!o.IsOpen())(w, source, p)
}

func setLocked(locked bool) Handler {
	return func(w *world.World, source world.Thing, p Params) error {
		name := "unlock"
		if locked {
			name = "lock"
		}
		t, err := find(w, source, name, p)
		if err != nil {
			return err
		}
		l, ok := t.(world.Lockable)
		if !ok {
			return &TargetError{Effect: name, Target: t.Core().Name}
		}
		if locked {
			l.SetOpen(false)
		}
		if l.IsLocked() != locked {
			l.SetLocked(locked)
			w.SayAt(world.RoomOf(t), "You hear a click from %s.", t.Core().Definite())
		}
		return nil
	}
}

func link(w *world.World, source world.Thing, p Params) error {
	r, err := findRoom(w, source, "link", p)
	if err != nil {
		return err
	}
	dir := w.Dict().ExpandDirection(p.String("dir"))
	to, ok := w.Room(p.String("to"))
	if !ok || dir == "" {
		return &TargetError{Effect: "link", Target: p.String("to")}
	}
	r.Links[dir] = to.Key()
	if p.Bool("both", true) {
		if back := content.Opposite(dir); back != "" {
			to.Links[back] = r.Key()
		}
	}
	return nil
}

func unlink(w *world.World, source world.Thing, p Params) error {
	r, err := findRoom(w, source, "unlink", p)
	if err != nil {
		return err
	}
	dir := w.Dict().ExpandDirection(p.String("dir"))
	to, had := r.Links[dir]
	delete(r.Links, dir)
	if had && p.Bool("both", true) {
		if other, ok := w.Room(to); ok {
			if back := content.Opposite(dir); other.Links[back] == r.Key() {
				delete(other.Links, back)
			}
		}
	}
	return nil
}

func spawn(w *world.World, source world.Thing, p Params) error {
	r, err := findRoom(w, source, "spawn", p)
	if err != nil {
		return err
	}
	kind := p.String("kind")
	for i := 0; i < max(1, p.Int("count", 1)); i++ {
		if b, ok := world.NewCreature(kind); ok {
			w.Spawn(b, r)
			w.SayAt(r, "%s appears.", world.Capitalize(b.Core().Indefinite()))
			continue
		}
		it, ok := world.NewItem(kind)
		if !ok {
			return &TargetError{Effect: "spawn", Target: kind}
		}
		w.Spawn(it, r)
	}
	return nil
}

func teleport(w *world.World, source world.Thing, p Params) error {
	dest, ok := w.Room(p.String("room"))
	if !ok {
		return &TargetError{Effect: "teleport", Target: p.String("room")}
	}
	b, err := findBeing(w, source, "teleport", p)
	if err != nil {
		return err
	}
	if err := w.Travel(b, dest); err != nil {
		return err
	}
	if b.Core() == w.Player.Core() {
		w.Game.Previous = w.Game.Current
		w.Game.Current = dest.Key()
		if msg := p.String("text"); msg != "" {
			w.Say("%s", msg)
		}
	}
	return nil
}

func addStatus(w *world.World, source world.Thing, p Params) error {
	b, err := findBeing(w, source, "status", p)
	if err != nil {
		return err
	}
	name := strings.ToLower(p.String("name"))
	if name == "" {
		return &TargetError{Effect: "status", Target: "name"}
	}
	if p.Bool("remove", false) {
		b.Body().Status.Remove(name)
		return nil
	}
	b.Body().Status.Add(name, p.Int("duration", world.Sticky))
	if b.Core() == w.Player.Core() {
		w.Say("You are %s.", name)
	}
	return nil
}

func roomStatus(w *world.World, source world.Thing, p Params) error {
	r, err := findRoom(w, source, "room_status", p)
	if err != nil {
		return err
	}
	name := strings.ToLower(p.String("name"))
	if p.Bool("remove", false) {
		r.Status.Remove(name)
		return nil
	}
	r.Status.Add(name, p.Int("duration", world.Sticky))
	return nil
}

func damage(w *world.World, source world.Thing, p Params) error {
	b, err := findBeing(w, source, "damage", p)
	if err != nil {
		return err
	}
	dealt, died := w.Damage(b, p.Int("amount", 1), p.String("type"))
	if b.Core() == w.Player.Core() && !died {
		w.Say("You take %d damage.", dealt)
	}
	return nil
}

func heal(w *world.World, source world.Thing, p Params) error {
	b, err := findBeing(w, source, "heal", p)
	if err != nil {
		return err
	}
	n := b.Body().Heal(p.Int("amount", 1))
	if b.Core() == w.Player.Core() {
		w.Say("You feel better. (+%d HP)", n)
	}
	return nil
}

func restore(w *world.World, source world.Thing, p Params) error {
	b, err := findBeing(w, source, "restore", p)
	if err != nil {
		return err
	}
	n := b.Body().RestoreMP(p.Int("amount", 1))
	if b.Core() == w.Player.Core() {
		w.Say("Your mind clears. (+%d MP)", n)
	}
	return nil
}

// light lifts darkness from a room; with on=false it brings it back.
func light(w *world.World, source world.Thing, p Params) error {
	r, err := findRoom(w, source, "light", p)
	if err != nil {
		return err
	}
	if !p.Bool("on", true) {
		r.Status.Remove("lit")
		r.Status.Add("dark", world.Sticky)
		w.SayAt(r, "The light goes out.")
		return nil
	}
	r.Status.Remove("dark")
	r.Status.Add("lit", p.Int("duration", world.Sticky))
	w.SayAt(r, "Light fills %s.", r.Name)
	return nil
}
