package world

import "github.com/nathoo/serpens/types"

// Item is the plain carryable object.
type Item struct {
	Base
}

func (*Item) Class() string { return "Item" }

// NewPlainItem creates an unregistered plain item.
func NewPlainItem(name, desc string, weight int, composition string) *Item {
	return &Item{Base: newBase(name, desc, weight, composition)}
}

// AsWeapon wraps any item as a transient improvised weapon.
func AsWeapon(t Thing) *Weapon {
	if w, ok := t.(*Weapon); ok {
		return w
	}
	b := t.Core()
	return &Weapon{
		Item:       Item{Base: Base{id: b.id, Name: b.Name, BaseWeight: b.Weight(), Durability: -1, Determiner: b.Determiner}},
		Might:      max(1, t.Weight()/4),
		DamageType: "b",
		Improvised: true,
	}
}

// Weapon is anything made for hitting.
type Weapon struct {
	Item
	Might      int
	Sleight    int
	Sharpness  int
	DamageType string
	TwoHanded  bool
	Improvised bool `json:"-"`
}

func (*Weapon) Class() string { return "Weapon" }

// Dull lowers sharpness by one unless the weapon is keen.
func (w *Weapon) Dull() bool {
	if w.Status.Has("keen") || w.Sharpness <= 0 {
		return false
	}
	w.Sharpness--
	return true
}

// Armor is worn in the head, body or legs slot.
type Armor struct {
	Item
	Prot int
	Slot string
}

func (*Armor) Class() string { return "Armor" }

// Shield is held in a hand and adds protection and block.
type Shield struct {
	Item
	Prot      int
	TwoHanded bool
}

func (*Shield) Class() string { return "Shield" }

// Key opens locks whose KeyID matches.
type Key struct {
	Item
	KeyID int
}

func (*Key) Class() string { return "Key" }

// Sign is a readable fixture or note.
type Sign struct {
	Item
	Text string
}

func (*Sign) Class() string { return "Sign" }

// ReadText returns the written text.
func (s *Sign) ReadText() string { return s.Text }

// Serpens is the currency. A stack's weight is its value.
type Serpens struct {
	Item
}

func (*Serpens) Class() string { return "Serpens" }

// NewSerpens creates an unregistered stack of gold.
func NewSerpens(value int) *Serpens {
	g := &Serpens{Item: Item{Base: newBase("gold", "A handful of serpens coins.", value, "gold")}}
	g.Aliases = []string{"serpens", "coins", "coin", "money"}
	g.Determiner = "some"
	return g
}

// Value returns the stack's worth.
func (g *Serpens) Value() int { return g.BaseWeight }

// Food restores nutrition and some HP when eaten.
type Food struct {
	Item
	Nutrition int
	Heal      int
	Effects   []types.Effect
}

func (*Food) Class() string { return "Food" }

func (*Food) ConsumeVerb() string { return "eat" }

// ConsumeEffects returns the effects applied to whoever eats it.
func (f *Food) ConsumeEffects() []types.Effect { return f.Effects }

// Potion is drunk for its effects and then gone.
type Potion struct {
	Item
	Effects []types.Effect
}

func (*Potion) Class() string { return "Potion" }

func (*Potion) ConsumeVerb() string { return "drink" }

func (p *Potion) ConsumeEffects() []types.Effect { return p.Effects }

// Pool is a drinkable fixture that is never used up.
type Pool struct {
	Item
	Liquid  string
	Effects []types.Effect
}

func (*Pool) Class() string { return "Pool" }

func (*Pool) ConsumeVerb() string { return "drink" }

func (p *Pool) ConsumeEffects() []types.Effect { return p.Effects }

// Bed is furniture to sit, lay or sleep on.
type Bed struct {
	Item
	Comfort int
}

func (*Bed) Class() string { return "Bed" }

// Comfortable returns the comfort bonus granted while resting on it.
func (b *Bed) Comfortable() int { return b.Comfort }

// Projectile is ammunition made for throwing or shooting.
type Projectile struct {
	Item
	Might      int
	Sharpness  int
	DamageType string
}

func (*Projectile) Class() string { return "Projectile" }

// Capability probes. Verb handlers dispatch on these rather than on kind.
type (
	Openable interface {
		Thing
		IsOpen() bool
		SetOpen(open bool)
	}
	Lockable interface {
		Openable
		IsLocked() bool
		SetLocked(locked bool)
		LockID() int
	}
	Traversable interface {
		Thing
		PortalLinks() map[string]Link
		Passable() bool
	}
	Consumable interface {
		Thing
		ConsumeVerb() string
		ConsumeEffects() []types.Effect
	}
	Readable interface {
		Thing
		ReadText() string
	}
	Activatable interface {
		Thing
		Activate() []types.Effect
	}
	Sittable interface {
		Thing
		Comfortable() int
	}
)
