package world

import (
	"fmt"
	"math"
	"strings"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/events"
)

// Gear slot names.
const (
	SlotHead  = "head"
	SlotBody  = "body"
	SlotLegs  = "legs"
	SlotLeft  = "left"
	SlotRight = "right"
)

// Slots lists the gear slots in save order.
var Slots = []string{SlotHead, SlotBody, SlotLegs, SlotLeft, SlotRight}

// TraitNames lists the ten traits in display order.
var TraitNames = []string{"str", "spd", "skl", "stm", "con", "cha", "int", "wis", "fth", "lck"}

// Traits are the ten base attributes, each 1 to 20.
type Traits struct {
	STR, SPD, SKL, STM, CON, CHA, INT, WIS, FTH, LCK int
}

func (t *Traits) field(name string) *int {
	switch strings.ToLower(name) {
	case "str":
		return &t.STR
	case "spd":
		return &t.SPD
	case "skl":
		return &t.SKL
	case "stm":
		return &t.STM
	case "con":
		return &t.CON
	case "cha":
		return &t.CHA
	case "int":
		return &t.INT
	case "wis":
		return &t.WIS
	case "fth":
		return &t.FTH
	case "lck":
		return &t.LCK
	}
	return nil
}

// Get returns a base trait by name.
func (t Traits) Get(name string) (int, bool) {
	p := t.field(name)
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set assigns a base trait by name, clamped to 1..20.
func (t *Traits) Set(name string, v int) bool {
	p := t.field(name)
	if p == nil {
		return false
	}
	*p = min(20, max(1, v))
	return true
}

// Being is any creature kind. Body exposes the shared creature state.
type Being interface {
	Thing
	Holder
	Body() *Creature
}

// Creature is the shared state of every animal, humanoid, person and player.
type Creature struct {
	Base
	Traits      Traits
	HP          int
	MP          int
	Money       int
	Level       int
	Inventory   []Thing
	Gear        map[string]Thing
	Natural     *Weapon
	Love        int
	Fear        int
	Memories    *events.Set
	Carrying    ID
	Carrier     ID
	Riding      ID
	Rider       ID
	TimeOfDeath int // -1 while alive
	RegenTimer  int
	LastAte     int
	LastSlept   int
	Hostile     bool
	Rideable    bool
	Hands       bool
	Vulnerable  string // damage tags taken double
	Resistant   string // damage tags taken half
	Immune      string // damage tags ignored

	carried Being
}

func (*Creature) Class() string { return "Creature" }

// Body returns the creature itself.
func (c *Creature) Body() *Creature { return c }

func (c *Creature) Contents() []Thing  { return c.Inventory }
func (c *Creature) HolderName() string { return c.Name }

func (c *Creature) accept(t Thing) { c.Inventory = append(c.Inventory, t) }

func (c *Creature) release(t Thing) bool {
	var ok bool
	c.Inventory, ok = removeThing(c.Inventory, t)
	if ok {
		c.clearSlots(t)
	}
	return ok
}

// Weight is body weight plus everything carried in the inventory.
func (c *Creature) Weight() int { return c.BaseWeight + c.INVW() }

// Dead reports whether the creature has died and not been revived.
func (c *Creature) Dead() bool { return c.Status.Has("dead") }

// Trait returns the effective value of a trait: the base plus the sum of
// status modifiers bounded to ±10, never below zero.
func (c *Creature) Trait(name string) int {
	base, ok := c.Traits.Get(name)
	if !ok {
		return 0
	}
	mod := 0
	for _, st := range c.Status {
		mod += dict.TraitMod(st.Name, strings.ToLower(name))
	}
	mod = min(10, max(-10, mod))
	return max(0, base+mod)
}

// Has reports whether t is directly in the inventory.
func (c *Creature) Has(t Thing) bool {
	for _, x := range c.Inventory {
		if x.Core() == t.Core() {
			return true
		}
	}
	return false
}

// SlotOf returns the slot t is equipped in, or "".
func (c *Creature) SlotOf(t Thing) string {
	for _, s := range Slots {
		if g := c.Gear[s]; g != nil && g.Core() == t.Core() {
			return s
		}
	}
	return ""
}

func (c *Creature) clearSlots(t Thing) {
	for _, s := range Slots {
		if g := c.Gear[s]; g != nil && g.Core() == t.Core() {
			c.Gear[s] = nil
		}
	}
}

func twoHanded(t Thing) bool {
	switch it := t.(type) {
	case *Weapon:
		return it.TwoHanded
	case *Shield:
		return it.TwoHanded
	}
	return false
}

// HandFree reports whether a hand slot can take an item right now.
func (c *Creature) HandFree(hand string) bool {
	if hand == SlotLeft && c.Carrying != 0 {
		return false
	}
	if g := c.Gear[SlotRight]; g != nil && twoHanded(g) {
		return false
	}
	return c.Gear[hand] == nil
}

// Equip puts an inventory item in its slot. Armor goes to its body slot;
// anything else is held in hand, in the right hand unless hand says
// otherwise or the right is busy. A two-handed item empties both hands.
func (c *Creature) Equip(t Thing, hand string) error {
	if !c.Has(t) {
		return ErrNotHeld
	}
	c.clearSlots(t)
	if a, ok := t.(*Armor); ok {
		slot := a.Slot
		if slot != SlotHead && slot != SlotLegs {
			slot = SlotBody
		}
		c.Gear[slot] = t
		return nil
	}
	if !c.Hands {
		return ErrNoHands
	}
	if twoHanded(t) {
		if c.Carrying != 0 {
			return ErrNoHands
		}
		c.Gear[SlotLeft] = nil
		c.Gear[SlotRight] = t
		return nil
	}
	if g := c.Gear[SlotRight]; g != nil && twoHanded(g) {
		c.Gear[SlotRight] = nil
	}
	switch hand {
	case SlotLeft:
		if c.Carrying != 0 {
			return ErrNoHands
		}
	case SlotRight:
	default:
		hand = SlotRight
		if c.Gear[SlotRight] != nil && c.Gear[SlotLeft] == nil && c.Carrying == 0 {
			hand = SlotLeft
		}
	}
	c.Gear[hand] = t
	return nil
}

// Unequip empties whatever slot holds t.
func (c *Creature) Unequip(t Thing) error {
	if c.SlotOf(t) == "" {
		return ErrNotEquipped
	}
	c.clearSlots(t)
	return nil
}

// FreeLeftHand empties the left hand for carrying. A two-handed item in
// the right hand is put away as well.
func (c *Creature) FreeLeftHand() {
	c.Gear[SlotLeft] = nil
	if g := c.Gear[SlotRight]; g != nil && twoHanded(g) {
		c.Gear[SlotRight] = nil
	}
}

// NaturalWeapon is what the creature attacks with when its hands are empty.
func (c *Creature) NaturalWeapon() *Weapon {
	if c.Natural != nil {
		return c.Natural
	}
	return &Weapon{Item: Item{Base: Base{Name: "hand", Determiner: "a", Durability: -1}}, Might: 1, DamageType: "b", Improvised: true}
}

// Weapons derives the primary and secondary weapon from the hands. Two
// real weapons give right then left; one real weapon stands alone;
// otherwise the held item is improvised, or the natural weapon is used.
func (c *Creature) Weapons() (*Weapon, *Weapon) {
	l, r := c.Gear[SlotLeft], c.Gear[SlotRight]
	lw, lok := l.(*Weapon)
	rw, rok := r.(*Weapon)
	switch {
	case lok && rok:
		return rw, lw
	case rok:
		return rw, nil
	case lok:
		return lw, nil
	case r != nil:
		return AsWeapon(r), nil
	case l != nil:
		return AsWeapon(l), nil
	}
	return c.NaturalWeapon(), nil
}

// Weapon is the primary weapon.
func (c *Creature) Weapon() *Weapon {
	w, _ := c.Weapons()
	return w
}

// Shields derives the primary and secondary shield by the same rule as
// weapons, without improvising.
func (c *Creature) Shields() (*Shield, *Shield) {
	ls, lok := c.Gear[SlotLeft].(*Shield)
	rs, rok := c.Gear[SlotRight].(*Shield)
	switch {
	case lok && rok:
		return rs, ls
	case rok:
		return rs, nil
	case lok:
		return ls, nil
	}
	return nil, nil
}

// Heal restores HP up to MXHP. It returns the amount restored.
func (c *Creature) Heal(n int) int {
	if n <= 0 || c.Dead() {
		return 0
	}
	before := c.HP
	c.HP = min(c.MXHP(), c.HP+n)
	return max(0, c.HP-before)
}

// Overheal raises HP past MXHP; only explicit effects use it.
func (c *Creature) Overheal(n int) {
	if n > 0 && !c.Dead() {
		c.HP += n
	}
}

// RestoreMP restores MP up to MXMP.
func (c *Creature) RestoreMP(n int) int {
	if n <= 0 {
		return 0
	}
	before := c.MP
	c.MP = min(c.MXMP(), c.MP+n)
	return max(0, c.MP-before)
}

// SpendMP deducts n MP, refusing when there is not enough.
func (c *Creature) SpendMP(n int) bool {
	if n > c.MP {
		return false
	}
	c.MP -= n
	return true
}

// TakeDamage applies a hit of the given damage tag and returns the HP
// actually lost. Immunity zeroes it, vulnerability doubles, resistance
// halves. Bludgeoning never takes the last hit point from a creature with
// more than one.
func (c *Creature) TakeDamage(amount int, tag string) int {
	if amount <= 0 || c.Dead() {
		return 0
	}
	if tag != "" {
		switch {
		case strings.Contains(c.Immune, tag):
			amount = 0
		case strings.Contains(c.Vulnerable, tag):
			amount *= 2
		case strings.Contains(c.Resistant, tag):
			amount /= 2
		}
	}
	if tag == "b" && c.HP > 1 && amount >= c.HP {
		amount = c.HP - 1
	}
	amount = min(amount, c.HP)
	c.HP -= amount
	return amount
}

// UpdateBurden applies or lifts the hindered condition.
func (c *Creature) UpdateBurden() {
	if c.INVW() > c.BRDN() {
		c.Status.Add("hindered", Sticky)
	} else {
		c.Status.Remove("hindered")
	}
}

// Remember adds a memory.
func (c *Creature) Remember(m string) { c.Memories.Add(m) }

func (c *Creature) String() string {
	return fmt.Sprintf("%s#%d(%d/%d)", c.Name, c.id, c.HP, c.MXHP())
}

// Animal has no hands and fights with its natural weapon.
type Animal struct {
	Creature
}

func (*Animal) Class() string { return "Animal" }

// Humanoid can hold and wear gear.
type Humanoid struct {
	Creature
}

func (*Humanoid) Class() string { return "Humanoid" }

// Person is a humanoid who can be talked to.
type Person struct {
	Humanoid
	Tree    *dialogue.Tree
	Rapport int
}

func (*Person) Class() string { return "Person" }

// Player is the creature the commands drive.
type Player struct {
	Humanoid
	XP     int
	RP     int
	Spells []string
}

func (*Player) Class() string { return "Player" }

// LevelFor returns the level reached with xp experience.
func LevelFor(xp int) int {
	if xp <= 0 {
		return 1
	}
	return 1 + int(math.Sqrt(float64(xp/10)))
}

// GainXP adds experience and returns the number of levels gained.
func (p *Player) GainXP(n int) int {
	if n <= 0 {
		return 0
	}
	before := p.Level
	p.XP += n
	p.Level = LevelFor(p.XP)
	return p.Level - before
}

// Knows reports whether the player has learned a spell.
func (p *Player) Knows(spell string) bool {
	for _, s := range p.Spells {
		if s == spell {
			return true
		}
	}
	return false
}

// Learn adds a spell, refusing past the SPLS limit or when already known.
func (p *Player) Learn(spell string) bool {
	if p.Knows(spell) || len(p.Spells) >= p.SPLS() {
		return false
	}
	p.Spells = append(p.Spells, spell)
	return true
}

func newCreature(name, desc string, weight int, composition string, tr Traits, level int) Creature {
	c := Creature{
		Base:        newBase(name, desc, weight, composition),
		Traits:      tr,
		Level:       max(1, level),
		Gear:        map[string]Thing{},
		Memories:    events.NewSet(),
		TimeOfDeath: -1,
	}
	c.HP = c.MXHP()
	c.MP = c.MXMP()
	return c
}

// NewAnimal creates an unregistered animal at full health.
func NewAnimal(name, desc string, weight int, tr Traits, level int, natural *Weapon) *Animal {
	a := &Animal{Creature: newCreature(name, desc, weight, "flesh", tr, level)}
	a.Natural = natural
	return a
}

// NewHumanoid creates an unregistered humanoid at full health.
func NewHumanoid(name, desc string, weight int, tr Traits, level int) *Humanoid {
	h := &Humanoid{Creature: newCreature(name, desc, weight, "flesh", tr, level)}
	h.Hands = true
	return h
}

// NewPerson creates an unregistered person with a proper name.
func NewPerson(name, desc, pronoun string, tr Traits, level int, tree *dialogue.Tree) *Person {
	p := &Person{Humanoid: *NewHumanoid(name, desc, 60, tr, level), Tree: tree}
	p.Determiner = "-"
	p.Pronoun = pronoun
	return p
}

// NewPlayer creates the player character.
func NewPlayer(name string, tr Traits) *Player {
	p := &Player{Humanoid: *NewHumanoid(name, "It's you.", 60, tr, 1)}
	p.Determiner = "-"
	p.Pronoun = "they"
	p.Money = 0
	return p
}
