package save

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/events"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// Record is the stored form of any item or creature, tagged with its class.
// A class writes only the fields it has; the rest stay at their zero value
// and are omitted.
type Record struct {
	Class       string         `json:"__class__"`
	ID          world.ID       `json:"id,omitempty"`
	Name        string         `json:"name"`
	Desc        string         `json:"desc,omitempty"`
	Weight      int            `json:"weight,omitempty"`
	Durability  int            `json:"durability"`
	Composition string         `json:"composition,omitempty"`
	Status      world.Statuses `json:"status,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
	Plural      string         `json:"plural,omitempty"`
	Determiner  string         `json:"determiner,omitempty"`
	Pronoun     string         `json:"pronoun,omitempty"`
	Fixed       bool           `json:"fixed,omitempty"`
	Longevity   int            `json:"longevity,omitempty"`
	Despawn     int            `json:"despawn,omitempty"`
	Scent       string         `json:"scent,omitempty"`
	Taste       string         `json:"taste,omitempty"`
	Texture     string         `json:"texture,omitempty"`

	Might      int                `json:"might,omitempty"`
	Sleight    int                `json:"sleight,omitempty"`
	Sharpness  int                `json:"sharpness,omitempty"`
	DamageType string             `json:"damageType,omitempty"`
	TwoHanded  bool               `json:"twoHanded,omitempty"`
	Prot       int                `json:"prot,omitempty"`
	Slot       string             `json:"slot,omitempty"`
	KeyID      int                `json:"keyId,omitempty"`
	Text       string             `json:"text,omitempty"`
	Nutrition  int                `json:"nutrition,omitempty"`
	Heal       int                `json:"heal,omitempty"`
	Liquid     string             `json:"liquid,omitempty"`
	Comfort    int                `json:"comfort,omitempty"`
	Capacity   int                `json:"capacity,omitempty"`
	Open       bool               `json:"open,omitempty"`
	Locked     bool               `json:"locked,omitempty"`
	Broken     bool               `json:"broken,omitempty"`
	Difficulty int                `json:"difficulty,omitempty"`
	Links      map[string]LinkRef `json:"links,omitempty"`
	Period     int                `json:"period,omitempty"`
	Countdown  int                `json:"countdown,omitempty"`
	Active     bool               `json:"active,omitempty"`
	Repeat     bool               `json:"repeat,omitempty"`
	On         bool               `json:"on,omitempty"`
	Effects    []types.Effect     `json:"effects,omitempty"`
	OnEffects  []types.Effect     `json:"onEffects,omitempty"`
	OffEffects []types.Effect     `json:"offEffects,omitempty"`
	Items      []*Record          `json:"items,omitempty"`

	Traits      *world.Traits       `json:"traits,omitempty"`
	HP          int                 `json:"hp,omitempty"`
	MP          int                 `json:"mp,omitempty"`
	Money       int                 `json:"money,omitempty"`
	Level       int                 `json:"level,omitempty"`
	Gear        map[string]*GearRef `json:"gear,omitempty"`
	Natural     *Record             `json:"natural,omitempty"`
	Love        int                 `json:"love,omitempty"`
	Fear        int                 `json:"fear,omitempty"`
	Memories    *events.Set         `json:"memories,omitempty"`
	Carrying    world.ID            `json:"carrying,omitempty"`
	Carrier     world.ID            `json:"carrier,omitempty"`
	Riding      world.ID            `json:"riding,omitempty"`
	Rider       world.ID            `json:"rider,omitempty"`
	TimeOfDeath int                 `json:"timeOfDeath,omitempty"`
	RegenTimer  int                 `json:"regenTimer,omitempty"`
	LastAte     int                 `json:"lastAte,omitempty"`
	LastSlept   int                 `json:"lastSlept,omitempty"`
	Hostile     bool                `json:"hostile,omitempty"`
	Rideable    bool                `json:"rideable,omitempty"`
	Hands       bool                `json:"hands,omitempty"`
	Vulnerable  string              `json:"vulnerable,omitempty"`
	Resistant   string              `json:"resistant,omitempty"`
	Immune      string              `json:"immune,omitempty"`
	Dialogue    *dialogue.Tree      `json:"dialogue,omitempty"`
	Rapport     int                 `json:"rapport,omitempty"`
	XP          int                 `json:"xp,omitempty"`
	RP          int                 `json:"rp,omitempty"`
	Spells      []string            `json:"spells,omitempty"`
}

// LinkRef is a portal link as stored: a room name, or the integer id of
// the paired portal on the far side.
type LinkRef struct {
	Room   string
	Portal world.ID
}

func (l LinkRef) MarshalJSON() ([]byte, error) {
	if l.Portal != 0 {
		return json.Marshal(l.Portal)
	}
	return json.Marshal(l.Room)
}

func (l *LinkRef) UnmarshalJSON(data []byte) error {
	var id world.ID
	if err := json.Unmarshal(data, &id); err == nil {
		*l = LinkRef{Portal: id}
		return nil
	}
	var room string
	if err := json.Unmarshal(data, &room); err != nil {
		return fmt.Errorf("portal link %s: %w", data, err)
	}
	*l = LinkRef{Room: strings.ToLower(room)}
	return nil
}

// carryingMark fills the left-hand slot of a creature that carries another.
const carryingMark = "carrying"

// GearRef is what fills a gear slot: an index into the inventory, or the
// carried creature. An empty slot is stored as null.
type GearRef struct {
	Index    int
	Carrying bool
}

func (g GearRef) MarshalJSON() ([]byte, error) {
	if g.Carrying {
		return json.Marshal(carryingMark)
	}
	return json.Marshal(g.Index)
}

func (g *GearRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != carryingMark {
			return fmt.Errorf("gear slot %q: want an index or %q", s, carryingMark)
		}
		*g = GearRef{Carrying: true}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("gear slot %s: %w", data, err)
	}
	*g = GearRef{Index: n}
	return nil
}

// EncodeThing converts t and everything it holds into records.
func EncodeThing(t world.Thing) *Record {
	b := t.Core()
	r := &Record{
		Class:       t.Class(),
		ID:          b.ID(),
		Name:        b.Name,
		Desc:        b.Desc,
		Weight:      b.BaseWeight,
		Durability:  b.Durability,
		Composition: b.Composition,
		Status:      append(world.Statuses(nil), b.Status...),
		Aliases:     b.Aliases,
		Plural:      b.Plural,
		Determiner:  b.Determiner,
		Pronoun:     b.Pronoun,
		Fixed:       b.Fixed,
		Longevity:   b.Longevity,
		Despawn:     b.Despawn,
		Scent:       b.Scent,
		Taste:       b.Taste,
		Texture:     b.Texture,
	}

	switch v := t.(type) {
	case *world.Weapon:
		r.Might, r.Sleight, r.Sharpness = v.Might, v.Sleight, v.Sharpness
		r.DamageType, r.TwoHanded = v.DamageType, v.TwoHanded
	case *world.Projectile:
		r.Might, r.Sharpness, r.DamageType = v.Might, v.Sharpness, v.DamageType
	case *world.Armor:
		r.Prot, r.Slot = v.Prot, v.Slot
	case *world.Shield:
		r.Prot, r.TwoHanded = v.Prot, v.TwoHanded
	case *world.Key:
		r.KeyID = v.KeyID
	case *world.Sign:
		r.Text = v.Text
	case *world.Food:
		r.Nutrition, r.Heal, r.Effects = v.Nutrition, v.Heal, v.Effects
	case *world.Potion:
		r.Effects = v.Effects
	case *world.Pool:
		r.Liquid, r.Effects = v.Liquid, v.Effects
	case *world.Bed:
		r.Comfort = v.Comfort
	case *world.Container:
		r.Capacity = v.Capacity
	case *world.Box:
		r.Capacity, r.Open = v.Capacity, v.Open
	case *world.Lockbox:
		r.Capacity, r.Open, r.Locked, r.KeyID = v.Capacity, v.Open, v.Locked, v.KeyID
	case *world.Wall:
		r.Difficulty = v.Difficulty
	case *world.Window:
		r.Open, r.Broken = v.Open, v.Broken
	case *world.Door:
		r.Open, r.Locked, r.KeyID = v.Open, v.Locked, v.KeyID
	case *world.Controller:
		r.Effects = v.Effects
	case *world.Switch:
		r.On, r.OnEffects, r.OffEffects = v.On, v.OnEffects, v.OffEffects
	case *world.Timer:
		r.Period, r.Countdown, r.Active, r.Repeat = v.Period, v.Countdown, v.Active, v.Repeat
		r.Effects = v.Effects
	case *world.Person:
		r.Dialogue, r.Rapport = v.Tree, v.Rapport
	case *world.Player:
		r.XP, r.RP, r.Spells = v.XP, v.RP, v.Spells
	}

	if p, ok := t.(world.Traversable); ok {
		r.Links = map[string]LinkRef{}
		for dir, l := range p.PortalLinks() {
			r.Links[dir] = LinkRef{Room: l.Room, Portal: l.Portal}
		}
	}
	if being, ok := t.(world.Being); ok {
		encodeCreature(r, being.Body())
	}
	if h, ok := t.(world.Holder); ok {
		for _, inner := range h.Contents() {
			r.Items = append(r.Items, EncodeThing(inner))
		}
	}
	return r
}

func encodeCreature(r *Record, c *world.Creature) {
	tr := c.Traits
	r.Traits = &tr
	r.HP, r.MP, r.Money, r.Level = c.HP, c.MP, c.Money, c.Level
	r.Love, r.Fear, r.Memories = c.Love, c.Fear, c.Memories
	r.Carrying, r.Carrier, r.Riding, r.Rider = c.Carrying, c.Carrier, c.Riding, c.Rider
	r.TimeOfDeath, r.RegenTimer = c.TimeOfDeath, c.RegenTimer
	r.LastAte, r.LastSlept = c.LastAte, c.LastSlept
	r.Hostile, r.Rideable, r.Hands = c.Hostile, c.Rideable, c.Hands
	r.Vulnerable, r.Resistant, r.Immune = c.Vulnerable, c.Resistant, c.Immune
	if c.Natural != nil {
		r.Natural = EncodeThing(c.Natural)
	}

	r.Gear = map[string]*GearRef{}
	for _, slot := range world.Slots {
		g := c.Gear[slot]
		switch {
		case g != nil:
			if i := inventoryIndex(c, g); i >= 0 {
				r.Gear[slot] = &GearRef{Index: i}
			} else {
				r.Gear[slot] = nil
			}
		case slot == world.SlotLeft && c.Carrying != 0:
			r.Gear[slot] = &GearRef{Carrying: true}
		default:
			r.Gear[slot] = nil
		}
	}
}

func inventoryIndex(c *world.Creature, t world.Thing) int {
	for i, inv := range c.Inventory {
		if inv.Core() == t.Core() {
			return i
		}
	}
	return -1
}

func (r *Record) base() world.Base {
	return world.Base{
		Name:        r.Name,
		Desc:        r.Desc,
		BaseWeight:  r.Weight,
		Durability:  r.Durability,
		Composition: r.Composition,
		Status:      append(world.Statuses(nil), r.Status...),
		Aliases:     r.Aliases,
		Plural:      r.Plural,
		Determiner:  r.Determiner,
		Pronoun:     r.Pronoun,
		Fixed:       r.Fixed,
		Longevity:   r.Longevity,
		Despawn:     r.Despawn,
		Scent:       r.Scent,
		Taste:       r.Taste,
		Texture:     r.Texture,
	}
}

func (r *Record) links() map[string]world.Link {
	out := make(map[string]world.Link, len(r.Links))
	for dir, l := range r.Links {
		out[dir] = world.Link{Room: l.Room, Portal: l.Portal}
	}
	return out
}

func (r *Record) creature(b world.Base) (world.Creature, error) {
	c := world.Creature{
		Base:        b,
		HP:          r.HP,
		MP:          r.MP,
		Money:       r.Money,
		Level:       max(1, r.Level),
		Gear:        map[string]world.Thing{},
		Love:        r.Love,
		Fear:        r.Fear,
		Memories:    r.Memories,
		Carrying:    r.Carrying,
		Carrier:     r.Carrier,
		Riding:      r.Riding,
		Rider:       r.Rider,
		TimeOfDeath: r.TimeOfDeath,
		RegenTimer:  r.RegenTimer,
		LastAte:     r.LastAte,
		LastSlept:   r.LastSlept,
		Hostile:     r.Hostile,
		Rideable:    r.Rideable,
		Hands:       r.Hands,
		Vulnerable:  r.Vulnerable,
		Resistant:   r.Resistant,
		Immune:      r.Immune,
	}
	if r.Traits != nil {
		c.Traits = *r.Traits
	}
	if c.Memories == nil {
		c.Memories = events.NewSet()
	}
	if r.Natural != nil {
		nt, err := DecodeThing(r.Natural)
		if err != nil {
			return c, err
		}
		w, ok := nt.(*world.Weapon)
		if !ok {
			return c, fmt.Errorf("%s: natural weapon is a %s", r.Name, nt.Class())
		}
		c.Natural = w
	}
	return c, nil
}

// DecodeThing builds the object a record describes, without its contents.
// The object keeps the record's id, or none when the record has no id.
func DecodeThing(r *Record) (world.Thing, error) {
	item := world.Item{Base: r.base()}
	var t world.Thing
	switch r.Class {
	case "Item":
		t = &item
	case "Weapon":
		t = &world.Weapon{Item: item, Might: r.Might, Sleight: r.Sleight, Sharpness: r.Sharpness,
			DamageType: r.DamageType, TwoHanded: r.TwoHanded}
	case "Projectile":
		t = &world.Projectile{Item: item, Might: r.Might, Sharpness: r.Sharpness, DamageType: r.DamageType}
	case "Armor":
		t = &world.Armor{Item: item, Prot: r.Prot, Slot: r.Slot}
	case "Shield":
		t = &world.Shield{Item: item, Prot: r.Prot, TwoHanded: r.TwoHanded}
	case "Key":
		t = &world.Key{Item: item, KeyID: r.KeyID}
	case "Sign":
		t = &world.Sign{Item: item, Text: r.Text}
	case "Serpens":
		t = &world.Serpens{Item: item}
	case "Food":
		t = &world.Food{Item: item, Nutrition: r.Nutrition, Heal: r.Heal, Effects: r.Effects}
	case "Potion":
		t = &world.Potion{Item: item, Effects: r.Effects}
	case "Pool":
		t = &world.Pool{Item: item, Liquid: r.Liquid, Effects: r.Effects}
	case "Bed":
		t = &world.Bed{Item: item, Comfort: r.Comfort}
	case "Container":
		t = &world.Container{Item: item, Capacity: r.Capacity}
	case "Box":
		t = &world.Box{Container: world.Container{Item: item, Capacity: r.Capacity}, Open: r.Open}
	case "Lockbox":
		t = &world.Lockbox{
			Box:    world.Box{Container: world.Container{Item: item, Capacity: r.Capacity}, Open: r.Open},
			Locked: r.Locked,
			KeyID:  r.KeyID,
		}
	case "Passage":
		t = &world.Passage{Item: item, Links: r.links()}
	case "Wall":
		t = &world.Wall{Passage: world.Passage{Item: item, Links: r.links()}, Difficulty: r.Difficulty}
	case "Window":
		t = &world.Window{Passage: world.Passage{Item: item, Links: r.links()}, Open: r.Open, Broken: r.Broken}
	case "Door":
		t = &world.Door{Passage: world.Passage{Item: item, Links: r.links()}, Open: r.Open, Locked: r.Locked, KeyID: r.KeyID}
	case "Controller":
		t = &world.Controller{Item: item, Effects: r.Effects}
	case "Switch":
		t = &world.Switch{Item: item, On: r.On, OnEffects: r.OnEffects, OffEffects: r.OffEffects}
	case "Timer":
		t = &world.Timer{Item: item, Period: r.Period, Countdown: r.Countdown, Active: r.Active,
			Repeat: r.Repeat, Effects: r.Effects}
	case "Creature", "Animal", "Humanoid", "Person", "Player":
		c, err := r.creature(item.Base)
		if err != nil {
			return nil, err
		}
		switch r.Class {
		case "Creature":
			t = &c
		case "Animal":
			t = &world.Animal{Creature: c}
		case "Humanoid":
			t = &world.Humanoid{Creature: c}
		case "Person":
			t = &world.Person{Humanoid: world.Humanoid{Creature: c}, Tree: r.Dialogue, Rapport: r.Rapport}
		default:
			t = &world.Player{Humanoid: world.Humanoid{Creature: c}, XP: r.XP, RP: r.RP, Spells: r.Spells}
		}
	default:
		return nil, fmt.Errorf("%s: unknown class %q", r.Name, r.Class)
	}
	t.Core().SetID(r.ID)
	return t, nil
}

// Build decodes r and everything inside it and places the result in dest.
// Objects carrying an id adopt it; the rest are registered fresh. Gear is
// re-equipped from the stored inventory indexes.
func Build(w *world.World, r *Record, dest world.Holder) (world.Thing, error) {
	t, err := DecodeThing(r)
	if err != nil {
		return nil, err
	}
	if t.Core().ID() == 0 {
		w.Registry.Register(t)
	} else if err := w.Registry.Adopt(t); err != nil {
		return nil, err
	}
	placed, err := w.Put(t, dest)
	if err != nil {
		return nil, fmt.Errorf("placing %s in %s: %w", r.Name, dest.HolderName(), err)
	}
	if len(r.Items) > 0 {
		h, ok := placed.(world.Holder)
		if !ok {
			return nil, fmt.Errorf("%s (%s) cannot hold items", r.Name, r.Class)
		}
		for _, inner := range r.Items {
			if _, err := Build(w, inner, h); err != nil {
				return nil, err
			}
		}
	}
	if b, ok := placed.(world.Being); ok {
		if err := equip(b.Body(), r.Gear); err != nil {
			return nil, err
		}
	}
	return placed, nil
}

func equip(c *world.Creature, gear map[string]*GearRef) error {
	for slot, ref := range gear {
		if ref == nil || ref.Carrying {
			continue
		}
		if ref.Index < 0 || ref.Index >= len(c.Inventory) {
			return fmt.Errorf("%s: %s slot points at item %d of %d", c.Name, slot, ref.Index, len(c.Inventory))
		}
		c.Gear[slot] = c.Inventory[ref.Index]
	}
	return nil
}

// RoomRecord is the stored form of a room.
type RoomRecord struct {
	Class     string            `json:"__class__"`
	Name      string            `json:"name"`
	Domain    string            `json:"domain,omitempty"`
	Desc      string            `json:"desc,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
	Size      int               `json:"size,omitempty"`
	Type      string            `json:"type,omitempty"`
	Altitude  int               `json:"altitude,omitempty"`
	Passprep  string            `json:"passprep,omitempty"`
	Status    world.Statuses    `json:"status,omitempty"`
	Fixtures  []*Record         `json:"fixtures,omitempty"`
	Items     []*Record         `json:"items,omitempty"`
	Creatures []*Record         `json:"creatures,omitempty"`
}

// EncodeRoom converts a room and its contents. skip, usually the player,
// is left out.
func EncodeRoom(room *world.Room, skip world.Thing) *RoomRecord {
	rr := &RoomRecord{
		Class:    "Room",
		Name:     room.Name,
		Domain:   room.Domain,
		Desc:     room.Desc,
		Links:    room.Links,
		Size:     room.Size,
		Type:     room.Type,
		Altitude: room.Altitude,
		Passprep: room.Passprep,
		Status:   append(world.Statuses(nil), room.Status...),
	}
	for _, t := range room.Fixtures {
		rr.Fixtures = append(rr.Fixtures, EncodeThing(t))
	}
	for _, t := range room.Items {
		rr.Items = append(rr.Items, EncodeThing(t))
	}
	for _, c := range room.Creatures {
		if skip != nil && c.Core() == skip.Core() {
			continue
		}
		rr.Creatures = append(rr.Creatures, EncodeThing(c))
	}
	return rr
}

// DecodeRoom creates the bare room a record describes. Contents are added
// with BuildRoom once every room exists.
func DecodeRoom(rr *RoomRecord) *world.Room {
	room := world.NewRoom(rr.Name, rr.Domain, rr.Desc)
	for dir, to := range rr.Links {
		room.Links[dir] = strings.ToLower(to)
	}
	if rr.Size != 0 {
		room.Size = rr.Size
	}
	if rr.Type != "" {
		room.Type = rr.Type
	}
	if rr.Passprep != "" {
		room.Passprep = rr.Passprep
	}
	room.Altitude = rr.Altitude
	room.Status = append(world.Statuses(nil), rr.Status...)
	return room
}

// BuildRoom places a room record's contents into room.
func BuildRoom(w *world.World, room *world.Room, rr *RoomRecord) error {
	for _, group := range [][]*Record{rr.Fixtures, rr.Items, rr.Creatures} {
		for _, r := range group {
			if _, err := Build(w, r, room); err != nil {
				return fmt.Errorf("room %s: %w", room.Name, err)
			}
		}
	}
	return nil
}
