package world

import (
	"sort"

	"github.com/nathoo/serpens/engine/events"
	"github.com/nathoo/serpens/types"
)

func heal(n int) types.Effect {
	return types.Effect{Type: "heal", Params: map[string]any{"amount": n}}
}

func status(name string, duration int) types.Effect {
	return types.Effect{Type: "status", Params: map[string]any{"name": name, "duration": duration}}
}

func weapon(name, desc string, weight int, comp string, might, sleight, sharp int, tag string) *Weapon {
	return &Weapon{
		Item:       Item{Base: newBase(name, desc, weight, comp)},
		Might:      might,
		Sleight:    sleight,
		Sharpness:  sharp,
		DamageType: tag,
	}
}

func armor(name, desc string, weight int, comp string, prot int, slot string) *Armor {
	return &Armor{Item: Item{Base: newBase(name, desc, weight, comp)}, Prot: prot, Slot: slot}
}

var itemFactory = map[string]func() Thing{
	"red potion": func() Thing {
		p := &Potion{Item: Item{Base: newBase("red potion", "A small vial of red liquid.", 1, "glass")}, Effects: []types.Effect{heal(10)}}
		p.Aliases = []string{"potion", "vial"}
		return p
	},
	"blue potion": func() Thing {
		p := &Potion{Item: Item{Base: newBase("blue potion", "A small vial of blue liquid.", 1, "glass")},
			Effects: []types.Effect{{Type: "restore", Params: map[string]any{"amount": 10}}}}
		p.Aliases = []string{"potion", "vial"}
		return p
	},
	"green potion": func() Thing {
		p := &Potion{Item: Item{Base: newBase("green potion", "A small vial of murky green liquid.", 1, "glass")},
			Effects: []types.Effect{status("strengthened", 30)}}
		p.Aliases = []string{"potion", "vial"}
		return p
	},
	"bread": func() Thing {
		f := &Food{Item: Item{Base: newBase("bread", "A crusty loaf.", 1, "food")}, Nutrition: 200, Heal: 2}
		f.Determiner = "some"
		f.Aliases = []string{"loaf"}
		return f
	},
	"apple": func() Thing {
		return &Food{Item: Item{Base: newBase("apple", "A red apple.", 1, "food")}, Nutrition: 80, Heal: 1}
	},
	"rock": func() Thing {
		r := NewPlainItem("rock", "A fist-sized rock.", 4, "stone")
		r.Aliases = []string{"stone"}
		return r
	},
	"stick": func() Thing {
		return NewPlainItem("stick", "A crooked stick.", 2, "wood")
	},
	"dagger": func() Thing {
		w := weapon("dagger", "A short, sharp blade.", 2, "steel", 3, 10, 3, "p")
		w.Aliases = []string{"knife"}
		return w
	},
	"sword": func() Thing {
		return weapon("sword", "A well-balanced sword.", 6, "steel", 5, 5, 2, "s")
	},
	"greatsword": func() Thing {
		w := weapon("greatsword", "A sword as long as you are tall.", 14, "steel", 9, 0, 3, "s")
		w.TwoHanded = true
		return w
	},
	"club": func() Thing {
		return weapon("club", "A knotted wooden club.", 5, "wood", 4, 0, 0, "b")
	},
	"spear": func() Thing {
		w := weapon("spear", "An ash spear with an iron head.", 6, "wood", 5, 5, 2, "p")
		w.TwoHanded = true
		return w
	},
	"arrow": func() Thing {
		return &Projectile{Item: Item{Base: newBase("arrow", "A fletched arrow.", 1, "wood")}, Might: 4, Sharpness: 3, DamageType: "p"}
	},
	"dart": func() Thing {
		return &Projectile{Item: Item{Base: newBase("dart", "A weighted throwing dart.", 1, "iron")}, Might: 3, Sharpness: 2, DamageType: "p"}
	},
	"buckler": func() Thing {
		return &Shield{Item: Item{Base: newBase("buckler", "A small round shield.", 4, "wood")}, Prot: 2}
	},
	"tower shield": func() Thing {
		return &Shield{Item: Item{Base: newBase("tower shield", "A shield as tall as a door.", 16, "iron")}, Prot: 6, TwoHanded: true}
	},
	"helmet": func() Thing {
		return armor("helmet", "A dented iron helmet.", 4, "iron", 2, SlotHead)
	},
	"leather armor": func() Thing {
		a := armor("leather armor", "A jerkin of boiled leather.", 8, "leather", 3, SlotBody)
		a.Determiner = "some"
		return a
	},
	"greaves": func() Thing {
		g := armor("greaves", "A pair of iron greaves.", 5, "iron", 2, SlotLegs)
		g.Determiner = "some"
		return g
	},
	"key": func() Thing {
		return &Key{Item: Item{Base: newBase("key", "A small iron key.", 1, "iron")}, KeyID: 1}
	},
	"sack": func() Thing {
		return &Container{Item: Item{Base: newBase("sack", "A rough cloth sack.", 1, "cloth")}, Capacity: 40}
	},
	"chest": func() Thing {
		return &Box{Container: Container{Item: Item{Base: newBase("chest", "A heavy wooden chest.", 30, "wood")}, Capacity: 120}}
	},
	"lockbox": func() Thing {
		l := &Lockbox{Box: Box{Container: Container{Item: Item{Base: newBase("lockbox", "A small iron box with a keyhole.", 6, "iron")}, Capacity: 20}}, KeyID: 1}
		l.Aliases = []string{"box"}
		return l
	},
	"torch": func() Thing {
		t := NewPlainItem("torch", "A pitch-soaked torch.", 2, "wood")
		t.Longevity = 500
		t.Despawn = 500
		return t
	},
	"note": func() Thing {
		return &Sign{Item: Item{Base: newBase("note", "A folded scrap of paper.", 0, "paper")}, Text: "Meet me by the old bridge."}
	},
	"bedroll": func() Thing {
		return &Bed{Item: Item{Base: newBase("bedroll", "A rolled blanket for sleeping rough.", 3, "cloth")}, Comfort: 1}
	},
	"gold": func() Thing {
		return NewSerpens(1)
	},
}

func natural(name string, might, sharp int, tag string) *Weapon {
	return &Weapon{Item: Item{Base: Base{Name: name, Determiner: "-", Durability: -1}}, Might: might, Sharpness: sharp, DamageType: tag, Improvised: true}
}

var creatureFactory = map[string]func() Being{
	"green python": func() Being {
		a := NewAnimal("green python", "A long green snake, coiled and watchful.", 20,
			Traits{STR: 4, SPD: 5, SKL: 6, STM: 2, CON: 3, CHA: 1, INT: 1, WIS: 2, FTH: 1, LCK: 4}, 3, natural("fangs", 2, 2, "p"))
		a.Aliases = []string{"python", "snake", "serpent"}
		a.Composition = "scales"
		a.Vulnerable = "c"
		a.Hostile = true
		return a
	},
	"grey wolf": func() Being {
		a := NewAnimal("grey wolf", "A lean wolf with a ragged grey coat.", 40,
			Traits{STR: 6, SPD: 8, SKL: 6, STM: 5, CON: 4, CHA: 2, INT: 2, WIS: 3, FTH: 1, LCK: 4}, 2, natural("teeth", 3, 2, "p"))
		a.Aliases = []string{"wolf"}
		a.Composition = "fur"
		a.Hostile = true
		return a
	},
	"brown hare": func() Being {
		a := NewAnimal("brown hare", "A twitchy brown hare.", 4,
			Traits{STR: 1, SPD: 12, SKL: 3, STM: 3, CON: 2, CHA: 3, INT: 1, WIS: 2, FTH: 1, LCK: 6}, 1, natural("paws", 1, 0, "b"))
		a.Aliases = []string{"hare", "rabbit"}
		a.Composition = "fur"
		return a
	},
	"cave bat": func() Being {
		a := NewAnimal("cave bat", "A leathery bat hanging from the ceiling.", 1,
			Traits{STR: 1, SPD: 10, SKL: 4, STM: 2, CON: 1, CHA: 1, INT: 1, WIS: 3, FTH: 1, LCK: 5}, 1, natural("teeth", 1, 1, "p"))
		a.Aliases = []string{"bat"}
		a.Hostile = true
		return a
	},
	"horse": func() Being {
		a := NewAnimal("horse", "A sturdy chestnut horse.", 400,
			Traits{STR: 14, SPD: 12, SKL: 3, STM: 12, CON: 10, CHA: 6, INT: 2, WIS: 3, FTH: 2, LCK: 5}, 3, natural("hooves", 4, 0, "b"))
		a.Composition = "fur"
		a.Rideable = true
		return a
	},
	"goblin": func() Being {
		g := NewHumanoid("goblin", "A wiry goblin with a nasty grin.", 35,
			Traits{STR: 5, SPD: 7, SKL: 6, STM: 4, CON: 4, CHA: 2, INT: 4, WIS: 3, FTH: 2, LCK: 5}, 2)
		g.Hostile = true
		g.Money = 2
		return g
	},
}

// NewItem builds an unregistered item from the factory table.
func NewItem(kind string) (Thing, bool) {
	f, ok := itemFactory[kind]
	if !ok {
		return nil, false
	}
	return f(), true
}

// NewCreature builds an unregistered creature from the factory table.
func NewCreature(kind string) (Being, bool) {
	f, ok := creatureFactory[kind]
	if !ok {
		return nil, false
	}
	return f(), true
}

// ItemKinds lists the item factory keys, sorted.
func ItemKinds() []string { return sortedKeys(itemFactory) }

// CreatureKinds lists the creature factory keys, sorted.
func CreatureKinds() []string { return sortedKeys(creatureFactory) }

// IsKind reports whether word names any factory entry.
func IsKind(word string) bool {
	_, a := itemFactory[word]
	_, b := creatureFactory[word]
	return a || b
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Blank returns a zero-valued object of the named class, ready to be
// filled in by a decoder.
func Blank(class string) (Thing, bool) {
	var t Thing
	switch class {
	case "Item":
		t = &Item{}
	case "Weapon":
		t = &Weapon{}
	case "Armor":
		t = &Armor{}
	case "Shield":
		t = &Shield{}
	case "Key":
		t = &Key{}
	case "Sign":
		t = &Sign{}
	case "Serpens":
		t = &Serpens{}
	case "Food":
		t = &Food{}
	case "Potion":
		t = &Potion{}
	case "Pool":
		t = &Pool{}
	case "Bed":
		t = &Bed{}
	case "Projectile":
		t = &Projectile{}
	case "Container":
		t = &Container{}
	case "Box":
		t = &Box{}
	case "Lockbox":
		t = &Lockbox{}
	case "Passage":
		t = &Passage{}
	case "Wall":
		t = &Wall{}
	case "Window":
		t = &Window{}
	case "Door":
		t = &Door{}
	case "Controller":
		t = &Controller{}
	case "Switch":
		t = &Switch{}
	case "Timer":
		t = &Timer{}
	case "Creature":
		t = &Creature{}
	case "Animal":
		t = &Animal{}
	case "Humanoid":
		t = &Humanoid{Creature: Creature{Hands: true}}
	case "Person":
		t = &Person{Humanoid: Humanoid{Creature: Creature{Hands: true}}}
	case "Player":
		t = &Player{Humanoid: Humanoid{Creature: Creature{Hands: true}}}
	default:
		return nil, false
	}
	b := t.Core()
	b.Durability = -1
	b.Pronoun = "it"
	if being, ok := t.(Being); ok {
		c := being.Body()
		c.Gear = map[string]Thing{}
		c.Memories = events.NewSet()
		c.TimeOfDeath = -1
		c.Level = 1
	}
	if p, ok := t.(Traversable); ok && p.PortalLinks() == nil {
		setLinks(t, map[string]Link{})
	}
	return t, true
}

// setLinks assigns the link map of any portal kind.
func setLinks(t Thing, links map[string]Link) {
	switch p := t.(type) {
	case *Passage:
		p.Links = links
	case *Wall:
		p.Links = links
	case *Window:
		p.Links = links
	case *Door:
		p.Links = links
	}
}

// PassageOf returns the shared passage fields of any portal kind.
func PassageOf(t Thing) *Passage {
	switch p := t.(type) {
	case *Passage:
		return p
	case *Wall:
		return &p.Passage
	case *Window:
		return &p.Passage
	case *Door:
		return &p.Passage
	}
	return nil
}

// ContainerOf returns the shared container fields of any container kind.
func ContainerOf(t Thing) *Container {
	switch c := t.(type) {
	case *Container:
		return c
	case *Box:
		return &c.Container
	case *Lockbox:
		return &c.Container
	}
	return nil
}

// NewPassage creates a fixed always-open portal.
func NewPassage(name, desc string) *Passage {
	p := newPassage(name, desc, "stone")
	return &p
}

// NewDoor creates a closed, unlocked door.
func NewDoor(name, desc string, keyID int) *Door {
	return &Door{Passage: newPassage(name, desc, "wood"), KeyID: keyID}
}

// NewWindow creates a closed window.
func NewWindow(name, desc string) *Window {
	return &Window{Passage: newPassage(name, desc, "glass")}
}

// NewWall creates a climbable wall.
func NewWall(name, desc string, difficulty int) *Wall {
	return &Wall{Passage: newPassage(name, desc, "stone"), Difficulty: difficulty}
}
