// Package content loads the static dictionary the engine reads: verb
// synonyms, prepositions, directions, damage labels, canned dialogue lines,
// spawn pools and the other tables that are data rather than code.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed dict.yaml
var defaultDict []byte

// SpawnEntry is one weighted creature kind in a domain's spawn pool.
// Chance is rolled against d100 once per tick for an empty room.
type SpawnEntry struct {
	Kind   string `yaml:"kind"`
	Chance int    `yaml:"chance"`
}

// PeriodicDamage is damage applied every tick while a status is held.
type PeriodicDamage struct {
	Amount int    `yaml:"amount"`
	Type   string `yaml:"type"`
}

// Dict is the parsed dictionary.
type Dict struct {
	Verbs          map[string][]string       `yaml:"verbs"`
	StatCommands   []string                  `yaml:"stat_commands"`
	Emotes         []string                  `yaml:"emotes"`
	Emoticons      map[string]string         `yaml:"emoticons"`
	Prepositions   []string                  `yaml:"prepositions"`
	Directions     map[string]string         `yaml:"directions"`
	Articles       []string                  `yaml:"articles"`
	Compounds      map[string]string         `yaml:"compounds"`
	Pronouns       map[string]string         `yaml:"pronouns"`
	CancelWords    []string                  `yaml:"cancel_words"`
	Punctuation    string                    `yaml:"punctuation"`
	DamageTypes    map[string]string         `yaml:"damage_types"`
	Curses         []string                  `yaml:"curses"`
	Blessings      []string                  `yaml:"blessings"`
	Textures       map[string]string         `yaml:"textures"`
	Tastes         map[string]string         `yaml:"tastes"`
	Scents         map[string]string         `yaml:"scents"`
	SpawnPools     map[string][]SpawnEntry   `yaml:"spawn_pools"`
	Glossary       map[string]string         `yaml:"glossary"`
	Trites         map[string][]string       `yaml:"trites"`
	TraitMods      map[string]map[string]int `yaml:"trait_mods"`
	PeriodicDamage map[string]PeriodicDamage `yaml:"periodic_damage"`
	TimeOfDay      map[int]string            `yaml:"time_of_day"`
	Examples       []string                  `yaml:"examples"`

	synonyms   map[string]string
	preps      map[string]bool
	longDirs   map[string]bool
	articles   map[string]bool
	cancel     map[string]bool
	stats      map[string]bool
	emotes     map[string]bool
	multiVerbs []string
}

// Default parses the embedded dictionary.
func Default() (*Dict, error) {
	return Load(defaultDict)
}

// MustDefault is Default for tests and package initialisation; it panics
// if the embedded dictionary is malformed.
func MustDefault() *Dict {
	d, err := Default()
	if err != nil {
		panic(fmt.Sprintf("content: embedded dictionary: %v", err))
	}
	return d
}

// Load parses a dictionary from YAML and builds its lookup indexes.
// Unknown keys are rejected so typos in content surface at startup.
func Load(data []byte) (*Dict, error) {
	var d Dict
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing dictionary: %w", err)
	}
	if err := d.index(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Dict) index() error {
	d.synonyms = map[string]string{}
	for canon, syns := range d.Verbs {
		if prev, ok := d.synonyms[canon]; ok && prev != canon {
			return fmt.Errorf("verb %q is both canonical and a synonym of %q", canon, prev)
		}
		d.synonyms[canon] = canon
		for _, s := range syns {
			if prev, ok := d.synonyms[s]; ok && prev != canon {
				return fmt.Errorf("synonym %q maps to both %q and %q", s, prev, canon)
			}
			d.synonyms[s] = canon
		}
	}
	for word := range d.synonyms {
		if strings.Contains(word, " ") {
			d.multiVerbs = append(d.multiVerbs, word)
		}
	}
	// Longest phrases first so "pick up" wins over "pick".
	sort.Slice(d.multiVerbs, func(i, j int) bool {
		a, b := strings.Count(d.multiVerbs[i], " "), strings.Count(d.multiVerbs[j], " ")
		if a != b {
			return a > b
		}
		return d.multiVerbs[i] < d.multiVerbs[j]
	})

	d.preps = toSet(d.Prepositions)
	d.articles = toSet(d.Articles)
	d.cancel = toSet(d.CancelWords)
	d.stats = toSet(d.StatCommands)
	d.emotes = toSet(d.Emotes)
	d.longDirs = map[string]bool{}
	for _, long := range d.Directions {
		d.longDirs[long] = true
	}
	return nil
}

func toSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Canonical maps a verb or synonym to its handler name.
func (d *Dict) Canonical(verb string) (string, bool) {
	c, ok := d.synonyms[verb]
	return c, ok
}

// MultiWordVerbs returns the multi-word verb phrases, longest first.
func (d *Dict) MultiWordVerbs() []string {
	return d.multiVerbs
}

// IsPreposition reports whether word is in the closed preposition set.
func (d *Dict) IsPreposition(word string) bool { return d.preps[word] }

// IsArticle reports whether word is dropped as an article.
func (d *Dict) IsArticle(word string) bool { return d.articles[word] }

// IsCancel reports whether word aborts a prompt.
func (d *Dict) IsCancel(word string) bool { return d.cancel[strings.TrimSpace(word)] }

// IsStatCommand reports whether word is a reserved short command.
func (d *Dict) IsStatCommand(word string) bool { return d.stats[word] }

// IsEmote reports whether word is an expressive action.
func (d *Dict) IsEmote(word string) bool { return d.emotes[word] }

// ExpandDirection maps a short direction to its long form; long forms map
// to themselves. Anything else yields "".
func (d *Dict) ExpandDirection(word string) string {
	if long, ok := d.Directions[word]; ok {
		return long
	}
	if d.longDirs[word] {
		return word
	}
	return ""
}

// IsDirection reports whether word is a short or long direction name.
func (d *Dict) IsDirection(word string) bool {
	return d.ExpandDirection(word) != ""
}

// LongDirections returns the long direction names, sorted.
func (d *Dict) LongDirections() []string {
	out := make([]string, 0, len(d.longDirs))
	for dir := range d.longDirs {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out
}

// Pronoun maps a pronoun word to its referent slot (it, he, she, they).
func (d *Dict) Pronoun(word string) (string, bool) {
	slot, ok := d.Pronouns[word]
	return slot, ok
}

// DamageLabel returns the label for a damage-type tag.
func (d *Dict) DamageLabel(tag string) string {
	if l, ok := d.DamageTypes[tag]; ok {
		return l
	}
	return "pure"
}

// HasTrite reports whether a named pool of canned lines exists.
func (d *Dict) HasTrite(name string) bool {
	_, ok := d.Trites[name]
	return ok
}

// TraitMod returns the trait modifier a status applies, or 0.
func (d *Dict) TraitMod(status, trait string) int {
	return d.TraitMods[status][trait]
}

// Opposite returns the direction opposite dir, or "".
func Opposite(dir string) string {
	switch dir {
	case "north":
		return "south"
	case "south":
		return "north"
	case "east":
		return "west"
	case "west":
		return "east"
	case "northeast":
		return "southwest"
	case "southwest":
		return "northeast"
	case "northwest":
		return "southeast"
	case "southeast":
		return "northwest"
	case "up":
		return "down"
	case "down":
		return "up"
	}
	return ""
}
