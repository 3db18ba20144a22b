// Package events holds the ordered name sets the world remembers: the
// game's global events and each creature's memories.
package events

import (
	"slices"

	json "github.com/goccy/go-json"
)

// Set is an insertion-ordered set of names. The zero value is ready to use.
type Set struct {
	names []string
	index map[string]int
}

// NewSet creates a set holding names in order, skipping duplicates.
func NewSet(names ...string) *Set {
	s := &Set{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name; it reports whether the set changed.
func (s *Set) Add(name string) bool {
	if s.index == nil {
		s.index = map[string]int{}
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = len(s.names)
	s.names = append(s.names, name)
	return true
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Remove deletes name if present.
func (s *Set) Remove(name string) {
	i, ok := s.index[name]
	if !ok {
		return
	}
	s.names = slices.Delete(s.names, i, i+1)
	delete(s.index, name)
	for j := i; j < len(s.names); j++ {
		s.index[s.names[j]] = j
	}
}

// Len returns the number of names.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// List returns a copy of the names in insertion order.
func (s *Set) List() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.names)
}

type setRecord struct {
	Class   string   `json:"__class__"`
	SetData []string `json:"setdata"`
}

// MarshalJSON encodes the set as {"__class__": "set", "setdata": [...]}.
func (s *Set) MarshalJSON() ([]byte, error) {
	data := s.List()
	if data == nil {
		data = []string{}
	}
	return json.Marshal(setRecord{Class: "set", SetData: data})
}

// UnmarshalJSON accepts the tagged set form or a bare string array.
func (s *Set) UnmarshalJSON(data []byte) error {
	var rec setRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		var bare []string
		if err2 := json.Unmarshal(data, &bare); err2 != nil {
			return err
		}
		rec.SetData = bare
	}
	*s = Set{}
	for _, n := range rec.SetData {
		s.Add(n)
	}
	return nil
}
