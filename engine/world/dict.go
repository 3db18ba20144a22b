package world

import "github.com/nathoo/serpens/content"

// dict is the content table consulted for trait modifiers, sensory text and
// damage labels. It is the only package-level state in the model.
var dict = content.MustDefault()

// UseDict replaces the content table, typically with one loaded from disk.
func UseDict(d *content.Dict) {
	if d != nil {
		dict = d
	}
}

// Dict returns the content table in use.
func Dict() *content.Dict { return dict }
