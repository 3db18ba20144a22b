// Package types defines the shared data structures for the serpens engine.
// This package contains only type definitions and collaborator interfaces.
package types

import "time"

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb     string
	Direct   string   // optional direct object term
	Indirect string   // optional indirect object term
	Prep     string   // optional preposition
	Words    []string // the nounified tokens the intent was built from
}

// Effect is a single named world mutation, as carried by controllers,
// switches, timers and potions.
type Effect struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// Console is the terminal the engine talks to. ReadLine blocks until the
// player submits a line.
type Console interface {
	ReadLine(prompt string) (string, error)
	Print(text string)
	WaitKey() error
	Clear()
}

// Clock lets the engine pause between narration lines.
type Clock interface {
	Sleep(d time.Duration)
}
