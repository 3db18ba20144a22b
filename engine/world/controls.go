package world

import "github.com/nathoo/serpens/types"

// Controller fires its effects every time it is used: a lever, a bell.
type Controller struct {
	Item
	Effects []types.Effect
}

func (*Controller) Class() string { return "Controller" }

func (c *Controller) Activate() []types.Effect { return c.Effects }

// Switch alternates between two effect lists.
type Switch struct {
	Item
	On         bool
	OnEffects  []types.Effect
	OffEffects []types.Effect
}

func (*Switch) Class() string { return "Switch" }

// Activate flips the switch and returns the effects for the new position.
func (s *Switch) Activate() []types.Effect {
	s.On = !s.On
	if s.On {
		return s.OnEffects
	}
	return s.OffEffects
}

// Timer counts down once started and fires when it reaches zero.
type Timer struct {
	Item
	Period    int
	Countdown int
	Active    bool
	Repeat    bool
	Effects   []types.Effect
}

func (*Timer) Class() string { return "Timer" }

// Activate starts the countdown. Nothing fires right away.
func (t *Timer) Activate() []types.Effect {
	t.Active = true
	t.Countdown = max(1, t.Period)
	return nil
}

// Advance counts down by n ticks and returns the effects to fire, if any.
func (t *Timer) Advance(n int) []types.Effect {
	if !t.Active {
		return nil
	}
	t.Countdown -= n
	if t.Countdown > 0 {
		return nil
	}
	if t.Repeat {
		t.Countdown = max(1, t.Period)
	} else {
		t.Active = false
		t.Countdown = 0
	}
	return t.Effects
}
