package engine

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/serpens/engine/dialogue"
	"github.com/nathoo/serpens/engine/parser"
	"github.com/nathoo/serpens/engine/resolve"
	"github.com/nathoo/serpens/engine/world"
	"github.com/nathoo/serpens/types"
)

// result is how a verb went. Only acted verbs take time.
type result int

const (
	rejected result = iota // nothing happened; counts toward the help hint
	instant                // succeeded without taking time
	acted                  // succeeded and takes a tick
)

func (r result) String() string {
	switch r {
	case rejected:
		return "rejected"
	case instant:
		return "instant"
	}
	return "acted"
}

type handler func(e *Engine, in types.Intent) result

func verbTable() map[string]handler {
	m := map[string]handler{
		"look":      look,
		"examine":   examine,
		"go":        goVerb,
		"back":      back,
		"take":      take,
		"drop":      drop,
		"put":       put,
		"inventory": inventory,
		"equip":     equip,
		"unequip":   unequip,
		"attack":    attack,
		"throw":     throw,
		"open":      open,
		"close":     closeVerb,
		"lock":      lock,
		"unlock":    unlock,
		"eat":       consume,
		"drink":     consume,
		"talk":      talk,
		"give":      give,
		"read":      read,
		"sleep":     sleep,
		"sit":       sit,
		"lay":       sit,
		"stand":     stand,
		"wait":      wait,
		"climb":     climb,
		"jump":      jump,
		"carry":     carry,
		"release":   release,
		"ride":      ride,
		"dismount":  dismount,
		"restrain":  restrain,
		"hide":      hide,
		"cast":      cast,
		"learn":     learn,
		"use":       use,
		"smell":     sense,
		"taste":     sense,
		"touch":     sense,
		"listen":    listen,
		"search":    search,
		"break":     breakVerb,
		"help":      help,
		"emote":     emote,
	}
	for name, h := range statTable() {
		m[name] = h
	}
	return m
}

// find resolves a term, reporting the failure to the player.
func (e *Engine) find(term string, scope resolve.Scope, depth resolve.Depth) world.Thing {
	t, err := e.resolver.Resolve(term, scope, depth)
	if err != nil {
		e.report(err)
		return nil
	}
	return t
}

// findBeing resolves a term to a creature in the room.
func (e *Engine) findBeing(term string) world.Being {
	t := e.find(term, resolve.ScopeRoom, resolve.Visible)
	if t == nil {
		return nil
	}
	b, ok := t.(world.Being)
	if !ok {
		e.say("%s is not a creature.", world.Capitalize(t.Core().Definite()))
		return nil
	}
	return b
}

// report turns an error into one line for the player.
func (e *Engine) report(err error) {
	var (
		nf  *resolve.NotFoundError
		amb *resolve.AmbiguityError
		uv  *parser.UnknownVerbError
		inv *world.InvariantError
	)
	switch {
	case errors.Is(err, resolve.ErrCancelled), errors.Is(err, dialogue.ErrCancelled):
		e.say("Never mind.")
	case errors.As(err, &nf), errors.As(err, &amb), errors.As(err, &uv):
		e.say("%s", err.Error())
	case errors.Is(err, parser.ErrNotUnderstood):
		e.say("Command not understood")
	case errors.As(err, &inv):
		e.Logger.Error("invariant violated", zap.Error(err), zap.Stack("stack"))
		e.say("Something went wrong; the game will attempt to continue.")
	default:
		e.Logger.Warn("command failed", zap.Error(err))
		e.say("%s.", world.Capitalize(err.Error()))
	}
}

func the(t world.Thing) string { return t.Core().Definite() }

func capThe(t world.Thing) string { return world.Capitalize(t.Core().Definite()) }

func isPlayer(e *Engine, t world.Thing) bool {
	return t != nil && e.World.Player != nil && t.Core() == e.World.Player.Core()
}

// joinAnd lists names as "a, b and c".
func joinAnd(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

// holderPhrase names a holder as the object of "from" or "in".
func holderPhrase(h world.Holder) string {
	if t, ok := h.(world.Thing); ok {
		return the(t)
	}
	return fmt.Sprintf("the %s", strings.ToLower(h.HolderName()))
}

// burden refreshes the player's hindered status and says when it changes.
func (e *Engine) burden() {
	p := e.World.Player
	was := p.Status.Has("hindered")
	p.UpdateBurden()
	switch now := p.Status.Has("hindered"); {
	case now && !was:
		e.say("You are weighed down by your load.")
	case was && !now:
		e.say("You are no longer weighed down.")
	}
}
