// Package parser turns a line of English into an Intent: a verb, up to two
// object terms and a preposition. It knows words, not objects; deciding
// which object a term names is the resolver's job.
package parser

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/nathoo/serpens/content"
	"github.com/nathoo/serpens/types"
)

// ErrNotUnderstood is returned when nothing in the line can be acted on.
var ErrNotUnderstood = errors.New("command not understood")

// UnknownVerbError reports a first word that is no known verb.
type UnknownVerbError struct {
	Word string
}

func (e *UnknownVerbError) Error() string {
	return fmt.Sprintf("'%s' is not a valid verb", e.Word)
}

// Lexicon answers whether a phrase names something in the running game:
// a room, an object kind, or an object the player can currently see or
// holds.
type Lexicon interface {
	Meaningful(phrase string) bool
}

// Referents maps a pronoun slot (it, he, she, they) to the term it stands
// for, or "" when nothing has been captured.
type Referents func(slot string) string

// Parser holds the word tables used to read commands.
type Parser struct {
	dict      *content.Dict
	lex       Lexicon
	referents Referents
}

// New creates a parser. lex and refs may be nil.
func New(dict *content.Dict, lex Lexicon, refs Referents) *Parser {
	return &Parser{dict: dict, lex: lex, referents: refs}
}

// possessive marks a term the player must be holding.
const possessive = "my"

// Tokenize strips punctuation, lowercases, decomposes compounds, drops
// articles and joins a leading multi-word verb into one token.
func (p *Parser) Tokenize(line string) []string {
	line = strings.ToLower(line)
	line = strings.Map(func(r rune) rune {
		if strings.ContainsRune(p.dict.Punctuation, r) {
			return -1
		}
		return r
	}, line)

	var words []string
	for _, w := range strings.Fields(line) {
		if c, ok := p.dict.Compounds[w]; ok {
			words = append(words, strings.Fields(c)...)
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return nil
	}

	out := words[:1:1]
	for i, w := range words[1:] {
		last := i == len(words)-2
		if p.dict.IsArticle(w) && w != possessive {
			// "her" is a pronoun when nothing follows it.
			if _, isPronoun := p.dict.Pronoun(w); !(isPronoun && last) {
				continue
			}
		}
		out = append(out, w)
	}
	return p.joinVerb(out)
}

// joinVerb merges the longest multi-word verb at the start of words.
func (p *Parser) joinVerb(words []string) []string {
	for _, phrase := range p.dict.MultiWordVerbs() {
		parts := strings.Fields(phrase)
		if len(parts) > len(words) {
			continue
		}
		match := true
		for i, part := range parts {
			if words[i] != part {
				match = false
				break
			}
		}
		if match {
			return append([]string{phrase}, words[len(parts):]...)
		}
	}
	return words
}

// Meaningful reports whether phrase is worth treating as one term.
func (p *Parser) Meaningful(phrase string) bool {
	d := p.dict
	if _, ok := d.Canonical(phrase); ok {
		return true
	}
	if _, ok := d.Glossary[phrase]; ok {
		return true
	}
	if d.IsStatCommand(phrase) || d.IsDirection(phrase) || d.IsPreposition(phrase) {
		return true
	}
	return p.lex != nil && p.lex.Meaningful(phrase)
}

// Nounify joins adjacent tokens after the verb into the longest meaningful
// terms, scanning left to right, and attaches "my" to the term after it.
func (p *Parser) Nounify(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	out := []string{tokens[0]}
	rest := tokens[1:]
	for i := 0; i < len(rest); {
		j := len(rest)
		for ; j > i+1; j-- {
			if p.Meaningful(strings.Join(rest[i:j], " ")) {
				break
			}
		}
		out = append(out, strings.Join(rest[i:j], " "))
		i = j
	}

	merged := []string{out[0]}
	for i := 1; i < len(out); i++ {
		if out[i] == possessive && i+1 < len(out) && !p.dict.IsPreposition(out[i+1]) {
			merged = append(merged, possessive+" "+out[i+1])
			i++
			continue
		}
		merged = append(merged, out[i])
	}
	return merged
}

// SplitAnd cuts a token list into sequential sub-commands at "and" and
// "then". Empty pieces are dropped.
func SplitAnd(tokens []string) [][]string {
	var out [][]string
	var cur []string
	for _, t := range tokens {
		if t == "and" || t == "then" {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Split breaks a line into the sub-commands it chains, each as a string
// to be parsed when its turn comes. Names are joined before the split, so
// "and" inside a known name does not cut it.
func (p *Parser) Split(line string) []string {
	words := strings.Fields(strings.ToLower(line))
	if !slices.ContainsFunc(words, func(w string) bool { return w == "and" || w == "then" }) {
		if len(words) == 0 {
			return nil
		}
		return []string{strings.Join(words, " ")}
	}
	bare := strings.Map(func(r rune) rune {
		if strings.ContainsRune(p.dict.Punctuation, r) {
			return -1
		}
		return r
	}, strings.ToLower(line))
	var out []string
	for _, part := range SplitAnd(p.Nounify(strings.Fields(bare))) {
		out = append(out, strings.Join(part, " "))
	}
	return out
}

// Parse reads one command. An empty line yields an empty Intent.
func (p *Parser) Parse(line string) (types.Intent, error) {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	if trimmed == "" {
		return types.Intent{}, nil
	}
	if emote, ok := p.dict.Emoticons[trimmed]; ok {
		return types.Intent{Verb: "emote", Direct: emote, Words: []string{trimmed}}, nil
	}
	if verb, ok := p.dict.Canonical(trimmed); ok && strings.Trim(trimmed, p.dict.Punctuation) == "" {
		return types.Intent{Verb: verb, Words: []string{trimmed}}, nil
	}

	tokens := p.Nounify(p.Tokenize(line))
	if len(tokens) == 0 {
		return types.Intent{}, ErrNotUnderstood
	}
	in := types.Intent{Words: tokens}

	head := tokens[0]
	switch {
	case len(tokens) == 1 && p.dict.IsDirection(head):
		in.Verb, in.Direct = "go", p.dict.ExpandDirection(head)
		return in, nil
	case p.dict.IsEmote(head):
		in.Verb, in.Direct = "emote", head
		return in, nil
	case p.dict.IsStatCommand(head):
		in.Verb = head
	default:
		verb, ok := p.dict.Canonical(head)
		if !ok {
			return in, &UnknownVerbError{Word: head}
		}
		in.Verb = verb
	}

	rest := tokens[1:]
	for i, tok := range rest {
		last := i == len(rest)-1
		if p.dict.IsPreposition(tok) && !(last && in.Direct == "" && p.dict.IsDirection(tok)) {
			if in.Prep == "" {
				in.Prep = tok
			}
			continue
		}
		tok = p.substitute(tok)
		if dir := p.dict.ExpandDirection(tok); dir != "" {
			tok = dir
		}
		switch {
		case in.Direct == "":
			in.Direct = tok
		case in.Indirect == "":
			in.Indirect = tok
		default:
			in.Indirect += " " + tok
		}
	}
	return in, nil
}

// substitute replaces a pronoun with its captured referent.
func (p *Parser) substitute(tok string) string {
	slot, ok := p.dict.Pronoun(tok)
	if !ok || p.referents == nil {
		return tok
	}
	if ref := p.referents(slot); ref != "" {
		return ref
	}
	return tok
}
