package dialogue

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the type of a guard value.
type Kind int

const (
	KindUnknown Kind = iota
	KindBool
	KindInt
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Value is the result of evaluating a guard or looking up a fact.
type Value struct {
	Kind Kind
	B    bool
	N    int
	S    string
	L    []string
}

// Bool, Int, Str and List build fact values.
func Bool(b bool) Value     { return Value{Kind: KindBool, B: b} }
func Int(n int) Value       { return Value{Kind: KindInt, N: n} }
func Str(s string) Value    { return Value{Kind: KindString, S: s} }
func List(l []string) Value { return Value{Kind: KindList, L: l} }

func missing() Value { return Value{} }

func (v Value) truthy() bool {
	return v.Kind == KindBool && v.B || v.Kind == KindInt && v.N != 0
}

func (v Value) number() int {
	if v.Kind == KindBool && v.B {
		return 1
	}
	return v.N
}

// Facts answers identifier lookups such as "player.hp" or "speaker.memories".
type Facts interface {
	Fact(name string) (Value, bool)
}

type node interface {
	eval(f Facts) Value
	kind() Kind
}

type (
	lit   struct{ v Value }
	ident struct{ name string }
	unary struct {
		op string
		x  node
	}
	binary struct {
		op   string
		l, r node
	}
)

func (n lit) eval(Facts) Value { return n.v }
func (n lit) kind() Kind       { return n.v.Kind }

func (n ident) eval(f Facts) Value {
	if f == nil {
		return missing()
	}
	v, ok := f.Fact(n.name)
	if !ok {
		return missing()
	}
	return v
}

// listFacts are the identifier suffixes that name collections.
var listFacts = []string{"memories", "events", "items", "spells", "statuses"}

func (n ident) kind() Kind {
	for _, s := range listFacts {
		if n.name == s || strings.HasSuffix(n.name, "."+s) {
			return KindList
		}
	}
	return KindUnknown
}

func (n unary) eval(f Facts) Value {
	x := n.x.eval(f)
	if n.op == "not" {
		return Bool(!x.truthy())
	}
	return Int(-x.number())
}

func (n unary) kind() Kind {
	if n.op == "not" {
		return KindBool
	}
	return KindInt
}

func (n binary) eval(f Facts) Value {
	switch n.op {
	case "and":
		return Bool(n.l.eval(f).truthy() && n.r.eval(f).truthy())
	case "or":
		return Bool(n.l.eval(f).truthy() || n.r.eval(f).truthy())
	}
	l, r := n.l.eval(f), n.r.eval(f)
	switch n.op {
	case "+":
		return Int(l.number() + r.number())
	case "-":
		return Int(l.number() - r.number())
	case "in":
		return Bool(contains(r, l))
	case "not in":
		return Bool(!contains(r, l))
	case "==":
		return Bool(equal(l, r))
	case "!=":
		return Bool(!equal(l, r))
	case "<":
		return Bool(l.number() < r.number())
	case "<=":
		return Bool(l.number() <= r.number())
	case ">":
		return Bool(l.number() > r.number())
	case ">=":
		return Bool(l.number() >= r.number())
	}
	return missing()
}

func (n binary) kind() Kind {
	switch n.op {
	case "+", "-":
		return KindInt
	}
	return KindBool
}

func contains(coll, item Value) bool {
	switch coll.Kind {
	case KindList:
		for _, s := range coll.L {
			if strings.EqualFold(s, item.S) {
				return true
			}
		}
	case KindString:
		return item.Kind == KindString && strings.Contains(strings.ToLower(coll.S), strings.ToLower(item.S))
	}
	return false
}

func equal(a, b Value) bool {
	if a.Kind == KindString || b.Kind == KindString {
		return strings.EqualFold(a.S, b.S)
	}
	return a.number() == b.number()
}

// Expr is a compiled guard expression.
type Expr struct {
	src  string
	root node
}

// String returns the source text.
func (e *Expr) String() string { return e.src }

// Eval evaluates the expression against facts. Unknown identifiers read as
// false or zero.
func (e *Expr) Eval(f Facts) Value { return e.root.eval(f) }

// Kind is the static result type; KindUnknown for a lone identifier.
func (e *Expr) Kind() Kind { return e.root.kind() }

// Compile parses a guard expression.
func Compile(src string) (*Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q in %q", p.toks[p.pos].text, src)
	}
	return &Expr{src: src, root: root}, nil
}

type tokKind int

const (
	tokInt tokKind = iota
	tokString
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	text string
}

func lex(src string) ([]token, error) {
	var toks []token
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			toks = append(toks, token{tokInt, string(rs[i:j])})
			i = j
		case r == '"' || r == '\'':
			j := i + 1
			for j < len(rs) && rs[j] != r {
				j++
			}
			if j >= len(rs) {
				return nil, fmt.Errorf("unterminated string in %q", src)
			}
			toks = append(toks, token{tokString, string(rs[i+1 : j])})
			i = j + 1
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_' || rs[j] == '.') {
				j++
			}
			toks = append(toks, token{tokIdent, strings.ToLower(string(rs[i:j]))})
			i = j
		default:
			two := ""
			if i+1 < len(rs) {
				two = string(rs[i : i+2])
			}
			switch two {
			case "==", "!=", "<=", ">=", "&&", "||":
				toks = append(toks, token{tokOp, two})
				i += 2
				continue
			}
			switch r {
			case '<', '>', '+', '-', '(', ')', '!':
				toks = append(toks, token{tokOp, string(r)})
				i++
			default:
				return nil, fmt.Errorf("unexpected %q in %q", r, src)
			}
		}
	}
	return toks, nil
}

type exprParser struct {
	toks []token
	pos  int
}

func (p *exprParser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

// accept consumes the next token if it is one of the given words or
// operators and returns its normalized form.
func (p *exprParser) accept(words ...string) (string, bool) {
	t, ok := p.peek()
	if !ok || t.kind == tokInt || t.kind == tokString {
		return "", false
	}
	text := t.text
	switch text {
	case "&&":
		text = "and"
	case "||":
		text = "or"
	case "!":
		text = "not"
	}
	for _, w := range words {
		if text == w {
			p.pos++
			return text, true
		}
	}
	return "", false
}

func (p *exprParser) or() (node, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("or"); !ok {
			return l, nil
		}
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = binary{"or", l, r}
	}
}

func (p *exprParser) and() (node, error) {
	l, err := p.not()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept("and"); !ok {
			return l, nil
		}
		r, err := p.not()
		if err != nil {
			return nil, err
		}
		l = binary{"and", l, r}
	}
}

func (p *exprParser) not() (node, error) {
	if _, ok := p.accept("not"); ok {
		x, err := p.not()
		if err != nil {
			return nil, err
		}
		return unary{"not", x}, nil
	}
	return p.cmp()
}

func (p *exprParser) cmp() (node, error) {
	l, err := p.sum()
	if err != nil {
		return nil, err
	}
	op, ok := p.accept("==", "!=", "<", "<=", ">", ">=", "in", "not")
	if !ok {
		return l, nil
	}
	if op == "not" {
		if _, ok := p.accept("in"); !ok {
			return nil, fmt.Errorf("expected 'in' after 'not'")
		}
		op = "not in"
	}
	r, err := p.sum()
	if err != nil {
		return nil, err
	}
	return binary{op, l, r}, nil
}

func (p *exprParser) sum() (node, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept("+", "-")
		if !ok {
			return l, nil
		}
		r, err := p.unary()
		if err != nil {
			return nil, err
		}
		l = binary{op, l, r}
	}
}

func (p *exprParser) unary() (node, error) {
	if _, ok := p.accept("-"); ok {
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return unary{"-", x}, nil
	}
	return p.primary()
}

func (p *exprParser) primary() (node, error) {
	t, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	p.pos++
	switch t.kind {
	case tokInt:
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, err
		}
		return lit{Int(n)}, nil
	case tokString:
		return lit{Str(t.text)}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return lit{Bool(true)}, nil
		case "false":
			return lit{Bool(false)}, nil
		case "and", "or", "not", "in":
			return nil, fmt.Errorf("unexpected %q", t.text)
		}
		return ident{t.text}, nil
	}
	if t.text == "(" {
		x, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(")"); !ok {
			return nil, fmt.Errorf("missing ')'")
		}
		return x, nil
	}
	return nil, fmt.Errorf("unexpected %q", t.text)
}
