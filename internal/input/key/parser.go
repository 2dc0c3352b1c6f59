package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// maxModifiers bounds the modifier prefixes tried before the key.
const maxModifiers = 4

// ParseError describes where a key specification stopped making sense.
type ParseError struct {
	// Input is the text handed to Parse (a single token for ParseSeq).
	Input string

	// Position is the byte offset of the offending character in Input.
	Position int

	// Message describes the mismatch.
	Message string

	// Err is ErrEmptySpec or ErrInvalidSpec.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %s (position %d)", e.Input, e.Message, e.Position)
}

// Unwrap returns the sentinel error class.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses a single key combination such as "a", "ctrl-alt-f1",
// "shift-@upper" or "del".
//
// Grammar:
//
//	node          = modifier* key
//	modifier      = ("ctrl" | "cmd" | "alt" | "shift") "-"
//	key           = fn-key | named-key | group | char
//	fn-key        = "f" digits          (0 to 12)
//	named-key     = "enter" | "esc" | "del" | ...
//	group         = "@" ("digit" | "lower" | "upper" | "alpha" | "alnum" | "any" | "char")
//	char          = any ASCII character
//
// The whole input must be consumed.
func Parse(spec string) (Node, error) {
	p := &parser{input: spec}
	return p.node()
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Node {
	node, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + err.Error())
	}
	return node
}

// Normalize parses a key specification and returns its canonical form.
func Normalize(spec string) (string, error) {
	node, err := Parse(spec)
	if err != nil {
		return "", err
	}
	return node.String(), nil
}

// parser is a backtracking recursive-descent parser over ASCII bytes.
type parser struct {
	input string
	pos   int
}

func (p *parser) node() (Node, error) {
	if p.input == "" {
		return Node{}, &ParseError{
			Input:   p.input,
			Message: "unexpected end of input",
			Err:     ErrEmptySpec,
		}
	}

	mods := p.modifiers()

	k, err := p.key()
	if err != nil {
		return Node{}, err
	}

	if p.pos < len(p.input) {
		r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
		return Node{}, p.errorAt(p.pos, "expect end of input, found: %c", r)
	}

	return NewNode(mods, k), nil
}

// modifiers consumes up to four "name-" prefixes. A failed attempt leaves
// the cursor where it started.
func (p *parser) modifiers() Modifier {
	var mods Modifier
	for i := 0; i < maxModifiers; i++ {
		mod, ok := p.modifier()
		if !ok {
			break
		}
		mods = mods.With(mod)
	}
	return mods
}

func (p *parser) modifier() (Modifier, bool) {
	start := p.pos

	name := p.letters()
	if name == "" || !p.consume(Separator) {
		p.pos = start
		return ModNone, false
	}

	mod := ModifierFromName(name)
	if mod == ModNone {
		p.pos = start
		return ModNone, false
	}
	return mod, true
}

// key tries the alternatives in order: function key, named key, group,
// literal character.
func (p *parser) key() (Key, error) {
	if k, ok, err := p.fnKey(); ok || err != nil {
		return k, err
	}
	if k, ok := p.namedKey(); ok {
		return k, nil
	}
	if k, ok, err := p.group(); ok || err != nil {
		return k, err
	}
	return p.char()
}

// fnKey commits as soon as "f" is followed by a digit, so "f13" is an
// error rather than 'f' with trailing input.
func (p *parser) fnKey() (Key, bool, error) {
	start := p.pos
	if !p.consume('f') {
		return Key{}, false, nil
	}

	digitsStart := p.pos
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
	}
	if p.pos == digitsStart {
		p.pos = start
		return Key{}, false, nil
	}

	digits := p.input[digitsStart:p.pos]
	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxFn {
		return Key{}, false, p.errorAt(digitsStart, "function key out of range: f%s (expected f0-f%d)", digits, MaxFn)
	}
	return Fn(uint8(n)), true, nil
}

// namedKey needs at least two letters; anything shorter or unknown is
// rolled back so the literal-char branch can take it.
func (p *parser) namedKey() (Key, bool) {
	start := p.pos

	name := p.letters()
	if len(name) < 2 {
		p.pos = start
		return Key{}, false
	}

	code := CodeFromName(name)
	if code == KeyNone {
		p.pos = start
		return Key{}, false
	}
	return Named(code), true
}

// group commits on "@": an unknown group name is an error.
func (p *parser) group() (Key, bool, error) {
	if !p.consume(GroupPrefix) {
		return Key{}, false, nil
	}

	nameStart := p.pos
	name := p.letters()
	if name == "" {
		return Key{}, false, p.errorAt(nameStart, "expected character group name after %q", GroupPrefix)
	}

	g, ok := GroupFromName(name)
	if !ok {
		return Key{}, false, p.errorAt(nameStart, "unknown character group: %c%s", GroupPrefix, name)
	}
	return Group(g), true, nil
}

func (p *parser) char() (Key, error) {
	if p.pos >= len(p.input) {
		return Key{}, p.errorAt(p.pos, "unexpected end of input")
	}

	c := p.input[p.pos]
	if c >= utf8.RuneSelf {
		r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
		return Key{}, p.errorAt(p.pos, "expected ASCII character, found: %c", r)
	}
	p.pos++
	return Char(rune(c)), nil
}

// letters consumes a run of ASCII letters.
func (p *parser) letters() string {
	start := p.pos
	for p.pos < len(p.input) && isAlpha(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errorAt(pos int, format string, args ...any) *ParseError {
	return &ParseError{
		Input:    p.input,
		Position: pos,
		Message:  fmt.Sprintf(format, args...),
		Err:      ErrInvalidSpec,
	}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ParseSeq parses a whitespace-separated key sequence such as "g g" or
// "ctrl-b n". Each token is parsed with Parse; the first failure aborts
// the whole sequence and its position is relative to that token.
func ParseSeq(s string) (Sequence, error) {
	fields := strings.FieldsFunc(s, isSpace)
	seq := make(Sequence, 0, len(fields))
	for _, field := range fields {
		node, err := Parse(field)
		if err != nil {
			return nil, err
		}
		seq = append(seq, node)
	}
	return seq, nil
}

// MustParseSeq parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSeq(s string) Sequence {
	seq, err := ParseSeq(s)
	if err != nil {
		panic("invalid key sequence: " + err.Error())
	}
	return seq
}

// NormalizeSeq parses a key sequence and returns its canonical form.
func NormalizeSeq(s string) (string, error) {
	seq, err := ParseSeq(s)
	if err != nil {
		return "", err
	}
	return seq.String(), nil
}
