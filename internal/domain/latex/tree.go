package latex

import (
	"errors"
	"strings"
	"unicode"
)

var (
	errUnbalanced = errors.New("unbalanced braces")
	errTooDeep    = errors.New("groups nested too deeply")
	errTooLong    = errors.New("input too long")
)

const maxDepth = 64

type nodeKind int

const (
	kindChar    nodeKind = iota // a single character, or an operator produced by a rewrite
	kindCommand                 // \name
	kindSymbol                  // \ followed by one non-letter, like \{ or \\
	kindGroup                   // {...}
)

// node is one element of a parsed formula. Whitespace is not kept as nodes;
// spaced records that whitespace preceded the node so letter runs can be
// told apart ("s in" is not "sin").
type node struct {
	kind     nodeKind
	text     string
	spaced   bool
	children []*node
}

func char(s string) *node { return &node{kind: kindChar, text: s} }

func command(s string) *node { return &node{kind: kindCommand, text: s} }

func group(c ...*node) *node { return &node{kind: kindGroup, children: c} }

// is reports whether n is a non-group node with text s.
func (n *node) is(s string) bool {
	return n != nil && n.kind != kindGroup && n.text == s
}

// isLetter reports whether n is a single ASCII letter.
func (n *node) isLetter() bool {
	return n.kind == kindChar && len(n.text) == 1 && isASCIILetter(rune(n.text[0]))
}

func (n *node) isDigit() bool {
	return n.kind == kindChar && len(n.text) == 1 && n.text[0] >= '0' && n.text[0] <= '9'
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

type parser struct {
	src []rune
	pos int
}

// parse turns a formula into a node sequence. Braces must balance.
func parse(s string) ([]*node, error) {
	p := &parser{src: []rune(s)}
	return p.parseSeq(0)
}

func (p *parser) parseSeq(depth int) ([]*node, error) {
	out := []*node{}
	spaced := false
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		var n *node
		switch {
		case unicode.IsSpace(r):
			spaced = true
			p.pos++
			continue
		case r == '{':
			if depth >= maxDepth {
				return nil, errTooDeep
			}
			p.pos++
			children, err := p.parseSeq(depth + 1)
			if err != nil {
				return nil, err
			}
			p.pos++ // closing brace
			n = &node{kind: kindGroup, children: children}
		case r == '}':
			if depth == 0 {
				return nil, errUnbalanced
			}
			return out, nil
		case r == '\\':
			n = p.readEscape()
		default:
			n = &node{kind: kindChar, text: string(r)}
			p.pos++
		}
		n.spaced = spaced
		spaced = false
		out = append(out, n)
	}
	if depth > 0 {
		return nil, errUnbalanced
	}
	return out, nil
}

func (p *parser) readEscape() *node {
	start := p.pos
	p.pos++
	if p.pos >= len(p.src) {
		return &node{kind: kindChar, text: `\`}
	}
	if isASCIILetter(p.src[p.pos]) {
		for p.pos < len(p.src) && isASCIILetter(p.src[p.pos]) {
			p.pos++
		}
		return &node{kind: kindCommand, text: string(p.src[start:p.pos])}
	}
	p.pos++
	return &node{kind: kindSymbol, text: string(p.src[start:p.pos])}
}

// serialize writes nodes back out without any whitespace.
func serialize(nodes []*node) string {
	var b strings.Builder
	writeNodes(&b, nodes)
	return b.String()
}

func writeNodes(b *strings.Builder, nodes []*node) {
	for _, n := range nodes {
		if n.kind == kindGroup {
			b.WriteByte('{')
			writeNodes(b, n.children)
			b.WriteByte('}')
			continue
		}
		b.WriteString(n.text)
	}
}

// transform applies fn to seq and then, recursively, to the children of
// every group in the result.
func transform(seq []*node, fn func([]*node) []*node) []*node {
	seq = fn(seq)
	for _, n := range seq {
		if n.kind == kindGroup {
			n.children = transform(n.children, fn)
		}
	}
	return seq
}
