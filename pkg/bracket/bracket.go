// Package bracket wraps balanced bracket pairs in statute text with styled
// spans. Nested full-width parentheses additionally carry a depth class so
// that deeply nested parentheticals can be told apart.
package bracket

import (
	"strconv"
	"strings"

	"github.com/badiary/sat-law-sub000/pkg/dom"
)

// Kind identifies one of the recognized bracket pairs.
type Kind int

const (
	Paren Kind = iota
	FullWidthParen
	Corner
	Lenticular
	Square
	FullWidthSquare
	Angle
	Tortoise
)

// MaxDepth caps the depth class emitted for nested full-width parentheses.
const MaxDepth = 4

type pair struct {
	open, close rune
	name        string
}

var pairs = [...]pair{
	Paren:           {'(', ')', "paren"},
	FullWidthParen:  {'（', '）', "fwparen"},
	Corner:          {'「', '」', "kagi"},
	Lenticular:      {'【', '】', "sumitsuki"},
	Square:          {'[', ']', "square"},
	FullWidthSquare: {'［', '］', "fwsquare"},
	Angle:           {'〈', '〉', "angle"},
	Tortoise:        {'〔', '〕', "kikko"},
}

// Class returns the plain style class for the kind, e.g. "bracket-kagi".
func (k Kind) Class() string {
	return "bracket-" + pairs[k].name
}

// Open returns the opening character.
func (k Kind) Open() string { return string(pairs[k].open) }

// Close returns the closing character.
func (k Kind) Close() string { return string(pairs[k].close) }

// DepthClass returns the depth-qualified class for a full-width parenthesis
// nested depth levels deep (0 for the outermost).
func DepthClass(depth int) string {
	return FullWidthParen.Class() + "-" + strconv.Itoa(min(depth, MaxDepth))
}

// Span is one balanced bracket pair found at the top nesting level of a
// string.
type Span struct {
	Kind    Kind
	Depth   int
	Content string
}

func kindOf(r rune) (Kind, bool) {
	for k, p := range pairs {
		if p.open == r {
			return Kind(k), true
		}
	}
	return 0, false
}

// next finds the first balanced pair in s and returns the text before it, the
// pair, and the text after it. Openers without a matching closer are treated
// as plain text.
func next(s string, depth int) (before string, span Span, after string, ok bool) {
	for i, r := range s {
		k, isOpen := kindOf(r)
		if !isOpen {
			continue
		}
		p := pairs[k]
		start := i + len(string(p.open))
		level := 1
		for j, c := range s[start:] {
			switch c {
			case p.open:
				level++
			case p.close:
				level--
			}
			if level == 0 {
				end := start + j
				return s[:i], Span{Kind: k, Depth: depth, Content: s[start:end]}, s[end+len(string(p.close)):], true
			}
		}
	}
	return s, Span{}, "", false
}

// AnnotateText splits s into text and bracket spans. It returns nil when s
// contains no balanced pair.
func AnnotateText(s string) []*dom.Node {
	if _, _, _, ok := next(s, 0); !ok {
		return nil
	}
	return annotate(s, 0)
}

func annotate(s string, depth int) []*dom.Node {
	var out []*dom.Node
	for {
		before, span, after, ok := next(s, depth)
		if !ok {
			if s != "" {
				out = append(out, dom.Text(s))
			}
			return out
		}
		if before != "" {
			out = append(out, dom.Text(before))
		}
		out = append(out, wrap(span))
		s = after
	}
}

func wrap(span Span) *dom.Node {
	el := dom.Span(span.Kind.Class())
	inner := span.Depth
	if span.Kind == FullWidthParen {
		el.AddClass(DepthClass(span.Depth))
		inner++
	}
	el.AppendChild(dom.Text(span.Kind.Open()))
	for _, c := range annotate(span.Content, inner) {
		el.AppendChild(c)
	}
	el.AppendChild(dom.Text(span.Kind.Close()))
	return el
}

// Annotate rewrites every text leaf below root that contains a balanced
// bracket pair.
func Annotate(root *dom.Node) error {
	return dom.Rewrite(root, func(leaf *dom.Node) ([]*dom.Node, error) {
		return AnnotateText(leaf.Data), nil
	})
}

// Interior returns the text inside a bracket span produced by this package,
// without the enclosing bracket characters.
func Interior(span *dom.Node) string {
	text := span.TextContent()
	for k := range pairs {
		kind := Kind(k)
		if span.HasClass(kind.Class()) {
			text = strings.TrimPrefix(text, kind.Open())
			return strings.TrimSuffix(text, kind.Close())
		}
	}
	return text
}
