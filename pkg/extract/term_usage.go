package extract

import (
	"log/slog"
	"strings"

	"github.com/badiary/sat-law-sub000/pkg/dom"
)

// DefinitionInjector wraps every use of a defined term with a tooltip
// carrying the defining provision and sentence.
type DefinitionInjector struct {
	logger *slog.Logger
}

// NewDefinitionInjector creates a new DefinitionInjector.
func NewDefinitionInjector(logger *slog.Logger) *DefinitionInjector {
	return &DefinitionInjector{logger: discardLogger(logger)}
}

// OrderDefinitions returns the definitions reordered so that a definition
// whose word occurs inside another pending definition's word comes after it
// (株式会社 before 会社).
func OrderDefinitions(defs []*Definition) []*Definition {
	queue := append([]*Definition(nil), defs...)
	ordered := make([]*Definition, 0, len(defs))

	// Each pass either emits a definition or rotates one to the back; at
	// most len(queue) rotations can happen in a row because the longest
	// pending word is never inside another.
	rotations := 0
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if rotations <= len(queue) && containedInPending(d, queue) {
			queue = append(queue, d)
			rotations++
			continue
		}
		ordered = append(ordered, d)
		rotations = 0
	}
	return ordered
}

func containedInPending(d *Definition, pending []*Definition) bool {
	for _, other := range pending {
		if other.Word != d.Word && strings.Contains(other.Word, d.Word) {
			return true
		}
	}
	return false
}

// Inject wraps term uses below root and returns how many were wrapped.
// Definitions are filtered by scope at every indexed Article. Existing term
// wrappers and tooltip bodies are never entered, so injecting twice leaves the
// tree unchanged.
func (in *DefinitionInjector) Inject(root *dom.Node, defs []*Definition) int {
	count := in.injectNode(root, OrderDefinitions(defs))
	in.logger.Debug("injected definitions", "definitions", len(defs), "uses", count)
	return count
}

func (in *DefinitionInjector) injectNode(n *dom.Node, defs []*Definition) int {
	if n.HasClass(ClassTerm) || n.HasClass(ClassTermTooltip) {
		return 0
	}
	if n.HasClass(ClassArticle) {
		if token, ok := n.Attr(AttrArticleNum); ok {
			defs = inScope(defs, token)
		}
	}
	if len(defs) == 0 {
		return 0
	}

	count := 0
	children := append([]*dom.Node(nil), n.Children...)
	for _, c := range children {
		if c.Type == dom.TextNode {
			count += in.injectText(c, defs)
		} else {
			count += in.injectNode(c, defs)
		}
	}
	return count
}

// injectText wraps every occurrence of the first matching definition, then
// continues on the remaining text pieces with the definitions after it.
func (in *DefinitionInjector) injectText(leaf *dom.Node, defs []*Definition) int {
	for i, d := range defs {
		if !strings.Contains(leaf.Data, d.Word) {
			continue
		}
		parts := strings.Split(leaf.Data, d.Word)
		frag := make([]*dom.Node, 0, 2*len(parts))
		for j, p := range parts {
			if j > 0 {
				frag = append(frag, termSpan(d))
			}
			if p != "" {
				frag = append(frag, dom.Text(p))
			}
		}
		leaf.ReplaceWith(frag)

		count := len(parts) - 1
		for _, f := range frag {
			if f.Type == dom.TextNode {
				count += in.injectText(f, defs[i+1:])
			}
		}
		return count
	}
	return 0
}

func inScope(defs []*Definition, token string) []*Definition {
	out := make([]*Definition, 0, len(defs))
	for _, d := range defs {
		if d.InScope(token) {
			out = append(out, d)
		}
	}
	return out
}

func termSpan(d *Definition) *dom.Node {
	body := dom.Span(ClassTermBody, markWord(d.Sentence, d.Word)...)
	tooltip := dom.Span(ClassTermTooltip,
		dom.Span(ClassTermLabel, dom.Text(d.Label)),
		body,
	)
	el := dom.Span(ClassTerm, dom.Text(d.Word), tooltip)
	el.SetAttr(AttrTerm, d.Word)
	el.SetAttr(AttrTooltip, d.Label)
	return el
}

// markWord splits sentence around word, wrapping each occurrence.
func markWord(sentence, word string) []*dom.Node {
	parts := strings.Split(sentence, word)
	nodes := make([]*dom.Node, 0, 2*len(parts))
	for j, p := range parts {
		if j > 0 {
			nodes = append(nodes, dom.Span(ClassTermMark, dom.Text(word)))
		}
		if p != "" {
			nodes = append(nodes, dom.Text(p))
		}
	}
	return nodes
}
