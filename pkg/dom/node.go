// Package dom holds the mutable statute document tree that every annotation
// pass reads and rewrites.
//
// The tree has two node kinds: text leaves carrying literal statute prose and
// elements carrying a tag, a class set, attributes and ordered children. Passes
// only ever replace text leaves (see RewriteText), so markup injected by one
// pass is never re-read as plain text by a later one.
package dom

import (
	"strings"
)

// NodeType distinguishes text leaves from elements.
type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
)

// Node is a text leaf or an element.
type Node struct {
	Type NodeType

	// Data is the literal text for a TextNode and the tag name for an ElementNode.
	Data string

	Classes  []string
	Attrs    map[string]string
	Children []*Node
	Parent   *Node
}

// Text creates a text leaf.
func Text(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

// Elem creates an element. class may hold several space-separated class names.
func Elem(tag, class string, children ...*Node) *Node {
	n := &Node{Type: ElementNode, Data: tag}
	if class != "" {
		n.Classes = strings.Fields(class)
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// Span is shorthand for Elem("span", class, children...).
func Span(class string, children ...*Node) *Node {
	return Elem("span", class, children...)
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Type == TextNode
}

// HasClass reports whether the element carries class.
func (n *Node) HasClass(class string) bool {
	if n == nil || n.Type != ElementNode {
		return false
	}
	for _, c := range n.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class unless already present.
func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.Classes = append(n.Classes, class)
}

// Attr returns the attribute value and whether it is set.
func (n *Node) Attr(key string) (string, bool) {
	if n == nil || n.Attrs == nil {
		return "", false
	}
	v, ok := n.Attrs[key]
	return v, ok
}

// SetAttr sets an attribute on the element.
func (n *Node) SetAttr(key, val string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[key] = val
}

// AppendChild adds c as the last child of n, detaching it from any previous parent.
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil {
		c.Parent.removeChild(c)
	}
	c.Parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.Children {
		if child == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// ReplaceWith substitutes frag for n in its parent's children. n is detached
// afterwards. It is a no-op for a node without a parent.
func (n *Node) ReplaceWith(frag []*Node) {
	p := n.Parent
	if p == nil {
		return
	}
	for i, child := range p.Children {
		if child == n {
			p.splice(i, frag)
			return
		}
	}
}

// splice replaces the child at index i with frag.
func (n *Node) splice(i int, frag []*Node) {
	old := n.Children[i]
	for _, f := range frag {
		if f.Parent != nil && f.Parent != n {
			f.Parent.removeChild(f)
		}
		f.Parent = n
	}
	rest := append([]*Node(nil), n.Children[i+1:]...)
	n.Children = append(append(n.Children[:i], frag...), rest...)
	old.Parent = nil
}

// TextContent concatenates every text leaf under n in document order.
func (n *Node) TextContent() string {
	if n == nil {
		return ""
	}
	if n.Type == TextNode {
		return n.Data
	}
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, c := range n.Children {
		if c.Type == TextNode {
			b.WriteString(c.Data)
		} else {
			c.writeText(b)
		}
	}
}

// Closest returns the nearest ancestor of n (excluding n) satisfying match.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if match(p) {
			return p
		}
	}
	return nil
}

// ClosestClass returns the nearest ancestor carrying class.
func (n *Node) ClosestClass(class string) *Node {
	return n.Closest(func(p *Node) bool { return p.HasClass(class) })
}

// Contains reports whether d is n or one of its descendants.
func (n *Node) Contains(d *Node) bool {
	for ; d != nil; d = d.Parent {
		if d == n {
			return true
		}
	}
	return false
}

// Find returns every element below n (excluding n) satisfying match, in
// document order.
func (n *Node) Find(match func(*Node) bool) []*Node {
	var out []*Node
	Visit(n, func(e *Node) bool {
		if e != n && match(e) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FindClass returns every element below n carrying class.
func (n *Node) FindClass(class string) []*Node {
	return n.Find(func(e *Node) bool { return e.HasClass(class) })
}

// FirstClass returns the first element below n carrying class, or nil.
func (n *Node) FirstClass(class string) *Node {
	var found *Node
	Visit(n, func(e *Node) bool {
		if found != nil {
			return false
		}
		if e != n && e.HasClass(class) {
			found = e
			return false
		}
		return true
	})
	return found
}

var blockTags = map[string]bool{
	"div":     true,
	"p":       true,
	"li":      true,
	"section": true,
	"dd":      true,
	"td":      true,
	"details": true,
	"body":    true,
}

// IsBlock reports whether n is a block-level element providing sentence context.
func (n *Node) IsBlock() bool {
	return n != nil && n.Type == ElementNode && blockTags[n.Data]
}

// ClosestBlock returns the nearest block-level ancestor.
func (n *Node) ClosestBlock() *Node {
	return n.Closest((*Node).IsBlock)
}
