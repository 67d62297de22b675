package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML reads the upstream renderer's HTML and converts it into a tree
// rooted at the <html> element. Comments and doctype nodes are dropped.
func ParseHTML(r io.Reader) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return fromHTML(c), nil
		}
	}
	return nil, fmt.Errorf("parse html: no root element")
}

// ParseFragment parses s as the content of a <body> element and returns that
// element.
func ParseFragment(s string) (*Node, error) {
	root, err := ParseHTML(strings.NewReader("<html><body>" + s + "</body></html>"))
	if err != nil {
		return nil, err
	}
	if body := FindTag(root, "body"); body != nil {
		return body, nil
	}
	return root, nil
}

func fromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return Text(h.Data)
	case html.ElementNode:
		n := &Node{Type: ElementNode, Data: h.Data}
		for _, a := range h.Attr {
			if a.Key == "class" {
				n.Classes = strings.Fields(a.Val)
				continue
			}
			n.SetAttr(a.Key, a.Val)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				n.AppendChild(child)
			}
		}
		return n
	}
	return nil
}

// FindTag returns the first element below n (or n itself) with the given tag.
func FindTag(n *Node, tag string) *Node {
	var found *Node
	Visit(n, func(e *Node) bool {
		if found != nil {
			return false
		}
		if e.Data == tag {
			found = e
			return false
		}
		return true
	})
	return found
}

// Render serializes n as HTML. The class attribute comes first, the remaining
// attributes follow in key order.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n))
}

// RenderString is Render into a string.
func RenderString(n *Node) (string, error) {
	var b strings.Builder
	if err := Render(&b, n); err != nil {
		return "", fmt.Errorf("render %s: %w", n.Data, err)
	}
	return b.String(), nil
}

// RenderChildren serializes the children of n without n's own tags.
func RenderChildren(n *Node) (string, error) {
	var b strings.Builder
	for _, c := range n.Children {
		if err := Render(&b, c); err != nil {
			return "", fmt.Errorf("render %s: %w", c.Data, err)
		}
	}
	return b.String(), nil
}

func toHTML(n *Node) *html.Node {
	if n.Type == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.Data}
	}
	h := &html.Node{Type: html.ElementNode, Data: n.Data}
	if len(n.Classes) > 0 {
		h.Attr = append(h.Attr, html.Attribute{Key: "class", Val: strings.Join(n.Classes, " ")})
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Attr = append(h.Attr, html.Attribute{Key: k, Val: n.Attrs[k]})
	}
	for _, c := range n.Children {
		h.AppendChild(toHTML(c))
	}
	return h
}
