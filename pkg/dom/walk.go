package dom

// TextRewriter is applied to a text leaf together with the accumulator threaded
// through the walk. A nil fragment leaves the leaf untouched; otherwise the leaf
// is replaced by the fragment. The returned accumulator is passed to the next
// leaf in document order.
type TextRewriter[S any] func(leaf *Node, acc S) ([]*Node, S, error)

// RewriteText visits every text leaf below root in document order. Fragments
// produced by fn are spliced in place and are not visited again by the same
// walk. The first error aborts the walk.
func RewriteText[S any](root *Node, acc S, fn TextRewriter[S]) (S, error) {
	if root == nil || root.Type != ElementNode {
		return acc, nil
	}
	var err error
	for i := 0; i < len(root.Children); i++ {
		c := root.Children[i]
		if c.Type == ElementNode {
			if acc, err = RewriteText(c, acc, fn); err != nil {
				return acc, err
			}
			continue
		}
		var frag []*Node
		frag, acc, err = fn(c, acc)
		if err != nil {
			return acc, err
		}
		if frag == nil {
			continue
		}
		root.splice(i, frag)
		i += len(frag) - 1
	}
	return acc, nil
}

// Rewrite is RewriteText without an accumulator.
func Rewrite(root *Node, fn func(leaf *Node) ([]*Node, error)) error {
	_, err := RewriteText(root, struct{}{}, func(leaf *Node, acc struct{}) ([]*Node, struct{}, error) {
		frag, err := fn(leaf)
		return frag, acc, err
	})
	return err
}

// Visit calls fn for n and every element below it in document order. Returning
// false from fn skips the element's children.
func Visit(n *Node, fn func(*Node) bool) {
	if n == nil || n.Type != ElementNode {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Visit(c, fn)
	}
}
