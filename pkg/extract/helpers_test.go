package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/badiary/sat-law-sub000/pkg/bracket"
	"github.com/badiary/sat-law-sub000/pkg/dom"
	"github.com/badiary/sat-law-sub000/pkg/testutil"
)

// articleHTML renders an Article the way the upstream renderer does: a title
// followed by one Paragraph per sentence. Paragraphs after the first carry
// a full-width ParagraphNum.
func articleHTML(title string, sentences ...string) string {
	var b strings.Builder
	b.WriteString(`<div class="Article"><span class="ArticleTitle">` + title + `</span>`)
	for i, s := range sentences {
		num := ""
		if i > 0 {
			num = string(rune('１' + i))
		}
		fmt.Fprintf(&b, `<div class="Paragraph"><span class="ParagraphNum">%s</span>`+
			`<div class="ParagraphSentence"><span class="Sentence">%s</span></div></div>`, num, s)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// parseStatute parses an HTML fragment into a body element.
func parseStatute(t *testing.T, html string) *dom.Node {
	t.Helper()
	root, err := dom.ParseFragment(html)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	return root
}

// prepare parses html and runs the bracket pass and the article index.
func prepare(t *testing.T, html string) (*dom.Node, *ArticleIndex) {
	t.Helper()
	root := parseStatute(t, html)
	if err := bracket.Annotate(root); err != nil {
		t.Fatalf("bracket.Annotate failed: %v", err)
	}
	index := NewArticleIndexer(testutil.NewTestLogger(t)).Index(root)
	return root, index
}

// prepareWithReferences additionally runs the cross-reference pass.
func prepareWithReferences(t *testing.T, html string) (*dom.Node, *ArticleIndex, ResolveState) {
	t.Helper()
	root, index := prepare(t, html)
	state, err := NewReferenceResolver(index, testutil.NewTestLogger(t)).Resolve(root, ResolveState{})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	return root, index, state
}

func tokens(refs []Reference) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Token
	}
	return out
}
