// Package extract provides the statute annotation passes that need document
// context: the article index, cross references, style spans, defined terms and
// commentary blocks.
package extract

import (
	"io"
	"log/slog"
	"regexp"

	"github.com/badiary/sat-law-sub000/pkg/dom"
)

// Class names of the structural elements supplied by the upstream renderer.
const (
	ClassArticle        = "Article"
	ClassArticleTitle   = "ArticleTitle"
	ClassArticleCaption = "ArticleCaption"
	ClassParagraph      = "Paragraph"
	ClassParagraphNum   = "ParagraphNum"
	ClassItem           = "Item"
	ClassItemTitle      = "ItemTitle"
	ClassSupplProvision = "SupplProvision"
	ClassLawTitle       = "LawTitle"
)

// Class names and attributes assigned by the annotation passes.
const (
	AttrArticleNum = "data-article-num"

	ClassReference     = "ref"
	AttrRefArticle     = "data-ref-article"
	AttrRefParagraph   = "data-ref-paragraph"
	AttrRefItem        = "data-ref-item"
	ClassParagraphRef  = "para-ref"
	ClassConjunction   = "conjunction"
	ClassCommentary    = "chikujo"
	ClassTerm          = "term"
	ClassTermTooltip   = "term-tooltip"
	ClassTermLabel     = "term-label"
	ClassTermBody      = "term-body"
	ClassTermMark      = "term-mark"
	AttrTerm           = "data-term"
	AttrTooltip        = "data-tooltip"
	DefaultLinkPrefix  = "#article"
	articleIDPrefix    = "article"
	defaultSummaryText = "逐条解説"
)

// DocumentTitle returns the statute title: the LawTitle element's text, or
// the <title> element's text when there is none.
func DocumentTitle(root *dom.Node) string {
	if t := root.FirstClass(ClassLawTitle); t != nil {
		return t.TextContent()
	}
	if t := dom.FindTag(root, "title"); t != nil {
		return t.TextContent()
	}
	return ""
}

// inHeading reports whether the leaf belongs to an article title, which is a
// heading rather than a citation.
func inHeading(leaf *dom.Node) bool {
	return leaf.ClosestClass(ClassArticleTitle) != nil
}

// wrapMatches splits text around every match of re, wrapping each match with
// build. It returns nil when there is no match.
func wrapMatches(text string, re *regexp.Regexp, build func(match string) (*dom.Node, error)) ([]*dom.Node, error) {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, nil
	}
	frag := make([]*dom.Node, 0, 2*len(locs)+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			frag = append(frag, dom.Text(text[last:loc[0]]))
		}
		el, err := build(text[loc[0]:loc[1]])
		if err != nil {
			return nil, err
		}
		frag = append(frag, el)
		last = loc[1]
	}
	if last < len(text) {
		frag = append(frag, dom.Text(text[last:]))
	}
	return frag, nil
}

func discardLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
