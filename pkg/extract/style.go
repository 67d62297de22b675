package extract

import (
	"regexp"

	"github.com/badiary/sat-law-sub000/pkg/artnum"
	"github.com/badiary/sat-law-sub000/pkg/dom"
)

// StyleAnnotator wraps paragraph/item designations and legal conjunctions in
// cosmetic spans.
type StyleAnnotator struct {
	paragraphRefPattern *regexp.Regexp
	conjunctionPattern  *regexp.Regexp
}

// NewStyleAnnotator creates a new StyleAnnotator.
func NewStyleAnnotator() *StyleAnnotator {
	return &StyleAnnotator{
		// 第二項, 前項, 次号, 同項, 各号, 前二項, 前条, 次条
		paragraphRefPattern: regexp.MustCompile(`(?:[前次同各第](?:` + artnum.Numeral + `)?|` + artnum.Numeral + `)[項号]|前条|次条`),
		conjunctionPattern:  regexp.MustCompile(`及び|又は|並びに|若しくは`),
	}
}

// Annotate runs both replacement passes over every text leaf below root.
func (s *StyleAnnotator) Annotate(root *dom.Node) error {
	if err := s.wrapAll(root, s.paragraphRefPattern, ClassParagraphRef); err != nil {
		return err
	}
	return s.wrapAll(root, s.conjunctionPattern, ClassConjunction)
}

func (s *StyleAnnotator) wrapAll(root *dom.Node, re *regexp.Regexp, class string) error {
	return dom.Rewrite(root, func(leaf *dom.Node) ([]*dom.Node, error) {
		return wrapMatches(leaf.Data, re, func(match string) (*dom.Node, error) {
			return dom.Span(class, dom.Text(match)), nil
		})
	})
}
