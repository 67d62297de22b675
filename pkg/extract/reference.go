package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/badiary/sat-law-sub000/pkg/artnum"
	"github.com/badiary/sat-law-sub000/pkg/dom"
	"github.com/badiary/sat-law-sub000/pkg/kansuji"
)

// ReferenceKind tells how the (first) article of a reference was written.
type ReferenceKind string

const (
	ReferenceAbsolute ReferenceKind = "absolute" // 第N条
	ReferencePrevious ReferenceKind = "previous" // 前条
	ReferenceNext     ReferenceKind = "next"     // 次条
	ReferenceSame     ReferenceKind = "same"     // 同条
)

// Reference is a resolved in-document article citation.
type Reference struct {
	Text          string        `json:"text"`
	Token         string        `json:"token"`
	Kind          ReferenceKind `json:"kind"`
	IsRange       bool          `json:"is_range,omitempty"`
	Paragraph     int64         `json:"paragraph,omitempty"`
	Item          int64         `json:"item,omitempty"`
	SourceArticle string        `json:"source_article,omitempty"`
}

// ResolveState is threaded through the walk in reading order. A fresh zero
// value must be used for every document or commentary block.
type ResolveState struct {
	// LastToken is the most recently resolved article token; 同条 reuses it.
	// After a range it holds the end of the range.
	LastToken  string
	References []Reference
}

// Submatch groups of referencePattern.
const (
	grpMain = 1 + iota
	grpSubs
	grpRel
	grpParagraph
	grpItem
	grpToMain
	grpToSubs
	grpToRel
)

// ReferenceResolver resolves absolute, relative and ranged article
// references into citation tokens.
type ReferenceResolver struct {
	index            *ArticleIndex
	logger           *slog.Logger
	referencePattern *regexp.Regexp
}

// NewReferenceResolver creates a resolver reading relative positions from index.
func NewReferenceResolver(index *ArticleIndex, logger *slog.Logger) *ReferenceResolver {
	article := `(?:第(` + artnum.Numeral + `)条((?:の` + artnum.Numeral + `)*)|([前次同])条)`
	return &ReferenceResolver{
		index:  index,
		logger: discardLogger(logger),
		// 第五条の二第三項第一号から第七条まで / 前条 / 次条第二項 / 同条
		referencePattern: regexp.MustCompile(article +
			`(第` + artnum.Numeral + `項)?` +
			`(第` + artnum.Numeral + `号)?` +
			`(?:から` + article + `まで)?`),
	}
}

// Resolve wraps every reference below root in a span carrying the resolved
// token and returns the updated state. A reference whose numeral cannot be
// converted after matching the pattern is a fatal error.
func (r *ReferenceResolver) Resolve(root *dom.Node, state ResolveState) (ResolveState, error) {
	return dom.RewriteText(root, state, r.resolveLeaf)
}

func (r *ReferenceResolver) resolveLeaf(leaf *dom.Node, state ResolveState) ([]*dom.Node, ResolveState, error) {
	if inHeading(leaf) {
		return nil, state, nil
	}
	text := leaf.Data
	matches := r.referencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil, state, nil
	}

	source := ""
	if i, ok := r.index.Enclosing(leaf); ok {
		rec, _ := r.index.At(i)
		source = rec.Token
	}

	var frag []*dom.Node
	wrapped := false
	last := 0
	for _, m := range matches {
		group := func(g int) string {
			if m[2*g] < 0 {
				return ""
			}
			return text[m[2*g]:m[2*g+1]]
		}
		raw := text[m[0]:m[1]]

		token, kind, ok, err := r.resolveArticle(leaf, group(grpMain), group(grpSubs), group(grpRel), state.LastToken)
		if err != nil {
			return nil, state, fmt.Errorf("resolve reference %q: %w", raw, err)
		}
		if !ok {
			continue
		}
		ref := Reference{Text: raw, Token: token, Kind: kind, SourceArticle: source}
		state.LastToken = token

		if group(grpToMain) != "" || group(grpToRel) != "" {
			to, _, toOK, err := r.resolveArticle(leaf, group(grpToMain), group(grpToSubs), group(grpToRel), token)
			if err != nil {
				return nil, state, fmt.Errorf("resolve reference %q: %w", raw, err)
			}
			if toOK {
				ref.Token = artnum.Range(token, to)
				ref.IsRange = true
				state.LastToken = to
			}
		}
		if ref.Paragraph, err = sectionNumber(group(grpParagraph), "項"); err != nil {
			return nil, state, fmt.Errorf("resolve reference %q: %w", raw, err)
		}
		if ref.Item, err = sectionNumber(group(grpItem), "号"); err != nil {
			return nil, state, fmt.Errorf("resolve reference %q: %w", raw, err)
		}

		if m[0] > last {
			frag = append(frag, dom.Text(text[last:m[0]]))
		}
		frag = append(frag, referenceSpan(ref))
		last = m[1]
		wrapped = true
		state.References = append(state.References, ref)
	}
	if !wrapped {
		return nil, state, nil
	}
	if last < len(text) {
		frag = append(frag, dom.Text(text[last:]))
	}
	return frag, state, nil
}

// resolveArticle resolves one article designation. ok is false when a
// relative marker has nothing to point at.
func (r *ReferenceResolver) resolveArticle(leaf *dom.Node, main, subs, rel, last string) (string, ReferenceKind, bool, error) {
	switch rel {
	case "":
		token, err := artnum.FromParts(main, subs)
		if err != nil {
			return "", ReferenceAbsolute, false, err
		}
		return token, ReferenceAbsolute, true, nil
	case "同":
		if last == "" {
			r.logger.Debug("同条 without a preceding reference", "text", leaf.Data)
			return "", ReferenceSame, false, nil
		}
		return last, ReferenceSame, true, nil
	}

	kind, offset := ReferencePrevious, -1
	if rel == "次" {
		kind, offset = ReferenceNext, 1
	}
	i, ok := r.index.Enclosing(leaf)
	if !ok {
		r.logger.Debug("relative reference outside an indexed article", "marker", rel+"条")
		return "", kind, false, nil
	}
	rec, ok := r.index.At(i + offset)
	if !ok || rec.Token == artnum.Sentinel {
		r.logger.Warn("relative reference has no target", "marker", rel+"条", "index", i)
		return "", kind, false, nil
	}
	return rec.Token, kind, true, nil
}

// sectionNumber converts "第二項" style suffixes to their number.
func sectionNumber(s, unit string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "第"), unit)
	return kansuji.ToArabic(s)
}

func referenceSpan(ref Reference) *dom.Node {
	el := dom.Span(ClassReference, dom.Text(ref.Text))
	el.SetAttr(AttrRefArticle, ref.Token)
	if ref.Paragraph > 0 {
		el.SetAttr(AttrRefParagraph, fmt.Sprint(ref.Paragraph))
	}
	if ref.Item > 0 {
		el.SetAttr(AttrRefItem, fmt.Sprint(ref.Item))
	}
	return el
}

// ArticleLinker adds plain hyperlinks for bare absolute article mentions. It
// runs after ReferenceResolver and links text inside reference spans too.
type ArticleLinker struct {
	prefix      string
	linkPattern *regexp.Regexp
}

// NewArticleLinker creates a linker whose hrefs are prefix + token.
func NewArticleLinker(prefix string) *ArticleLinker {
	if prefix == "" {
		prefix = DefaultLinkPrefix
	}
	return &ArticleLinker{
		prefix:      prefix,
		linkPattern: regexp.MustCompile(`第(` + artnum.Numeral + `)条((?:の` + artnum.Numeral + `)*)`),
	}
}

// Link wraps every 第N条 mention below root in an anchor.
func (l *ArticleLinker) Link(root *dom.Node) error {
	return dom.Rewrite(root, func(leaf *dom.Node) ([]*dom.Node, error) {
		if inHeading(leaf) || leaf.Closest(func(n *dom.Node) bool { return n.Data == "a" }) != nil {
			return nil, nil
		}
		return wrapMatches(leaf.Data, l.linkPattern, func(match string) (*dom.Node, error) {
			m := l.linkPattern.FindStringSubmatch(match)
			token, err := artnum.FromParts(m[1], m[2])
			if err != nil {
				return nil, fmt.Errorf("link %q: %w", match, err)
			}
			a := dom.Elem("a", "", dom.Text(match))
			a.SetAttr("href", l.prefix+token)
			return a, nil
		})
	})
}
