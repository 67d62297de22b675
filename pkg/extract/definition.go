package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/badiary/sat-law-sub000/pkg/artnum"
	"github.com/badiary/sat-law-sub000/pkg/bracket"
	"github.com/badiary/sat-law-sub000/pkg/dom"
	"github.com/badiary/sat-law-sub000/pkg/kansuji"
)

// DefinitionRule names the heuristic that discovered a definition.
type DefinitionRule string

const (
	// RuleQuoted is a corner-bracketed term: この法律において「X」とは / 以下「X」という.
	RuleQuoted DefinitionRule = "quoted"
	// RuleSame is a term followed by a parenthetical ending in 以下同じ。
	RuleSame DefinitionRule = "same"
)

// Definition is a defined term together with where and how it is defined.
type Definition struct {
	Word         string         `json:"word"`
	Rule         DefinitionRule `json:"rule"`
	ArticleToken string         `json:"article,omitempty"`
	ArticleTitle string         `json:"article_title,omitempty"`
	Paragraph    string         `json:"paragraph,omitempty"`
	Item         string         `json:"item,omitempty"`
	Label        string         `json:"label"`
	Sentence     string         `json:"sentence"`

	// Scope lists the article tokens where the definition applies. Empty
	// means the whole statute.
	Scope []string `json:"scope,omitempty"`

	// Span is the bracket span the definition was found at.
	Span *dom.Node `json:"-"`
}

// InScope reports whether the definition applies within the article token.
func (d *Definition) InScope(token string) bool {
	if len(d.Scope) == 0 {
		return true
	}
	for _, s := range d.Scope {
		if artnum.HasIntersection(s, token) {
			return true
		}
	}
	return false
}

// DefinitionExtractor discovers defined terms in a bracket-annotated tree.
type DefinitionExtractor struct {
	logger *slog.Logger

	// [項号カタカナ]において: a definition limited to the defining provision.
	localScopePattern *regexp.Regexp
}

// NewDefinitionExtractor creates a new DefinitionExtractor.
func NewDefinitionExtractor(logger *slog.Logger) *DefinitionExtractor {
	return &DefinitionExtractor{
		logger:            discardLogger(logger),
		localScopePattern: regexp.MustCompile(`[項号\x{30A1}-\x{30F6}]において`),
	}
}

// Extract runs the corner-bracket heuristic over the whole tree, then the
// 以下同じ heuristic. The first definition found for a word wins, so a
// corner-bracketed definition always takes priority.
func (e *DefinitionExtractor) Extract(root *dom.Node) []*Definition {
	seen := make(map[string]bool)
	definitions := make([]*Definition, 0)
	add := func(d *Definition) {
		if d == nil || d.Word == "" || seen[d.Word] {
			return
		}
		seen[d.Word] = true
		definitions = append(definitions, d)
	}

	for _, span := range root.FindClass(bracket.Corner.Class()) {
		add(e.fromQuoted(span))
	}
	for _, span := range root.FindClass(bracket.FullWidthParen.Class()) {
		add(e.fromSame(span))
	}

	e.logger.Debug("extracted definitions", "count", len(definitions))
	return definitions
}

// fromQuoted handles 「X」とは / 「X」という.
func (e *DefinitionExtractor) fromQuoted(span *dom.Node) *Definition {
	if span.ClosestClass(ClassSupplProvision) != nil || span.ClosestClass(ClassCommentary) != nil {
		return nil
	}
	article := span.ClosestClass(ClassArticle)
	token, ok := article.Attr(AttrArticleNum)
	if !ok || token == artnum.Sentinel {
		return nil
	}
	block := span.ClosestBlock()
	if block == nil {
		return nil
	}
	sentence := block.TextContent()
	if !strings.Contains(sentence, "」と") ||
		strings.Contains(sentence, "」とあるのは") ||
		strings.Contains(sentence, "」と読み替え") {
		return nil
	}
	word := strings.TrimSpace(bracket.Interior(span))
	if word == "" {
		return nil
	}

	d := newDefinition(span, word, RuleQuoted, article, block)
	region := span.Closest(func(n *dom.Node) bool {
		return n == block || n.HasClass(bracket.FullWidthParen.Class())
	})
	d.Scope = e.scope(sentence, region, span, token)
	return d
}

// fromSame handles X（…。以下同じ。）.
func (e *DefinitionExtractor) fromSame(span *dom.Node) *Definition {
	if span.ClosestClass(ClassCommentary) != nil {
		return nil
	}
	if !strings.Contains(ownText(span), "同じ。") || hasOwnQuote(span) {
		return nil
	}
	word := precedingWord(span)
	if word == "" {
		return nil
	}
	block := span.ClosestBlock()
	if block == nil {
		return nil
	}
	article := span.ClosestClass(ClassArticle)
	token, _ := article.Attr(AttrArticleNum)

	d := newDefinition(span, word, RuleSame, article, block)
	d.Scope = e.scope(block.TextContent(), span, nil, token)
	return d
}

func newDefinition(span *dom.Node, word string, rule DefinitionRule, article, block *dom.Node) *Definition {
	d := &Definition{
		Word:     word,
		Rule:     rule,
		Span:     span,
		Sentence: strings.TrimSpace(block.TextContent()),
	}
	if article != nil {
		d.ArticleToken, _ = article.Attr(AttrArticleNum)
		if t := article.FirstClass(ClassArticleTitle); t != nil {
			d.ArticleTitle = strings.TrimSpace(t.TextContent())
		}
	}
	if p := span.ClosestClass(ClassParagraph); p != nil {
		if num := p.FirstClass(ClassParagraphNum); num != nil {
			d.Paragraph = strings.TrimSpace(num.TextContent())
		}
	}
	if it := span.ClosestClass(ClassItem); it != nil {
		if title := it.FirstClass(ClassItemTitle); title != nil {
			d.Item = strings.TrimSpace(title.TextContent())
		}
	}
	d.Label = citationLabel(d)
	return d
}

// citationLabel renders 第二条第一項第三号 style labels.
func citationLabel(d *Definition) string {
	var b strings.Builder
	b.WriteString(d.ArticleTitle)
	if d.Paragraph != "" {
		p := d.Paragraph
		if n, err := strconv.ParseInt(kansuji.NormalizeWidth(p), 10, 64); err == nil {
			p = kansuji.FromArabic(n)
		}
		b.WriteString("第" + p + "項")
	}
	if d.Item != "" {
		b.WriteString("第" + d.Item + "号")
	}
	return b.String()
}

// scope collects the articles a definition is limited to. Only sentences
// containing において carry a scope. References are read from region,
// skipping nested parentheticals and stopping at stop.
func (e *DefinitionExtractor) scope(sentence string, region, stop *dom.Node, token string) []string {
	if region == nil || !strings.Contains(sentence, "において") {
		return nil
	}
	valid := token != "" && token != artnum.Sentinel

	scope := make([]string, 0)
	seen := make(map[string]bool)
	collect := func(tok string) {
		if tok != "" && !seen[tok] {
			seen[tok] = true
			scope = append(scope, tok)
		}
	}

	stopped := false
	var walk func(n *dom.Node)
	walk = func(n *dom.Node) {
		for _, c := range n.Children {
			if stopped {
				return
			}
			if c == stop {
				stopped = true
				return
			}
			if c.Type != dom.ElementNode || c.HasClass(bracket.FullWidthParen.Class()) {
				continue
			}
			if tok, ok := c.Attr(AttrRefArticle); ok {
				collect(tok)
			}
			walk(c)
		}
	}
	walk(region)

	if valid && strings.Contains(sentence, "この条") {
		collect(token)
	}
	if len(scope) == 0 && valid && e.localScopePattern.MatchString(sentence) {
		collect(token)
	}
	if len(scope) == 0 {
		return nil
	}
	return scope
}

// ownText is the text of a parenthetical with nested parentheticals removed.
func ownText(span *dom.Node) string {
	var b strings.Builder
	var walk func(n *dom.Node)
	walk = func(n *dom.Node) {
		for _, c := range n.Children {
			switch {
			case c.Type == dom.TextNode:
				b.WriteString(c.Data)
			case c.HasClass(bracket.FullWidthParen.Class()):
			default:
				walk(c)
			}
		}
	}
	walk(span)
	return b.String()
}

// hasOwnQuote reports whether the parenthetical itself, outside nested
// parentheticals, holds a corner-bracketed term.
func hasOwnQuote(span *dom.Node) bool {
	found := false
	dom.Visit(span, func(n *dom.Node) bool {
		if found {
			return false
		}
		if n != span && n.HasClass(bracket.FullWidthParen.Class()) {
			return false
		}
		if n.HasClass(bracket.Corner.Class()) {
			found = true
			return false
		}
		return true
	})
	return found
}

// precedingWord returns the longest run of word-like characters immediately
// before span within its parent.
func precedingWord(span *dom.Node) string {
	if span.Parent == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range span.Parent.Children {
		if c == span {
			break
		}
		b.WriteString(c.TextContent())
	}
	runes := []rune(b.String())
	i := len(runes)
	for i > 0 && isWordRune(runes[i-1]) {
		i--
	}
	return string(runes[i:])
}

func isWordRune(r rune) bool {
	switch {
	case unicode.Is(unicode.Han, r), unicode.Is(unicode.Katakana, r):
		return true
	case r == 'ー' || r == '・' || r == '･':
		return true
	case r >= 0xFF66 && r <= 0xFF9F: // half-width katakana
		return true
	case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		return true
	case r >= '０' && r <= '９', r >= 'Ａ' && r <= 'Ｚ', r >= 'ａ' && r <= 'ｚ':
		return true
	}
	return false
}
