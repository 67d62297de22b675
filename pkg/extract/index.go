package extract

import (
	"log/slog"

	"github.com/badiary/sat-law-sub000/pkg/artnum"
	"github.com/badiary/sat-law-sub000/pkg/dom"
)

// ArticleRecord ties a canonical article token to its Article element.
type ArticleRecord struct {
	Token string    `json:"token"`
	Title string    `json:"title"`
	Node  *dom.Node `json:"-"`
}

// ArticleIndex is the ordered list of articles of one document. It is built
// once and read-only afterwards.
type ArticleIndex struct {
	records []ArticleRecord
	byNode  map[*dom.Node]int
	byToken map[string]int
}

// Len returns the number of indexed articles.
func (ix *ArticleIndex) Len() int {
	return len(ix.records)
}

// At returns the record at position i.
func (ix *ArticleIndex) At(i int) (ArticleRecord, bool) {
	if i < 0 || i >= len(ix.records) {
		return ArticleRecord{}, false
	}
	return ix.records[i], true
}

// Records returns the records in document order.
func (ix *ArticleIndex) Records() []ArticleRecord {
	return append([]ArticleRecord(nil), ix.records...)
}

// IndexOf returns the position of an Article element.
func (ix *ArticleIndex) IndexOf(article *dom.Node) (int, bool) {
	i, ok := ix.byNode[article]
	return i, ok
}

// Lookup returns the record carrying token.
func (ix *ArticleIndex) Lookup(token string) (ArticleRecord, bool) {
	i, ok := ix.byToken[token]
	if !ok {
		return ArticleRecord{}, false
	}
	return ix.records[i], true
}

// Enclosing returns the position of the article containing n.
func (ix *ArticleIndex) Enclosing(n *dom.Node) (int, bool) {
	article := n
	if !article.HasClass(ClassArticle) {
		article = n.ClosestClass(ClassArticle)
	}
	if article == nil {
		return 0, false
	}
	return ix.IndexOf(article)
}

// ArticleIndexer assigns canonical tokens to Article elements.
type ArticleIndexer struct {
	logger *slog.Logger
}

// NewArticleIndexer creates a new ArticleIndexer.
func NewArticleIndexer(logger *slog.Logger) *ArticleIndexer {
	return &ArticleIndexer{logger: discardLogger(logger)}
}

// Index walks every Article outside addendum sections in document order,
// stores its token in the data-article-num attribute (and an id anchor) and
// returns the ordered index. Articles whose title is missing, unparseable or
// duplicates an earlier token get the sentinel token.
func (x *ArticleIndexer) Index(root *dom.Node) *ArticleIndex {
	ix := &ArticleIndex{
		byNode:  make(map[*dom.Node]int),
		byToken: make(map[string]int),
	}

	dom.Visit(root, func(n *dom.Node) bool {
		if n.HasClass(ClassSupplProvision) || n.HasClass(ClassCommentary) {
			return false
		}
		if !n.HasClass(ClassArticle) {
			return true
		}
		rec := x.record(n, ix)
		n.SetAttr(AttrArticleNum, rec.Token)
		if rec.Token != artnum.Sentinel {
			n.SetAttr("id", articleIDPrefix+rec.Token)
			ix.byToken[rec.Token] = len(ix.records)
		}
		ix.byNode[n] = len(ix.records)
		ix.records = append(ix.records, rec)
		return true
	})

	x.logger.Debug("indexed articles", "count", len(ix.records))
	return ix
}

func (x *ArticleIndexer) record(article *dom.Node, ix *ArticleIndex) ArticleRecord {
	rec := ArticleRecord{Token: artnum.Sentinel, Node: article}

	titleEl := article.FirstClass(ClassArticleTitle)
	if titleEl == nil {
		x.logger.Warn("article without title", "index", len(ix.records))
		return rec
	}
	rec.Title = titleEl.TextContent()

	token, err := artnum.FromTitle(rec.Title)
	if err != nil {
		x.logger.Warn("unparseable article title", "title", rec.Title, "error", err)
		return rec
	}
	if _, dup := ix.byToken[token]; dup {
		x.logger.Warn("duplicate article token", "title", rec.Title, "token", token)
		return rec
	}
	rec.Token = token
	return rec
}
