// Package annotate runs the annotation passes over one statute document in
// their fixed order.
package annotate

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/badiary/sat-law-sub000/pkg/bracket"
	"github.com/badiary/sat-law-sub000/pkg/config"
	"github.com/badiary/sat-law-sub000/pkg/dom"
	"github.com/badiary/sat-law-sub000/pkg/extract"
)

// Result is the outcome of annotating one document.
type Result struct {
	Title       string                    `json:"title"`
	Markup      string                    `json:"markup"`
	Articles    []extract.ArticleRecord   `json:"articles"`
	References  []extract.Reference       `json:"references"`
	Definitions []*extract.Definition     `json:"definitions"`
	Commentary  []extract.CommentaryBlock `json:"commentary,omitempty"`
}

// Annotator orchestrates the passes. It holds no per-document state and may
// be reused sequentially; each Run works on its own tree.
type Annotator struct {
	opts   config.Options
	logger *slog.Logger
}

// New creates an Annotator.
func New(opts config.Options, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Annotator{opts: opts, logger: logger}
}

// AnnotateHTML parses the statute HTML, annotates it and renders the result.
// commentary may be nil.
func (a *Annotator) AnnotateHTML(statute, commentary io.Reader) (*Result, error) {
	root, err := dom.ParseHTML(statute)
	if err != nil {
		return nil, err
	}
	var blocks []extract.CommentaryBlock
	if commentary != nil {
		if blocks, err = extract.ParseCommentary(commentary); err != nil {
			return nil, err
		}
	}
	return a.Run(root, blocks)
}

// Run mutates root in place: brackets, article index, cross references and
// links, style, commentary, definition extraction and injection. Only the
// <body> subtree is annotated when root has one. The rendered markup of the
// whole tree is returned with the document title.
func (a *Annotator) Run(root *dom.Node, commentary []extract.CommentaryBlock) (*Result, error) {
	passes := a.opts.Passes
	res := &Result{Title: extract.DocumentTitle(root)}
	doc := root
	if body := dom.FindTag(root, "body"); body != nil {
		doc = body
	}

	if err := a.brackets(doc); err != nil {
		return nil, err
	}
	index := extract.NewArticleIndexer(a.logger).Index(doc)
	res.Articles = index.Records()

	refs, err := a.citations(doc, index)
	if err != nil {
		return nil, err
	}
	res.References = refs

	if passes.Commentary && len(commentary) > 0 {
		details := extract.AttachCommentary(index, commentary, a.opts.CommentarySummary, a.logger)
		for _, d := range details {
			if err := a.markupBlock(d, index); err != nil {
				return nil, fmt.Errorf("annotate commentary: %w", err)
			}
		}
		res.Commentary = commentary
	}

	if passes.Definitions {
		res.Definitions = extract.NewDefinitionExtractor(a.logger).Extract(doc)
		extract.NewDefinitionInjector(a.logger).Inject(doc, res.Definitions)
	}

	markup, err := dom.RenderString(root)
	if err != nil {
		return nil, err
	}
	res.Markup = markup
	a.logger.Info("annotated statute",
		"title", res.Title,
		"articles", len(res.Articles),
		"references", len(res.References),
		"definitions", len(res.Definitions))
	return res, nil
}

func (a *Annotator) brackets(root *dom.Node) error {
	if !a.opts.Passes.Brackets {
		return nil
	}
	if err := bracket.Annotate(root); err != nil {
		return fmt.Errorf("bracket pass: %w", err)
	}
	return nil
}

// citations runs the passes that follow the article index: cross references,
// links and style. Resolver state starts fresh for every call.
func (a *Annotator) citations(root *dom.Node, index *extract.ArticleIndex) ([]extract.Reference, error) {
	passes := a.opts.Passes
	var refs []extract.Reference
	if passes.CrossReferences {
		state, err := extract.NewReferenceResolver(index, a.logger).Resolve(root, extract.ResolveState{})
		if err != nil {
			return nil, fmt.Errorf("cross-reference pass: %w", err)
		}
		refs = state.References
	}
	if passes.Links {
		if err := extract.NewArticleLinker(a.opts.LinkPrefix).Link(root); err != nil {
			return nil, fmt.Errorf("link pass: %w", err)
		}
	}
	if passes.Style {
		if err := extract.NewStyleAnnotator().Annotate(root); err != nil {
			return nil, fmt.Errorf("style pass: %w", err)
		}
	}
	return refs, nil
}

// markupBlock annotates one commentary block with fresh pass state.
func (a *Annotator) markupBlock(block *dom.Node, index *extract.ArticleIndex) error {
	if err := a.brackets(block); err != nil {
		return err
	}
	_, err := a.citations(block, index)
	return err
}
