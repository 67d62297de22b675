package extract

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/badiary/sat-law-sub000/pkg/artnum"
	"github.com/badiary/sat-law-sub000/pkg/dom"
)

// CommentaryBlock is the explanatory text for one article.
type CommentaryBlock struct {
	Token   string   `json:"token"`
	Heading string   `json:"heading"`
	Lines   []string `json:"lines"`
}

var commentaryHeadingPattern = regexp.MustCompile(
	`^第(` + artnum.Numeral + `)条((?:の` + artnum.Numeral + `)*)(?:[\s　]*[（(][^）)]*[）)])?$`)

// ParseCommentary splits a plain-text commentary document into per-article
// blocks. A block starts at a line holding only an article designation,
// optionally followed by a caption such as "第一条（目的）". Text before the
// first heading is ignored.
func ParseCommentary(r io.Reader) ([]CommentaryBlock, error) {
	blocks := make([]CommentaryBlock, 0)
	current := -1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r　")
		trimmed := strings.TrimSpace(line)

		if m := commentaryHeadingPattern.FindStringSubmatch(trimmed); m != nil {
			token, err := artnum.FromParts(m[1], m[2])
			if err != nil {
				return nil, fmt.Errorf("commentary heading %q: %w", trimmed, err)
			}
			blocks = append(blocks, CommentaryBlock{Token: token, Heading: trimmed})
			current = len(blocks) - 1
			continue
		}
		if current < 0 || trimmed == "" {
			continue
		}
		blocks[current].Lines = append(blocks[current].Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commentary: %w", err)
	}
	return blocks, nil
}

// AttachCommentary appends each block as a collapsible <details> element to
// its article and returns the attached elements in block order. Blocks whose
// article is not in the index are skipped with a warning.
func AttachCommentary(index *ArticleIndex, blocks []CommentaryBlock, summary string, logger *slog.Logger) []*dom.Node {
	logger = discardLogger(logger)
	if summary == "" {
		summary = defaultSummaryText
	}

	attached := make([]*dom.Node, 0, len(blocks))
	for _, b := range blocks {
		rec, ok := index.Lookup(b.Token)
		if !ok {
			logger.Warn("commentary block without matching article", "heading", b.Heading, "token", b.Token)
			continue
		}
		details := dom.Elem("details", ClassCommentary, dom.Elem("summary", "", dom.Text(summary)))
		for _, line := range b.Lines {
			details.AppendChild(dom.Elem("p", "", dom.Text(line)))
		}
		rec.Node.AppendChild(details)
		attached = append(attached, details)
	}
	return attached
}
