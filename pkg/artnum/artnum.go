// Package artnum handles canonical article-number tokens.
//
// A token is "N" for an article, "N-M" for a sub-numbered article (第N条のM),
// with further dash segments for deeper sub-numbering, or "A,B" for a range
// running from token A to token B.
package artnum

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/badiary/sat-law-sub000/pkg/kansuji"
)

// Sentinel is assigned to articles whose number cannot be determined.
const Sentinel = "-1"

// ErrNoArticleNumber is returned when a title carries no 第N条 prefix.
var ErrNoArticleNumber = errors.New("artnum: no article number")

// Numeral is the character class used for article numerals in patterns.
const Numeral = `[〇一二三四五六七八九十百千0-9０-９]+`

var titlePattern = regexp.MustCompile(`^第(` + Numeral + `)条((?:の` + Numeral + `)*)`)

// FromTitle derives a token from an article title such as "第十二条の三".
func FromTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	m := titlePattern.FindStringSubmatch(t)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrNoArticleNumber, title)
	}
	return FromParts(m[1], m[2])
}

// FromParts builds a token from the main numeral and the sub-numbering
// suffix ("の三の二"), converting Kanji numerals to Arabic.
func FromParts(main, subs string) (string, error) {
	s := main + subs
	s, err := kansuji.ReplaceNumerals(kansuji.NormalizeWidth(s))
	if err != nil {
		return "", err
	}
	parts := strings.Split(s, "の")
	for i, p := range parts {
		n, err := kansuji.ToArabic(p)
		if err != nil {
			return "", fmt.Errorf("article number %q: %w", main+subs, err)
		}
		parts[i] = strconv.FormatInt(n, 10)
	}
	return strings.Join(parts, "-"), nil
}

// Range joins two tokens into a range token.
func Range(from, to string) string {
	return from + "," + to
}

// IsRange reports whether tok is a range token.
func IsRange(tok string) bool {
	return strings.Contains(tok, ",")
}

// Bounds splits a range token. For a plain token both bounds are tok.
func Bounds(tok string) (from, to string) {
	from, to, ok := strings.Cut(tok, ",")
	if !ok {
		return tok, tok
	}
	return from, to
}

// Lead returns the leading article number of a token, or -1 if it has none.
func Lead(tok string) int {
	if tok == Sentinel {
		return -1
	}
	head, _, _ := strings.Cut(tok, "-")
	n, err := strconv.Atoi(head)
	if err != nil {
		return -1
	}
	return n
}

// Compare orders two point tokens, returning -1, 0 or 1. Leading numbers are
// compared numerically; when they tie, a token with a further sub-segment is
// greater than one without, and otherwise the remainders are compared.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if a == Sentinel {
		return -1
	}
	if b == Sentinel {
		return 1
	}
	ah, arest, asub := strings.Cut(a, "-")
	bh, brest, bsub := strings.Cut(b, "-")
	an, bn := atoi(ah), atoi(bh)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	case !asub:
		return -1
	case !bsub:
		return 1
	}
	return Compare(arest, brest)
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// IsIncluded reports whether the point token num lies within the range token
// rng, bounds included.
func IsIncluded(rng, num string) bool {
	from, to := Bounds(rng)
	if num == from || num == to {
		return true
	}
	return sign(Compare(num, from)) != sign(Compare(num, to))
}

// HasIntersection reports whether two tokens, each a point or a range,
// overlap. Two points intersect when they share the leading article number.
// Two ranges intersect when a bound of either lies inside the other.
func HasIntersection(a, b string) bool {
	ar, br := IsRange(a), IsRange(b)
	switch {
	case !ar && !br:
		return a == b || (Lead(a) >= 0 && Lead(a) == Lead(b))
	case ar && !br:
		return IsIncluded(a, b)
	case !ar && br:
		return IsIncluded(b, a)
	}
	aFrom, aTo := Bounds(a)
	bFrom, bTo := Bounds(b)
	return IsIncluded(a, bFrom) || IsIncluded(a, bTo) ||
		IsIncluded(b, aFrom) || IsIncluded(b, aTo)
}
