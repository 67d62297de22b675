// Package kansuji converts between Kanji numerals and Arabic integers.
//
// All functions are pure; nothing is installed into shared state.
package kansuji

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

var (
	ErrEmptyNumeral   = errors.New("kansuji: empty numeral")
	ErrInvalidNumeral = errors.New("kansuji: invalid numeral")
)

// variants maps historical and formal numeral characters to canonical ones.
var variants = strings.NewReplacer(
	"壱", "一", "壹", "一",
	"弐", "二", "貳", "二", "弍", "二",
	"参", "三", "參", "三",
	"肆", "四", "伍", "五", "陸", "六",
	"漆", "七", "柒", "七", "捌", "八", "玖", "九",
	"拾", "十", "廿", "二十", "卄", "二十", "卅", "三十",
	"佰", "百", "陌", "百", "仟", "千", "阡", "千",
	"萬", "万", "零", "〇",
)

var digits = map[rune]int64{
	'〇': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4,
	'5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
}

var smallUnits = map[rune]int64{
	'十': 10,
	'百': 100,
	'千': 1000,
}

var largeUnits = map[rune]int64{
	'万': 1_0000,
	'億': 1_0000_0000,
	'兆': 1_0000_0000_0000,
}

// numeralPattern matches runs of canonical Kanji numerals in running text.
var numeralPattern = regexp.MustCompile(`[〇一二三四五六七八九十百千万億兆]+`)

// NormalizeWidth folds full-width ASCII digits, letters and punctuation
// (U+FF01..U+FF5E) to their half-width forms. Every other rune, including
// the ideographic space and full-width brackets, is left alone.
func NormalizeWidth(s string) string {
	if !hasFullWidthASCII(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isFullWidthASCII(r) {
			if n := width.LookupRune(r).Narrow(); n != 0 {
				r = n
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isFullWidthASCII(r rune) bool {
	return r >= 0xFF01 && r <= 0xFF5E
}

func hasFullWidthASCII(s string) bool {
	for _, r := range s {
		if isFullWidthASCII(r) {
			return true
		}
	}
	return false
}

// ToArabic converts a Kanji numeral such as "百二十三" or "一万五百" to an
// integer. Positional digit runs ("二〇二三") and Arabic digits, full or half
// width, are accepted too.
func ToArabic(s string) (int64, error) {
	s = variants.Replace(NormalizeWidth(strings.TrimSpace(s)))
	if s == "" {
		return 0, ErrEmptyNumeral
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}

	var total int64
	var group []rune
	for _, r := range s {
		unit, ok := largeUnits[r]
		if !ok {
			group = append(group, r)
			continue
		}
		v, err := evalGroup(group)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", err, s)
		}
		if len(group) == 0 {
			v = 1
		}
		total += v * unit
		group = group[:0]
	}
	v, err := evalGroup(group)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", err, s)
	}
	return total + v, nil
}

// evalGroup evaluates one myriad group. A unit without a preceding digit
// counts as one of that unit.
func evalGroup(group []rune) (int64, error) {
	var result, place int64
	var digit int64 = -1
	place = 1
	for i := len(group) - 1; i >= 0; i-- {
		r := group[i]
		if u, ok := smallUnits[r]; ok {
			if digit < 0 && place > 1 {
				// Two units in a row: the later one stood alone.
				result += place
			}
			place = u
			digit = -1
			continue
		}
		d, ok := digits[r]
		if !ok {
			return 0, fmt.Errorf("%w: unexpected %q", ErrInvalidNumeral, string(r))
		}
		if digit >= 0 {
			// A run of bare digits is positional: 二〇二三.
			place *= 10
		}
		result += d * place
		digit = d
	}
	if digit < 0 && place > 1 {
		result += place
	}
	return result, nil
}

// ReplaceNumerals rewrites every Kanji numeral embedded in text to Arabic
// digits. Distinct numerals are substituted longest first so that a short
// numeral never clobbers part of a longer one containing it.
func ReplaceNumerals(text string) (string, error) {
	found := numeralPattern.FindAllString(text, -1)
	if len(found) == 0 {
		return text, nil
	}
	seen := make(map[string]bool, len(found))
	distinct := make([]string, 0, len(found))
	for _, f := range found {
		if !seen[f] {
			seen[f] = true
			distinct = append(distinct, f)
		}
	}
	sort.SliceStable(distinct, func(i, j int) bool {
		return utf8.RuneCountInString(distinct[i]) > utf8.RuneCountInString(distinct[j])
	})
	for _, numeral := range distinct {
		n, err := ToArabic(numeral)
		if err != nil {
			return "", err
		}
		text = strings.ReplaceAll(text, numeral, strconv.FormatInt(n, 10))
	}
	return text, nil
}

var kanjiDigits = []string{"〇", "一", "二", "三", "四", "五", "六", "七", "八", "九"}

var groupUnits = []string{"", "万", "億", "兆", "京"}

// FromArabic renders n as a positional Kanji numeral the way statutes write
// them: 二十, 百二十三, 千五百, 一万五百.
func FromArabic(n int64) string {
	if n == 0 {
		return kanjiDigits[0]
	}
	if n < 0 {
		return "-" + FromArabic(-n)
	}
	var groups []string
	for u := 0; n > 0 && u < len(groupUnits); u++ {
		g := n % 1_0000
		n /= 1_0000
		if g == 0 {
			continue
		}
		groups = append(groups, fromGroup(g)+groupUnits[u])
	}
	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
	}
	return b.String()
}

func fromGroup(g int64) string {
	var b strings.Builder
	for _, unit := range []struct {
		value int64
		name  string
	}{{1000, "千"}, {100, "百"}, {10, "十"}} {
		d := g / unit.value
		g %= unit.value
		if d == 0 {
			continue
		}
		if d > 1 {
			b.WriteString(kanjiDigits[d])
		}
		b.WriteString(unit.name)
	}
	if g > 0 {
		b.WriteString(kanjiDigits[g])
	}
	return b.String()
}
