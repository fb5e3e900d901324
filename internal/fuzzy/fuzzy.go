// Package fuzzy scores the similarity of two short names on a 0-100 scale.
//
// Names coming out of point-of-sale exports rarely match recipe sheets
// exactly: casing differs, words are reordered ("Roll Salmon" vs
// "Salmon Roll"), accents are dropped, and promotions carry extra words.
// The scorers here are token aware so those differences still score high.
//
// All scorers operate on processed strings (see [Process]) and return 0
// when either side is empty after processing.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// partialLengthRatio is the length ratio at which WRatio starts
// comparing the shorter string against windows of the longer one.
const partialLengthRatio = 1.5

const (
	tokenScale       = 0.95
	partialScale     = 0.90
	longPartialScale = 0.60
)

// Process lower-cases s, strips accents, replaces anything that is not a
// letter or digit with a space and collapses runs of whitespace.
func Process(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(t, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Ratio is the normalized edit-distance similarity of two strings.
// Inputs are compared as given; callers process them first.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	la, lb := len([]rune(a)), len([]rune(b))
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(max(la, lb)))
}

// PartialRatio compares the shorter string against every window of the
// same length in the longer one and returns the best score.
func PartialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == len(long) {
		return Ratio(a, b)
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		score := Ratio(s, string(long[i:i+len(short)]))
		if score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares both strings after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared words of both strings against each
// side's full word set, so extra words on one side cost little.
func TokenSetRatio(a, b string) float64 {
	return tokenSet(a, b, Ratio)
}

// WRatio combines the scorers above the way fuzzy name matchers usually
// do: plain ratio, token ratios scaled by 0.95, and partial ratios when
// the lengths are very different. The result is rounded to an integer.
func WRatio(a, b string) int {
	p1, p2 := Process(a), Process(b)
	if p1 == "" || p2 == "" {
		return 0
	}

	base := Ratio(p1, p2)
	l1, l2 := float64(len([]rune(p1))), float64(len([]rune(p2)))
	lenRatio := math.Max(l1, l2) / math.Min(l1, l2)

	if lenRatio < partialLengthRatio {
		tsor := TokenSortRatio(p1, p2) * tokenScale
		tser := TokenSetRatio(p1, p2) * tokenScale
		return round(max(base, tsor, tser))
	}

	scale := partialScale
	if lenRatio >= 8 {
		scale = longPartialScale
	}
	partial := PartialRatio(p1, p2) * scale
	ptsor := PartialRatio(sortedTokens(p1), sortedTokens(p2)) * tokenScale * scale
	ptser := tokenSet(p1, p2, PartialRatio) * tokenScale * scale
	return round(max(base, partial, ptsor, ptser))
}

func tokenSet(a, b string, score func(string, string) float64) float64 {
	ta, tb := tokenSetOf(a), tokenSetOf(b)

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	t0 := strings.Join(common, " ")
	t1 := strings.TrimSpace(t0 + " " + strings.Join(onlyA, " "))
	t2 := strings.TrimSpace(t0 + " " + strings.Join(onlyB, " "))

	return max(score(t0, t1), score(t0, t2), score(t1, t2))
}

func tokenSetOf(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func round(f float64) int {
	return int(math.Round(f))
}
