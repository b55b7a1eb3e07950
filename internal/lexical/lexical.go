// Package lexical implements the deterministic text-similarity primitives
// used by the fallback paths: keyword extraction, set Jaccard similarity,
// and fuzzy substring matching. No provider calls, no state.
package lexical

import (
	"strings"
	"unicode"
)

// stopwords are dropped during keyword extraction. Short common words carry
// no signal for issue similarity and inflate Jaccard denominators.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"when": {}, "then": {}, "from": {}, "into": {}, "but": {}, "not": {},
	"are": {}, "was": {}, "were": {}, "has": {}, "have": {}, "had": {},
	"can": {}, "will": {}, "would": {}, "should": {}, "could": {}, "does": {},
	"doesn": {}, "don": {}, "its": {}, "it's": {}, "you": {}, "your": {},
	"all": {}, "any": {}, "some": {}, "there": {}, "here": {}, "what": {},
	"which": {}, "where": {}, "while": {}, "after": {}, "before": {},
	"being": {}, "been": {}, "than": {}, "them": {}, "they": {}, "their": {},
}

// Keywords extracts the normalized keyword set from text: lowercase,
// punctuation stripped, stopwords and tokens shorter than 3 characters
// dropped.
func Keywords(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Jaccard computes |a ∩ b| / |a ∪ b| for two sets. Two empty sets score 0:
// with no tokens there is no evidence of similarity.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// OverlapCoefficient computes |a ∩ b| / min(|a|, |b|). Unlike Jaccard it
// does not punish length asymmetry: a terse report whose keywords all
// appear in a longer near-identical one scores 1.0.
func OverlapCoefficient(a, b map[string]struct{}) float64 {
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	if smaller == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	return float64(intersection) / float64(smaller)
}

// Set builds a set from a string slice, lowercased. Used for label overlap
// where tokens are already atomic.
func Set(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = struct{}{}
	}
	delete(set, "")
	return set
}

// FuzzyContains reports whether needle appears in haystack, either directly
// or with simple plural/suffix tolerance, case-insensitively. Good enough
// for matching label names against issue prose without a stemming library.
func FuzzyContains(haystack, needle string) bool {
	h := strings.ToLower(haystack)
	n := strings.ToLower(strings.TrimSpace(needle))
	if n == "" {
		return false
	}
	if strings.Contains(h, n) {
		return true
	}
	// Tolerate a trailing "s"/"es" on either side.
	for _, suffix := range []string{"s", "es"} {
		if trimmed, ok := strings.CutSuffix(n, suffix); ok && len(trimmed) >= 3 {
			if strings.Contains(h, trimmed) {
				return true
			}
		}
	}
	return false
}
