package utils

import (
	"math"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeName prepares a food name for similarity comparison: every run of
// whitespace is removed and the result lower-cased.
func NormalizeName(s string) string {
	return strings.ToLower(whitespaceRe.ReplaceAllString(s, ""))
}

// SequenceRatio is the longest-matching-blocks similarity over runes,
// in [0,1]: 2*M / (len(a)+len(b)) where M is the total length of the matching
// blocks found by repeatedly taking the longest common substring and
// recursing on both sides of it.
func SequenceRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingTotal(ra, rb)) / float64(total)
}

func matchingTotal(a, b []rune) int {
	size, ai, bi := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingTotal(a[:ai], b[:bi]) +
		matchingTotal(a[ai+size:], b[bi+size:])
}

// longestCommonBlock returns the length and start offsets of the longest
// common substring, preferring the earliest occurrence in a, then in b.
func longestCommonBlock(a, b []rune) (size, ai, bi int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	// prev[j] = length of common suffix of a[:i] and b[:j]
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return size, ai, bi
}

// Fixed keyword vocabulary used for the similarity bonus. 밥/면/국 and the
// cooking-method words appear in two lists on purpose: a name can match them
// as either, and ExtractKeywords dedupes anyway.
var (
	cookingMethodKeywords = []string{"볶음", "튀김", "구이", "찜", "탕", "찌개", "국", "밥", "면", "죽", "샐러드", "샌드위치"}
	ingredientKeywords    = []string{"김치", "된장", "고추장", "닭", "돼지", "소고기", "생선", "새우", "게", "오징어", "두부", "콩", "쌀", "밀가루"}
	dishTypeKeywords      = []string{"밥", "면", "국", "찌개", "탕", "볶음", "튀김", "구이", "찜", "죽", "샐러드", "샌드위치", "피자", "햄버거"}
)

// ExtractKeywords pulls the domain keywords contained in a food name, deduped,
// in vocabulary order.
func ExtractKeywords(foodName string) []string {
	lower := strings.ToLower(foodName)
	seen := make(map[string]bool)
	var keywords []string
	for _, group := range [][]string{cookingMethodKeywords, ingredientKeywords, dishTypeKeywords} {
		for _, kw := range group {
			if !seen[kw] && strings.Contains(lower, kw) {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}
	}
	return keywords
}

// SharedKeywordCount counts keywords appearing in both lists.
func SharedKeywordCount(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, kw := range a {
		set[kw] = true
	}
	n := 0
	for _, kw := range b {
		if set[kw] {
			n++
		}
	}
	return n
}

// Cosine computes cosine similarity between two vectors, returning 0 for
// empty or mismatched inputs.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
