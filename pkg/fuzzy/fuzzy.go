// Package fuzzy resolves free-form narrator tokens onto closed
// vocabularies. Matching runs in strict precedence order: exact, synonym
// exact, containment, synonym containment, then edit-distance similarity
// against a threshold. The first rule to hit wins, so an exact match can
// never be displaced by a fuzzier one.
package fuzzy

import (
	"sort"
	"strings"

	"golang.org/x/text/width"
)

// Levenshtein returns the edit distance between two strings, counted in
// runes so CJK input is measured per character rather than per byte.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		if len(ra) > len(rb) {
			return len(ra)
		}
		return len(rb)
	}
	if a == b {
		return 0
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(rb); i++ {
		curr[0] = i
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min3(prev[j-1]+1, curr[j-1]+1, prev[j]+1)
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(ra)]
}

// Similarity maps edit distance into [0,1], with 1 meaning identical.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// Match finds the best vocabulary entry for an input token. Synonym map
// values must themselves be vocabulary members to count. Returns false
// when nothing clears the threshold. The options slice order is the
// containment tie-break and must be stable at the call site; synonym
// keys are walked in sorted order so the result never depends on map
// iteration.
func Match(input string, options []string, synonyms map[string]string, threshold float64) (string, bool) {
	normalized := Normalize(input)
	if normalized == "" {
		return "", false
	}

	// Exact match.
	for _, option := range options {
		if normalized == option {
			return option, true
		}
	}

	// Synonym exact match.
	if mapped, ok := synonyms[normalized]; ok && contains(options, mapped) {
		return mapped, true
	}

	// Containment, in option order.
	for _, option := range options {
		if strings.Contains(normalized, option) || strings.Contains(option, normalized) {
			return option, true
		}
	}

	// Containment through synonym keys, sorted key order.
	keys := sortedKeys(synonyms)
	for _, key := range keys {
		mapped := synonyms[key]
		if !contains(options, mapped) {
			continue
		}
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return mapped, true
		}
	}

	// Edit distance, best score over options and qualifying synonym keys.
	best := ""
	bestScore := 0.0
	for _, option := range options {
		if score := Similarity(normalized, option); score > bestScore {
			bestScore = score
			best = option
		}
	}
	for _, key := range keys {
		mapped := synonyms[key]
		if !contains(options, mapped) {
			continue
		}
		if score := Similarity(normalized, key); score > bestScore {
			bestScore = score
			best = mapped
		}
	}

	if best != "" && bestScore >= threshold {
		return best, true
	}
	return "", false
}

// Normalize trims whitespace and folds full-width ASCII so the narrator
// writing "ＮＰＣ１" or " 树林 " still resolves.
func Normalize(input string) string {
	return strings.TrimSpace(width.Narrow.String(input))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
