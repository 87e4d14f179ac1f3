// Package textmetrics computes behavioral metrics over generated text:
// n-gram drift and novelty, character entropy, and repetition detection.
// Tokenization is whitespace splitting throughout.
package textmetrics

import (
	"math"
	"strings"
)

const (
	// DefaultNgram is the n-gram size for drift and novelty.
	DefaultNgram = 3
	// DefaultRepetitionWindow is the token window for repetition detection.
	DefaultRepetitionWindow = 50
	// DefaultRepetitionThreshold is the Jaccard overlap above which two
	// adjacent windows count as repetition.
	DefaultRepetitionThreshold = 0.8
)

// DeltaIDrift is 1 minus the Jaccard similarity of the two texts' n-gram
// sets. When either side has no n-grams (text shorter than n tokens) the
// drift is maximal: 1.0.
func DeltaIDrift(a, b string, n int) float64 {
	setA := ngramSet(a, n)
	setB := ngramSet(b, n)

	if len(setA) == 0 || len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return 1.0 - float64(intersection)/float64(union)
}

// NgramNovelty is the unique n-gram count divided by the total n-gram
// count, 0 when the text has no n-grams.
func NgramNovelty(text string, n int) float64 {
	grams := ngrams(text, n)
	if len(grams) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(grams))
	for _, g := range grams {
		unique[g] = struct{}{}
	}

	return float64(len(unique)) / float64(len(grams))
}

// CharEntropy is the Shannon entropy in bits of the text's character
// frequency distribution, 0 for empty text.
func CharEntropy(text string) float64 {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}

	counts := make(map[rune]int, len(runes))
	for _, r := range runes {
		counts[r]++
	}

	total := float64(len(runes))
	h := 0.0
	for _, c := range counts {
		p := float64(c) / total
		h -= p * math.Log2(p)
	}

	return h
}

// DetectRepetition slides two adjacent non-overlapping token windows
// across the text and reports repetition when any pair's Jaccard overlap
// exceeds the threshold. Texts shorter than two windows never repeat.
func DetectRepetition(text string, window int, threshold float64) bool {
	tokens := strings.Fields(text)
	if window <= 0 || len(tokens) < window*2 {
		return false
	}

	for i := 0; i < len(tokens)-window*2; i++ {
		first := tokenSet(tokens[i : i+window])
		second := tokenSet(tokens[i+window : i+window*2])

		intersection := 0
		for t := range first {
			if _, ok := second[t]; ok {
				intersection++
			}
		}
		union := len(first) + len(second) - intersection
		if union == 0 {
			continue
		}

		if float64(intersection)/float64(union) > threshold {
			return true
		}
	}

	return false
}

func ngrams(text string, n int) []string {
	tokens := strings.Fields(text)
	if n <= 0 || len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}

func ngramSet(text string, n int) map[string]struct{} {
	grams := ngrams(text, n)
	set := make(map[string]struct{}, len(grams))
	for _, g := range grams {
		set[g] = struct{}{}
	}
	return set
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
