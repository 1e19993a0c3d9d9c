// Package similarity implements the pairwise Jaccard comparison used to find
// near-duplicate documents. Texts are tokenized on whitespace runs into
// distinct-token sets; two documents match when intersection/union reaches
// the threshold.
package similarity

import (
	"math"
	"strings"
)

// MatchThreshold is the inclusive minimum score for a corpus entry to count
// as a match.
const MatchThreshold = 0.2

// Entry is one document in the comparison corpus.
type Entry struct {
	ID       uint
	Filename string
	Content  string
}

// Match is a corpus entry whose similarity reached the threshold.
// Score is rounded to two decimal places.
type Match struct {
	ID       uint    `json:"id,omitempty"`
	Filename string  `json:"filename"`
	Score    float64 `json:"similarity"`
}

// Tokenize splits text on whitespace runs into a set of distinct tokens.
// Duplicates collapse; an empty or all-whitespace text yields an empty set.
func Tokenize(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		set[tok] = struct{}{}
	}
	return set
}

// Score computes the Jaccard similarity of two texts: the size of the
// token-set intersection divided by the size of the union. Defined as 0 when
// the union is empty (both texts empty).
func Score(a, b string) float64 {
	setA := Tokenize(a)
	setB := Tokenize(b)

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Scan compares text against every corpus entry and returns the entries
// scoring at or above MatchThreshold, in corpus order. Entries below the
// threshold are dropped entirely, not ranked.
func Scan(text string, corpus []Entry) []Match {
	matches := []Match{}
	for _, entry := range corpus {
		score := Score(text, entry.Content)
		if score >= MatchThreshold {
			matches = append(matches, Match{
				ID:       entry.ID,
				Filename: entry.Filename,
				Score:    round2(score),
			})
		}
	}
	return matches
}

// round2 rounds to two decimal places for reporting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
