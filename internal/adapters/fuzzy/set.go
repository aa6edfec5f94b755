// Package fuzzy ranks question strings by n-gram cosine similarity with a
// Levenshtein re-score, in the manner of the fuzzyset family of libraries.
package fuzzy

import (
	"cmp"
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"helpbot/internal/ports"
)

// Defaults used by NewRanker
const (
	DefaultMinScore      = 0.33
	DefaultGramSizeLower = 2
	DefaultGramSizeUpper = 3
	rescoreLimit         = 50
)

var nonWordPattern = regexp.MustCompile(`[^a-zA-Z0-9\x{00C0}-\x{00FF}\x{0621}-\x{064A}, ]+`)

type gramEntry struct {
	index int
	count int
}

type item struct {
	norm       float64
	normalized string
}

// Set is an indexed corpus of strings. It is not safe for concurrent Add.
type Set struct {
	gramLower, gramUpper int
	minScore             float64
	levenshtein          bool

	exact       map[string]string
	items       map[int][]item
	matchByGram map[int]map[string][]gramEntry
}

func newSet(r *Ranker) *Set {
	s := &Set{
		gramLower:   r.GramSizeLower,
		gramUpper:   r.GramSizeUpper,
		minScore:    r.MinScore,
		levenshtein: r.UseLevenshtein,
		exact:       make(map[string]string),
		items:       make(map[int][]item),
		matchByGram: make(map[int]map[string][]gramEntry),
	}
	for size := s.gramLower; size <= s.gramUpper; size++ {
		s.matchByGram[size] = make(map[string][]gramEntry)
	}
	return s
}

// Add indexes value. A value whose lowercase form is already present is
// ignored and Add returns false.
func (s *Set) Add(value string) bool {
	normalized := strings.ToLower(value)
	if _, ok := s.exact[normalized]; ok {
		return false
	}
	for size := s.gramLower; size <= s.gramUpper; size++ {
		index := len(s.items[size])
		counts := gramCounts(normalized, size)
		var sumSquares float64
		for gram, n := range counts {
			sumSquares += float64(n * n)
			s.matchByGram[size][gram] = append(s.matchByGram[size][gram], gramEntry{index: index, count: n})
		}
		s.items[size] = append(s.items[size], item{norm: math.Sqrt(sumSquares), normalized: normalized})
	}
	s.exact[normalized] = value
	return true
}

// Get returns the candidates matching query, best first
func (s *Set) Get(query string) []ports.Ranked {
	normalized := strings.ToLower(query)
	if value, ok := s.exact[normalized]; ok {
		return []ports.Ranked{{Label: value, Score: 1}}
	}
	for size := s.gramUpper; size >= s.gramLower; size-- {
		if results := s.get(normalized, size); len(results) > 0 {
			return results
		}
	}
	return nil
}

func (s *Set) get(normalized string, size int) []ports.Ranked {
	counts := gramCounts(normalized, size)
	items := s.items[size]

	var sumSquares float64
	dots := make(map[int]int)
	for gram, n := range counts {
		sumSquares += float64(n * n)
		for _, e := range s.matchByGram[size][gram] {
			dots[e.index] += n * e.count
		}
	}
	if len(dots) == 0 {
		return nil
	}
	queryNorm := math.Sqrt(sumSquares)

	type scored struct {
		score      float64
		normalized string
	}
	results := make([]scored, 0, len(dots))
	for index, dot := range dots {
		it := items[index]
		results = append(results, scored{
			score:      float64(dot) / (queryNorm * it.norm),
			normalized: it.normalized,
		})
	}
	byScore := func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.normalized, b.normalized)
	}
	slices.SortFunc(results, byScore)

	if s.levenshtein {
		results = results[:min(len(results), rescoreLimit)]
		for i := range results {
			results[i].score = similarity(results[i].normalized, normalized)
		}
		slices.SortFunc(results, byScore)
	}

	out := make([]ports.Ranked, 0, len(results))
	for _, r := range results {
		if r.score >= s.minScore {
			out = append(out, ports.Ranked{Label: s.exact[r.normalized], Score: r.score})
		}
	}
	return out
}

// similarity is 1 - edit distance over the longer length
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func gramCounts(value string, size int) map[string]int {
	counts := make(map[string]int)
	for _, g := range grams(value, size) {
		counts[g]++
	}
	return counts
}

func grams(value string, size int) []string {
	simplified := []rune("-" + nonWordPattern.ReplaceAllString(strings.ToLower(value), "") + "-")
	for len(simplified) < size {
		simplified = append(simplified, '-')
	}
	out := make([]string, 0, len(simplified)-size+1)
	for i := 0; i+size <= len(simplified); i++ {
		out = append(out, string(simplified[i:i+size]))
	}
	return out
}
