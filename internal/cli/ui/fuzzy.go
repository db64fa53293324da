package ui

import (
	"sort"
	"strings"
)

// FuzzyOptions bounds fuzzy name matching
type FuzzyOptions struct {
	MaxDistance    int
	MaxSuggestions int
}

var defaultFuzzy = FuzzyOptions{MaxDistance: 3, MaxSuggestions: 3}

// FindSimilar returns the candidates closest to target by case-insensitive
// edit distance, nearest first.
func FindSimilar(target string, candidates []string, opts *FuzzyOptions) []string {
	o := defaultFuzzy
	if opts != nil {
		if opts.MaxDistance > 0 {
			o.MaxDistance = opts.MaxDistance
		}
		if opts.MaxSuggestions > 0 {
			o.MaxSuggestions = opts.MaxSuggestions
		}
	}

	type match struct {
		name string
		dist int
	}
	var matches []match
	lt := strings.ToLower(target)
	for _, c := range candidates {
		if d := EditDistance(lt, strings.ToLower(c)); d <= o.MaxDistance {
			matches = append(matches, match{c, d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dist < matches[j].dist })

	out := make([]string, 0, o.MaxSuggestions)
	for i := 0; i < len(matches) && i < o.MaxSuggestions; i++ {
		out = append(out, matches[i].name)
	}
	return out
}

// EditDistance is the Levenshtein distance between a and b over runes.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
