package search

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// NormalizeWear maps loosely typed input ("field tested", "fn") onto one of
// WearCategories. Input that matches nothing is returned unchanged.
func NormalizeWear(input string) string {
	if abbr, ok := wearAbbreviations[strings.ToLower(strings.TrimSpace(input))]; ok {
		return abbr
	}
	return normalize(input, WearCategories)
}

// NormalizePhase maps loosely typed input ("p2", "black pearl") onto one of
// Phases. Input that matches nothing is returned unchanged.
func NormalizePhase(input string) string {
	return normalize(input, Phases)
}

var wearAbbreviations = map[string]string{
	"fn": "Factory New",
	"mw": "Minimal Wear",
	"ft": "Field-Tested",
	"ww": "Well-Worn",
	"bs": "Battle-Scarred",
}

func normalize(input string, choices []string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	for _, c := range choices {
		if strings.EqualFold(c, trimmed) || strings.EqualFold(compact(c), compact(trimmed)) {
			return c
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(compact(trimmed), compactAll(choices))
	if len(ranks) == 0 {
		return input
	}
	sort.Sort(ranks)
	return choices[ranks[0].OriginalIndex]
}

// compact drops separators so "field tested" and "Field-Tested" compare equal.
func compact(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(s))
}

func compactAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = compact(s)
	}
	return out
}
