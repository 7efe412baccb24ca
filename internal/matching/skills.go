package matching

import (
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// cases.Caser is stateful, so each goroutine borrows its own.
var folders = sync.Pool{
	New: func() interface{} {
		c := cases.Fold()
		return &c
	},
}

// canonicalTag trims, collapses inner whitespace and case-folds a tag.
func canonicalTag(tag string) string {
	f := folders.Get().(*cases.Caser)
	defer folders.Put(f)
	return strings.Join(strings.Fields(f.String(tag)), " ")
}

// skillSet canonicalises tags, dropping blanks and duplicates.
func skillSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if c := canonicalTag(t); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

type skillResult struct {
	score    int
	matching []string
	missing  []string
}

// scoreSkills returns round(|requested ∩ candidate| / |requested| × 100).
// An empty requested set is a vacuous match and scores 100.
func scoreSkills(requested map[string]struct{}, candidateTags []string) skillResult {
	res := skillResult{matching: []string{}, missing: []string{}}
	if len(requested) == 0 {
		res.score = 100
		return res
	}

	have := skillSet(candidateTags)
	for tag := range requested {
		if _, ok := have[tag]; ok {
			res.matching = append(res.matching, tag)
		} else {
			res.missing = append(res.missing, tag)
		}
	}
	sort.Strings(res.matching)
	sort.Strings(res.missing)

	res.score = clampScore(int(math.Round(float64(len(res.matching)) / float64(len(requested)) * 100)))
	return res
}
