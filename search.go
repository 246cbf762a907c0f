package docdelve

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// MinSearchScore is the floor below which a fuzzy match is discarded
// (spec §4.3). Scores come from github.com/sahilm/fuzzy and are compared
// against it as-is; on that matcher's scale the value 9 does not mark a
// particular query shape (such as a two-character query or a
// word-start match).
const MinSearchScore = 9

// SearchResult is one ranked match: the full path of the matched item
// and its accumulated fuzzy score.
type SearchResult struct {
	Path  ChestPath
	Score int

	id int
}

// segmentQuery splits a query on any run of '.' or ':', discarding
// empty segments (spec §4.3 "Segmentation").
func segmentQuery(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return r == '.' || r == ':'
	})
}

// scoredRange is one entry of the interval-scored search space: ids in
// [start, end) carry score, the accumulated prior fuzzy score for
// everything matched so far on the path that led here.
type scoredRange struct {
	start, end, score int
}

// insertScoredRange folds addition into existing, a disjoint list of
// scoredRanges, keeping the list disjoint and taking the maximum score
// wherever ranges overlap (spec §4.3: "overlapping ranges resolve so
// the maximum accumulated score wins for each id"). This is the
// sweep-line equivalent of the ordered interval map the spec calls
// for; a real balanced map buys ordered iteration for free, but the
// accumulation semantics are what matters, and a sweep over boundary
// points gives the same disjoint, max-scored partition.
func insertScoredRange(existing []scoredRange, addition scoredRange) []scoredRange {
	if addition.start >= addition.end {
		return existing
	}

	bounds := make([]int, 0, 2*len(existing)+2)
	bounds = append(bounds, addition.start, addition.end)
	for _, r := range existing {
		bounds = append(bounds, r.start, r.end)
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	result := make([]scoredRange, 0, len(bounds))
	for i := 0; i+1 < len(bounds); i++ {
		lo, hi := bounds[i], bounds[i+1]
		if lo >= hi {
			continue
		}
		best := -1
		if addition.start <= lo && hi <= addition.end && addition.score > best {
			best = addition.score
		}
		for _, r := range existing {
			if r.start <= lo && hi <= r.end && r.score > best {
				best = r.score
			}
		}
		if best < 0 {
			continue
		}
		if n := len(result); n > 0 && result[n-1].end == lo && result[n-1].score == best {
			result[n-1].end = hi
		} else {
			result = append(result, scoredRange{lo, hi, best})
		}
	}
	return result
}

// fuzzyScore matches query against candidate and returns the match
// score, or ok=false if there is no match at all.
func fuzzyScore(query, candidate string) (int, bool) {
	matches := fuzzy.Find(query, []string{candidate})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}

// Search runs a multi-segment fuzzy search rooted at start (spec
// §4.3). An empty start ChestPath means "rooted at the content root".
// Results are ranked by descending score, tie-broken by path order,
// deduplicated, and truncated to resultCount.
func (ic *IndexedChestContents) Search(query string, start ChestPath, resultCount int) []SearchResult {
	segments := segmentQuery(query)
	if len(segments) == 0 {
		return nil
	}

	var space []scoredRange
	if len(start) == 0 {
		space = []scoredRange{{0, len(ic.Items), 0}}
	} else {
		for _, id := range ic.IDsForPath(start) {
			entry := ic.Items[id]
			if entry.DescendantRange[0] < entry.DescendantRange[1] {
				space = insertScoredRange(space, scoredRange{entry.DescendantRange[0], entry.DescendantRange[1], 0})
			}
		}
		if len(space) == 0 {
			return nil
		}
	}

	for _, segment := range segments[:len(segments)-1] {
		var next []scoredRange
		for _, r := range space {
			for id := r.start; id < r.end; id++ {
				entry := &ic.Items[id]
				score, ok := fuzzyScore(segment, entry.name())
				if !ok || score < MinSearchScore {
					continue
				}
				childRange := entry.DescendantRange
				if childRange[0] >= childRange[1] {
					continue
				}
				next = insertScoredRange(next, scoredRange{childRange[0], childRange[1], r.score + score})
			}
		}
		space = next
	}

	last := segments[len(segments)-1]
	var results []SearchResult
	for _, r := range space {
		for id := r.start; id < r.end; id++ {
			entry := &ic.Items[id]
			score, ok := fuzzyScore(last, entry.name())
			if !ok || score < MinSearchScore {
				continue
			}
			results = append(results, SearchResult{Path: ic.PathForID(id), Score: r.score + score, id: id})
		}
	}

	slices.SortFunc(results, func(a, b SearchResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return compareChestPath(a.Path, b.Path)
	})
	results = slices.CompactFunc(results, func(a, b SearchResult) bool {
		return a.id == b.id && a.Score == b.Score && a.Path.Equal(b.Path)
	})

	if resultCount > 0 && len(results) > resultCount {
		results = results[:resultCount]
	}
	return results
}

// PageForPath resolves a URL back to the ChestPath of the item that
// carries it (spec §4.3 "URL → path reverse lookup"). url may carry a
// trailing `#anchor` and a leading `/`, both stripped before matching.
// Candidates are sorted deepest first, and same-depth ties by the
// reverse of compareChestPath's ranking order, so they resolve to the
// lexicographically largest path rather than the smallest. When hint is
// non-nil, the first candidate (in that order) whose path is a prefix
// of hint wins; otherwise the first candidate wins, which is the
// deepest match.
func (ic *IndexedChestContents) PageForPath(url string, hint ChestPath) (ChestPath, bool) {
	if anchor := strings.IndexByte(url, '#'); anchor >= 0 {
		url = url[:anchor]
	}
	url = strings.TrimPrefix(url, "/")

	var candidates []ChestPath
	for id := range ic.Items {
		if ic.Items[id].Item.URL == url {
			candidates = append(candidates, ic.PathForID(id))
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}

	slices.SortFunc(candidates, func(a, b ChestPath) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return compareChestPath(b, a)
	})

	if hint != nil {
		for _, candidate := range candidates {
			if candidate.IsPrefixOf(hint) {
				return candidate, true
			}
		}
	}
	return candidates[0], true
}
