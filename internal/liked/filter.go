package liked

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sfuzzy "github.com/sahilm/fuzzy"

	"github.com/mmcdole/movietracker/internal/domain"
)

// Suggestion is a ranked fuzzy match with metadata for highlighting
type Suggestion struct {
	Item           domain.LikedEntity
	MatchedIndexes []int // Character positions in Title that matched
	Score          int   // Lower is better
}

// Index implements sahilm/fuzzy.Source over liked titles
type Index struct {
	items       []domain.LikedEntity
	lowerTitles []string // Pre-computed lowercase titles
}

func NewIndex(items []domain.LikedEntity) *Index {
	lower := make([]string, len(items))
	for i, e := range items {
		lower[i] = strings.ToLower(e.Title)
	}
	return &Index{items: items, lowerTitles: lower}
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lowerTitles[i] }

// Len returns the number of items (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.items) }

// Rank returns every item that matches query as a subsequence or within a
// small edit distance, best first.
func (idx *Index) Rank(query string) []Suggestion {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || idx.Len() == 0 {
		return nil
	}

	seen := make(map[int]bool)
	var out []Suggestion

	for _, m := range sfuzzy.FindFrom(query, idx) {
		seen[m.Index] = true
		out = append(out, Suggestion{
			Item:           idx.items[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          matchScore(idx.lowerTitles[m.Index], query),
		})
	}

	// Typo tolerance: subsequence matching misses transposed or wrong letters
	maxDistance := len(query) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}
	for i, title := range idx.lowerTitles {
		if seen[i] {
			continue
		}
		if d := closestWordDistance(title, query); d <= maxDistance {
			out = append(out, Suggestion{Item: idx.items[i], Score: 100 + d})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score < out[j].Score
	})
	return out
}

// matchScore ranks a title against a lowercase query
// Exact=0, prefix=10, contains=50, else 100+distance
func matchScore(title, query string) int {
	if title == query {
		return 0
	}
	if strings.HasPrefix(title, query) {
		return 10
	}
	if strings.Contains(title, query) {
		return 50
	}
	return 100 + fuzzy.LevenshteinDistance(query, title)
}

// closestWordDistance is the smallest edit distance between query and either
// the whole title or any single word in it.
func closestWordDistance(title, query string) int {
	best := fuzzy.LevenshteinDistance(query, title)
	for _, w := range strings.Fields(title) {
		if d := fuzzy.LevenshteinDistance(query, w); d < best {
			best = d
		}
	}
	return best
}
