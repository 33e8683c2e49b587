package analyzer

import (
	"sort"
	"strings"

	"github.com/weibolens/weibolens/internal/domain/model"
)

// AggregateNgrams counts sliding windows of n tokens over each post's
// token sequence independently (windows never span posts), then ranks by
// count descending with ties broken by first appearance in the corpus.
// topK truncates the ranked output only; all n-grams are counted first.
func AggregateNgrams(sequences [][]string, n, topK int) []model.NgramResult {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, tokens := range sequences {
		for i := 0; i+n <= len(tokens); i++ {
			gram := strings.Join(tokens[i:i+n], " ")
			if _, ok := counts[gram]; !ok {
				firstSeen[gram] = order
				order++
			}
			counts[gram]++
		}
	}

	results := make([]model.NgramResult, 0, len(counts))
	for gram, count := range counts {
		results = append(results, model.NgramResult{Ngram: gram, Count: count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return firstSeen[results[i].Ngram] < firstSeen[results[j].Ngram]
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
