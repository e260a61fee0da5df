package index

import "math"

// MaxMarginalRelevance selects up to k results from a larger candidate pool,
// balancing similarity to the query against similarity to results already
// selected. lambda 1 is pure relevance, 0 pure diversity. Candidates must
// carry their embeddings.
func MaxMarginalRelevance(query []float64, candidates []SearchResult, k int, lambda float64) []SearchResult {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	if k >= len(candidates) {
		out := make([]SearchResult, len(candidates))
		copy(out, candidates)
		return out
	}

	remaining := make([]SearchResult, len(candidates))
	copy(remaining, candidates)
	selected := make([]SearchResult, 0, k)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := math.Inf(-1)
		for i, cand := range remaining {
			relevance := CosineSimilarity(query, cand.Document.Embedding)
			redundancy := 0.0
			for _, sel := range selected {
				if sim := CosineSimilarity(cand.Document.Embedding, sel.Document.Embedding); sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*relevance - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}
