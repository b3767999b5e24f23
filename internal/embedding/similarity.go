package embedding

import "math"

// Cosine returns the cosine similarity between two vectors, in [-1, 1].
// Mismatched lengths or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// BestMatch returns the index and score of the candidate most similar to the
// query. Ties resolve to the first occurrence. Returns -1 when there are no
// candidates.
func BestMatch(query []float32, candidates [][]float32) (int, float64) {
	best := -1
	bestScore := math.Inf(-1)
	for i, c := range candidates {
		if score := Cosine(query, c); score > bestScore {
			best = i
			bestScore = score
		}
	}
	if best == -1 {
		return -1, 0
	}
	return best, bestScore
}
