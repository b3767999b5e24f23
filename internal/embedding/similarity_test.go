package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine_Identical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.7071}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-6)
}

func TestCosine_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, Cosine(a, b), 1e-6)
}

func TestCosine_Opposite(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{-1, 0}
	assert.InDelta(t, -1.0, Cosine(a, b), 1e-6)
}

func TestCosine_MismatchedOrZero(t *testing.T) {
	assert.Equal(t, 0.0, Cosine([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 0}))
}

func TestBestMatch_PicksHighest(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{0, 1},
		{0.6, 0.8},
		{1, 0},
	}
	idx, score := BestMatch(query, candidates)
	assert.Equal(t, 2, idx)
	assert.InDelta(t, 1.0, score, 1e-6)
}

func TestBestMatch_TieKeepsFirst(t *testing.T) {
	query := []float32{1, 0}
	candidates := [][]float32{
		{2, 0},
		{1, 0},
		{3, 0},
	}
	idx, _ := BestMatch(query, candidates)
	assert.Equal(t, 0, idx)
}

func TestBestMatch_Empty(t *testing.T) {
	idx, score := BestMatch([]float32{1, 0}, nil)
	assert.Equal(t, -1, idx)
	assert.Equal(t, 0.0, score)
}
