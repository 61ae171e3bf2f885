package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector_UnitLength(t *testing.T) {
	result := NormalizeVector([]float32{3, 4})

	require.Len(t, result, 2)
	assert.InDelta(t, 0.6, float64(result[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(result[1]), 1e-6)

	var magnitude float64
	for _, v := range result {
		magnitude += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	result := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, result)
}

func TestNormalizeVector_Empty(t *testing.T) {
	assert.Empty(t, NormalizeVector(nil))
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	input := []float32{3, 4}
	NormalizeVector(input)
	assert.Equal(t, []float32{3, 4}, input)
}
