package local

import (
	"context"
	"testing"

	"github.com/poiesic/scholarkb/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEmbedder_Deterministic(t *testing.T) {
	e := NewEmbedder(128)
	ctx := context.Background()

	v1, err := e.EmbedText(ctx, "supersession detection in research archives")
	require.NoError(t, err)
	v2, err := e.EmbedText(ctx, "supersession detection in research archives")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Len(t, v1, 128)
}

func TestLocalEmbedder_UnitLength(t *testing.T) {
	e := NewEmbedder(64)
	v, err := e.EmbedText(context.Background(), "vectors should be normalized")
	require.NoError(t, err)

	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sumSquares, 1e-4)
}

func TestLocalEmbedder_DifferentTexts(t *testing.T) {
	e := NewEmbedder(128)
	ctx := context.Background()

	v1, err := e.EmbedText(ctx, "quantum field theory")
	require.NoError(t, err)
	v2, err := e.EmbedText(ctx, "medieval trade routes")
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
}

func TestLocalEmbedder_EmptyInput(t *testing.T) {
	e := NewEmbedder(128)

	_, err := e.EmbedText(context.Background(), "   ")
	assert.ErrorIs(t, err, ai.ErrEmptyInput)

	_, err = e.EmbedTexts(context.Background(), []string{"ok", ""})
	assert.ErrorIs(t, err, ai.ErrEmptyInput)
}

func TestLocalEmbedder_Batch(t *testing.T) {
	e := NewEmbedder(32)
	vectors, err := e.EmbedTexts(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, v := range vectors {
		assert.Len(t, v, 32)
	}
}
