package stub

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parley-labs/edumap-cli/internal/similarity"
)

func TestEncode_ShapeAndNormalization(t *testing.T) {
	svc := NewEmbeddingService(8)
	vectors, err := svc.Encode(context.Background(), []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	require.Len(t, vectors, 3)
	for _, v := range vectors {
		require.Len(t, v, 8)
		assert.InDelta(t, 1.0, similarity.Norm(v), 1e-9)
	}
}

func TestEncode_DeterministicPerText(t *testing.T) {
	svc := NewEmbeddingService(16)
	ctx := context.Background()

	a, err := svc.Encode(ctx, []string{"same text", "same text", "other text"})
	require.NoError(t, err)
	b, err := svc.Encode(ctx, []string{"same text"})
	require.NoError(t, err)

	assert.Equal(t, a[0], a[1], "identical texts map to identical vectors")
	assert.Equal(t, a[0], b[0], "vectors are stable across calls")
	assert.NotEqual(t, a[0], a[2], "different texts map to different vectors")
}

func TestEncode_EmptyInput(t *testing.T) {
	svc := NewEmbeddingService(0)
	vectors, err := svc.Encode(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestDimensionFallback(t *testing.T) {
	svc := NewEmbeddingService(-3)
	vectors, err := svc.Encode(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Len(t, vectors[0], DefaultDimension)
	assert.False(t, math.IsNaN(vectors[0][0]))
}

func TestIdentity(t *testing.T) {
	svc := NewEmbeddingService(4)
	assert.Equal(t, ModelName, svc.ModelName())
	assert.Equal(t, "cpu", svc.Device())
	assert.NoError(t, svc.Close())
}
