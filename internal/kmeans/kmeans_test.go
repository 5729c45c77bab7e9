package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separatedBlobs() [][]float64 {
	return [][]float64{
		{0.0, 0.1}, {0.1, 0.0}, {-0.1, -0.1},
		{10.0, 10.1}, {10.1, 10.0}, {9.9, 9.9},
	}
}

func TestRun_SeparatedBlobs(t *testing.T) {
	vectors := separatedBlobs()
	result, err := Run(vectors, 2, 13)
	require.NoError(t, err)

	require.Len(t, result.Labels, len(vectors))
	require.Len(t, result.Centroids, 2)

	// The first three points share a label and the last three share the
	// other label.
	first := result.Labels[0]
	assert.Equal(t, first, result.Labels[1])
	assert.Equal(t, first, result.Labels[2])
	second := result.Labels[3]
	assert.NotEqual(t, first, second)
	assert.Equal(t, second, result.Labels[4])
	assert.Equal(t, second, result.Labels[5])

	// With tight blobs each centroid sits near its blob mean.
	assert.InDelta(t, 0.0, result.Centroids[first][0], 0.2)
	assert.InDelta(t, 10.0, result.Centroids[second][0], 0.2)

	assert.Greater(t, result.Iterations, 0)
	assert.Less(t, result.Inertia, 0.2)
}

func TestRun_DeterministicPerSeed(t *testing.T) {
	vectors := separatedBlobs()

	a, err := Run(vectors, 3, 42)
	require.NoError(t, err)
	b, err := Run(vectors, 3, 42)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestRun_KEqualsN(t *testing.T) {
	vectors := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	result, err := Run(vectors, 3, 7)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, label := range result.Labels {
		assert.False(t, seen[label], "each point gets its own cluster")
		seen[label] = true
	}
	assert.Equal(t, 0.0, result.Inertia)
}

func TestRun_DuplicatePoints(t *testing.T) {
	// All points coincide; k-means++ falls back to uniform picks and the
	// run still yields k centroids with zero inertia.
	vectors := [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}}
	result, err := Run(vectors, 2, 99)
	require.NoError(t, err)
	require.Len(t, result.Centroids, 2)
	assert.Equal(t, 0.0, result.Inertia)
}

func TestRun_InvalidArguments(t *testing.T) {
	vectors := [][]float64{{1, 0}, {0, 1}}

	_, err := Run(nil, 1, 13)
	assert.Error(t, err)

	_, err = Run(vectors, 0, 13)
	assert.Error(t, err)

	_, err = Run(vectors, 3, 13)
	assert.Error(t, err)
}

func TestRun_LabelsInRange(t *testing.T) {
	vectors := separatedBlobs()
	result, err := Run(vectors, 4, 5)
	require.NoError(t, err)
	for _, label := range result.Labels {
		assert.GreaterOrEqual(t, label, 0)
		assert.Less(t, label, 4)
	}
}

func TestRun_WithMaxIter(t *testing.T) {
	vectors := separatedBlobs()
	result, err := Run(vectors, 2, 13, WithMaxIter(1))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
	// Inertia still matches the returned centroids after the final
	// assignment pass.
	var check float64
	for i, v := range vectors {
		c := result.Centroids[result.Labels[i]]
		for j := range v {
			d := v[j] - c[j]
			check += d * d
		}
	}
	assert.InDelta(t, check, result.Inertia, 1e-9)
}
