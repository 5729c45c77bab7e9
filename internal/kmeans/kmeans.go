// Package kmeans implements Lloyd's algorithm with k-means++ seeding over
// dense float64 vectors. The result is fully determined by the seed: given
// the same vectors, k and seed, the labels, centroids and inertia are
// byte-identical across runs.
package kmeans

import (
	"fmt"
	"math/rand"

	"github.com/parley-labs/edumap-cli/internal/similarity"
)

// DefaultMaxIter bounds the Lloyd iterations when convergence is slow.
const DefaultMaxIter = 300

// Result holds the converged clustering.
type Result struct {
	// Labels assigns each input row a cluster id in [0, k).
	Labels []int

	// Centroids are the k mean vectors, indexed by cluster id.
	Centroids [][]float64

	// Inertia is the sum of squared distances of rows to their centroid.
	Inertia float64

	// Iterations is the number of Lloyd iterations performed.
	Iterations int
}

// Option configures a run.
type Option func(*config)

type config struct {
	maxIter int
}

// WithMaxIter overrides the iteration bound.
func WithMaxIter(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIter = n
		}
	}
}

// Run clusters the vectors into k groups. It requires 1 <= k <= len(vectors)
// and a non-empty input; the caller is expected to have validated both, but
// violations still fail here with an error rather than panicking.
func Run(vectors [][]float64, k int, seed int64, opts ...Option) (Result, error) {
	cfg := config{maxIter: DefaultMaxIter}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(vectors)
	if n == 0 {
		return Result{}, fmt.Errorf("kmeans: no vectors to cluster")
	}
	if k < 1 || k > n {
		return Result{}, fmt.Errorf("kmeans: k=%d out of range [1, %d]", k, n)
	}

	rng := rand.New(rand.NewSource(seed))
	centroids := seedPlusPlus(vectors, k, rng)
	labels := make([]int, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}

	var inertia float64
	iterations := 0
	for iter := 0; iter < cfg.maxIter; iter++ {
		iterations = iter + 1
		inertia = assign(vectors, centroids, labels)
		repairEmpty(vectors, centroids, labels)

		if equalLabels(labels, prev) {
			break
		}
		copy(prev, labels)
		recompute(vectors, centroids, labels, k)
	}

	// Final assignment so inertia matches the returned centroids.
	inertia = assign(vectors, centroids, labels)

	return Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iterations,
	}, nil
}

// seedPlusPlus picks initial centroids with the k-means++ scheme: the first
// uniformly, each subsequent one weighted by squared distance to the nearest
// chosen centroid. All randomness comes from rng.
func seedPlusPlus(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(vectors)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneVector(vectors[rng.Intn(n)]))

	dist := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, v := range vectors {
			best := similarity.SquaredDistance(v, centroids[0])
			for _, c := range centroids[1:] {
				if d := similarity.SquaredDistance(v, c); d < best {
					best = d
				}
			}
			dist[i] = best
			total += best
		}

		if total == 0 {
			// All remaining points coincide with chosen centroids; fall back
			// to uniform picks so we still end up with k centroids.
			centroids = append(centroids, cloneVector(vectors[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		var cum float64
		picked := n - 1
		for i, d := range dist {
			cum += d
			if cum >= target {
				picked = i
				break
			}
		}
		centroids = append(centroids, cloneVector(vectors[picked]))
	}
	return centroids
}

// assign labels every vector with its nearest centroid (lowest id on ties)
// and returns the resulting inertia.
func assign(vectors [][]float64, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, v := range vectors {
		best := 0
		bestDist := similarity.SquaredDistance(v, centroids[0])
		for c := 1; c < len(centroids); c++ {
			if d := similarity.SquaredDistance(v, centroids[c]); d < bestDist {
				bestDist = d
				best = c
			}
		}
		labels[i] = best
		inertia += bestDist
	}
	return inertia
}

// recompute replaces each centroid with the mean of its members.
// Empty clusters keep their previous centroid; repairEmpty handles them.
func recompute(vectors [][]float64, centroids [][]float64, labels []int, k int) {
	dim := len(vectors[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, v := range vectors {
		c := labels[i]
		counts[c]++
		for j, x := range v {
			sums[c][j] += x
		}
	}
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		for j := range sums[c] {
			sums[c][j] /= float64(counts[c])
		}
		centroids[c] = sums[c]
	}
}

// repairEmpty re-seeds any empty cluster with the point farthest from its
// assigned centroid (lowest index on ties), keeping the repair deterministic.
func repairEmpty(vectors [][]float64, centroids [][]float64, labels []int) {
	k := len(centroids)
	counts := make([]int, k)
	for _, l := range labels {
		counts[l]++
	}

	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			continue
		}
		farthest := -1
		farthestDist := -1.0
		for i, v := range vectors {
			// Only steal from clusters that can spare a member.
			if counts[labels[i]] <= 1 {
				continue
			}
			d := similarity.SquaredDistance(v, centroids[labels[i]])
			if d > farthestDist {
				farthestDist = d
				farthest = i
			}
		}
		if farthest < 0 {
			continue
		}
		counts[labels[farthest]]--
		labels[farthest] = c
		counts[c] = 1
		centroids[c] = cloneVector(vectors[farthest])
	}
}

func equalLabels(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
