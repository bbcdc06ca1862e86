package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// FitConfig controls batch refits in fit_predict mode.
type FitConfig struct {
	K             int
	MaxIterations int
	Tolerance     float64
	Seed          int64
}

const (
	defaultMaxIterations = 300
	defaultTolerance     = 1e-4
)

// FitKMeans runs k-means++ seeding followed by Lloyd iterations and returns
// the centroids. The same seed and input always give the same centroids.
func FitKMeans(points [][]float64, cfg FitConfig) ([][]float64, error) {
	if len(points) == 0 {
		return nil, errors.New("no data points provided")
	}
	if cfg.K <= 0 {
		return nil, errors.New("k must be positive")
	}
	if len(points) < cfg.K {
		return nil, fmt.Errorf("number of points (%d) is less than k (%d)", len(points), cfg.K)
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = defaultMaxIterations
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = defaultTolerance
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	centroids := seedPlusPlus(points, cfg.K, rng)
	dim := len(points[0])

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		sums := make([][]float64, cfg.K)
		counts := make([]int, cfg.K)
		for k := range sums {
			sums[k] = make([]float64, dim)
		}

		for _, p := range points {
			k := nearestCentroid(p, centroids)
			counts[k]++
			for j, v := range p {
				sums[k][j] += v
			}
		}

		shift := 0.0
		for k := range centroids {
			if counts[k] == 0 {
				// empty cluster keeps its previous centroid
				continue
			}
			next := make([]float64, dim)
			for j := range next {
				next[j] = sums[k][j] / float64(counts[k])
			}
			shift = math.Max(shift, math.Sqrt(squaredDistance(next, centroids[k])))
			centroids[k] = next
		}

		if shift <= cfg.Tolerance {
			break
		}
	}

	return centroids, nil
}

// seedPlusPlus picks initial centroids with probability proportional to the
// squared distance to the nearest centroid already chosen.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clonePoint(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := squaredDistance(p, centroids[nearestCentroid(p, centroids)])
			dist[i] = d
			total += d
		}

		idx := 0
		if total == 0 {
			// all remaining points coincide with a centroid
			idx = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			cumulative := 0.0
			for i, d := range dist {
				cumulative += d
				if cumulative >= target {
					idx = i
					break
				}
			}
		}
		centroids = append(centroids, clonePoint(points[idx]))
	}

	return centroids
}

func clonePoint(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
