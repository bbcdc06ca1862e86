package cluster

import (
	"fmt"
	"math"
	"time"

	"sisrekomact/domain"
)

// Model is a fitted k-means model. Columns is the feature order the
// centroids were fit with; it must match the aggregated table exactly.
type Model struct {
	Columns   []string    `json:"columns"`
	Centroids [][]float64 `json:"centroids"`
	TrainedAt time.Time   `json:"trained_at"`
}

func (m *Model) K() int {
	return len(m.Centroids)
}

// Validate checks that every centroid has one value per column.
func (m *Model) Validate() error {
	if m == nil || len(m.Centroids) == 0 {
		return fmt.Errorf("%w: model has no centroids", domain.ErrModelUnavailable)
	}
	if len(m.Columns) == 0 {
		return fmt.Errorf("%w: model has no feature columns", domain.ErrModelUnavailable)
	}
	for i, c := range m.Centroids {
		if len(c) != len(m.Columns) {
			return fmt.Errorf("%w: centroid %d has %d values for %d columns",
				domain.ErrInconsistentSchema, i, len(c), len(m.Columns))
		}
	}
	return nil
}

// Mode selects how a recompute classifies the cohort.
type Mode string

const (
	// ModePredict assigns against the frozen centroids. Deterministic.
	ModePredict Mode = "predict"

	// ModeFitPredict refits centroids on the batch before assigning.
	// Cluster ids may permute between recomputes, so category labels
	// are not stable in this mode.
	ModeFitPredict Mode = "fit_predict"
)

// Classifier wraps the frozen model. It is safe for concurrent use: the
// model is never written after construction.
type Classifier struct {
	model *Model
	mode  Mode
	fit   FitConfig
}

func NewClassifier(model *Model, mode Mode, fit FitConfig) (*Classifier, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	if mode == "" {
		mode = ModePredict
	}
	if mode != ModePredict && mode != ModeFitPredict {
		return nil, fmt.Errorf("unknown classifier mode %q", mode)
	}
	if fit.K <= 0 {
		fit.K = model.K()
	}

	return &Classifier{model: model, mode: mode, fit: fit}, nil
}

func (c *Classifier) Mode() Mode {
	return c.mode
}

// Columns is the feature order the model expects.
func (c *Classifier) Columns() []string {
	out := make([]string, len(c.model.Columns))
	copy(out, c.model.Columns)
	return out
}

// Classify runs the configured mode over a normalized cohort.
func (c *Classifier) Classify(vectors [][]float64) ([]int, error) {
	if c.mode == ModeFitPredict {
		ids, _, err := c.FitPredict(vectors)
		return ids, err
	}
	return c.Predict(vectors)
}

// Predict assigns each vector to its nearest frozen centroid.
func (c *Classifier) Predict(vectors [][]float64) ([]int, error) {
	dim := len(c.model.Columns)

	out := make([]int, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("%w: vector %d has %d values, model expects %d",
				domain.ErrInconsistentSchema, i, len(v), dim)
		}
		out[i] = nearestCentroid(v, c.model.Centroids)
	}
	return out, nil
}

// FitPredict fits a fresh model on the batch and assigns against it. The
// frozen model is left untouched; the refit model is returned.
func (c *Classifier) FitPredict(vectors [][]float64) ([]int, *Model, error) {
	dim := len(c.model.Columns)
	for i, v := range vectors {
		if len(v) != dim {
			return nil, nil, fmt.Errorf("%w: vector %d has %d values, model expects %d",
				domain.ErrInconsistentSchema, i, len(v), dim)
		}
	}

	centroids, err := FitKMeans(vectors, c.fit)
	if err != nil {
		return nil, nil, err
	}

	refit := &Model{
		Columns:   c.Columns(),
		Centroids: centroids,
		TrainedAt: time.Now(),
	}

	out := make([]int, len(vectors))
	for i, v := range vectors {
		out[i] = nearestCentroid(v, centroids)
	}
	return out, refit, nil
}

// nearestCentroid returns the index of the closest centroid by Euclidean
// distance; ties go to the lowest index.
func nearestCentroid(v []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		d := squaredDistance(v, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
