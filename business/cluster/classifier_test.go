//go:build !integration

package cluster

import (
	"errors"
	"reflect"
	"testing"

	"sisrekomact/domain"
)

func twoCentroidModel() *Model {
	return &Model{
		Columns:   []string{"Design", "Programming"},
		Centroids: [][]float64{{0, 1}, {1, 0}},
	}
}

func TestPredict_NearestCentroid(t *testing.T) {
	c, err := NewClassifier(twoCentroidModel(), ModePredict, FitConfig{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	ids, err := c.Predict([][]float64{{0, 1}, {1, 0}, {0.2, 0.9}})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if want := []int{0, 1, 0}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestPredict_TieGoesToLowestIndex(t *testing.T) {
	c, err := NewClassifier(twoCentroidModel(), ModePredict, FitConfig{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	ids, err := c.Predict([][]float64{{0.5, 0.5}})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if ids[0] != 0 {
		t.Fatalf("equidistant vector assigned to %d, want 0", ids[0])
	}
}

func TestPredict_DimensionMismatch(t *testing.T) {
	c, err := NewClassifier(twoCentroidModel(), ModePredict, FitConfig{})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	if _, err := c.Predict([][]float64{{1, 0, 0}}); !errors.Is(err, domain.ErrInconsistentSchema) {
		t.Fatalf("err = %v, want ErrInconsistentSchema", err)
	}
}

func TestPredict_DoesNotTouchModel(t *testing.T) {
	m := twoCentroidModel()
	c, err := NewClassifier(m, ModeFitPredict, FitConfig{K: 2, Seed: 7})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	if _, _, err := c.FitPredict([][]float64{{0.1, 0.1}, {0.2, 0.1}, {0.9, 0.9}, {0.8, 1}}); err != nil {
		t.Fatalf("FitPredict: %v", err)
	}

	if !reflect.DeepEqual(m.Centroids, [][]float64{{0, 1}, {1, 0}}) {
		t.Fatalf("frozen centroids changed: %v", m.Centroids)
	}
}

func TestFitPredict_SeparatesGroupsDeterministically(t *testing.T) {
	c, err := NewClassifier(twoCentroidModel(), ModeFitPredict, FitConfig{K: 2, Seed: 42})
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}

	points := [][]float64{{0, 0}, {0.1, 0}, {0, 0.1}, {1, 1}, {0.9, 1}, {1, 0.9}}

	first, refit, err := c.FitPredict(points)
	if err != nil {
		t.Fatalf("FitPredict: %v", err)
	}
	second, _, err := c.FitPredict(points)
	if err != nil {
		t.Fatalf("FitPredict: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed gave different assignments: %v vs %v", first, second)
	}
	if first[0] != first[1] || first[1] != first[2] || first[3] != first[4] || first[4] != first[5] || first[0] == first[3] {
		t.Fatalf("groups not separated: %v", first)
	}
	if refit.K() != 2 {
		t.Fatalf("refit K = %d, want 2", refit.K())
	}
}

func TestNewClassifier_RejectsBrokenModel(t *testing.T) {
	_, err := NewClassifier(&Model{Columns: []string{"a", "b"}, Centroids: [][]float64{{1}}}, ModePredict, FitConfig{})
	if !errors.Is(err, domain.ErrInconsistentSchema) {
		t.Fatalf("err = %v, want ErrInconsistentSchema", err)
	}

	_, err = NewClassifier(&Model{}, ModePredict, FitConfig{})
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestFitKMeans_TooFewPoints(t *testing.T) {
	if _, err := FitKMeans([][]float64{{1, 1}}, FitConfig{K: 3}); err == nil {
		t.Fatal("expected error for fewer points than k")
	}
}
