//go:build !integration

package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "cluster_cache.json")
	store := NewSnapshotStore(path)
	ctx := context.Background()

	empty, err := store.Load(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("Load on missing file = %v, %v", empty, err)
	}

	entries := map[string]domain.CacheEntry{
		"A": {ClusterID: 0, FeatureVector: domain.FeatureVector{"Design": 2, "Programming": 4}},
		"B": {ClusterID: 2, FeatureVector: domain.FeatureVector{"Design": 4}},
	}
	if err := store.Save(ctx, entries); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got["A"].ClusterID != 0 || got["B"].ClusterID != 2 || got["A"].StudentID != "A" {
		t.Fatalf("loaded = %+v", got)
	}
	if !reflect.DeepEqual(got["A"].FeatureVector, entries["A"].FeatureVector) {
		t.Fatalf("A vector = %v", got["A"].FeatureVector)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestSnapshotStore_SaveReplacesWholeMap(t *testing.T) {
	store := NewSnapshotStore(filepath.Join(t.TempDir(), "cache.json"))
	ctx := context.Background()

	if err := store.Save(ctx, map[string]domain.CacheEntry{"A": {ClusterID: 1}, "B": {ClusterID: 1}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Save(ctx, map[string]domain.CacheEntry{"C": {ClusterID: 0}}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want only C", len(got))
	}
}

func TestSnapshotStore_ReadsLegacyLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster_cache.json")
	legacy := `{"2110511001": {"cluster": 1, "rata_rata": {"Desain": 3.25, "Pemrograman": 2.0}}}`
	if err := os.WriteFile(path, []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewSnapshotStore(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	e := got["2110511001"]
	if e.ClusterID != 1 || e.FeatureVector["Desain"] != 3.25 {
		t.Fatalf("legacy entry = %+v", e)
	}
}

func TestSnapshotStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cluster_cache.json")
	if err := os.WriteFile(path, []byte(`{"A": {"feature_vector": {}}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewSnapshotStore(path).Load(context.Background()); err == nil {
		t.Fatal("expected error for entry without cluster id")
	}
}

func TestModelStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	m := &cluster.Model{
		Columns:   []string{"Design", "Programming"},
		Centroids: [][]float64{{0, 1}, {1, 0}, {0.5, 0.5}},
	}
	if err := SaveModel(path, m); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if loaded.K() != 3 || !reflect.DeepEqual(loaded.Columns, m.Columns) {
		t.Fatalf("loaded = %+v", loaded)
	}

	if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}
