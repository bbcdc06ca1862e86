package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"

	"github.com/goccy/go-json"
)

// SnapshotStore keeps the cluster cache in a single JSON file. Save writes a
// temporary file in the same directory and renames it over the old one, so
// the file on disk is always a complete snapshot.
type SnapshotStore struct {
	path string
}

var _ cluster.SnapshotStore = (*SnapshotStore)(nil)

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// storedEntry accepts both the current layout and the older
// {"cluster", "rata_rata"} one.
type storedEntry struct {
	ClusterID     *int                 `json:"cluster_id,omitempty"`
	FeatureVector domain.FeatureVector `json:"feature_vector,omitempty"`

	LegacyCluster  *int                 `json:"cluster,omitempty"`
	LegacyAverages domain.FeatureVector `json:"rata_rata,omitempty"`
}

func (e storedEntry) entry(studentID string) (domain.CacheEntry, error) {
	out := domain.CacheEntry{StudentID: studentID}
	switch {
	case e.ClusterID != nil:
		out.ClusterID = *e.ClusterID
		out.FeatureVector = e.FeatureVector
	case e.LegacyCluster != nil:
		out.ClusterID = *e.LegacyCluster
		out.FeatureVector = e.LegacyAverages
	default:
		return domain.CacheEntry{}, fmt.Errorf("entry %s has no cluster id", studentID)
	}
	if out.FeatureVector == nil {
		out.FeatureVector = domain.FeatureVector{}
	}
	return out, nil
}

// Load returns an empty map when the file does not exist yet.
func (s *SnapshotStore) Load(ctx context.Context) (map[string]domain.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]domain.CacheEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var stored map[string]storedEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode cache file %s: %w", s.path, err)
	}

	entries := make(map[string]domain.CacheEntry, len(stored))
	for id, se := range stored {
		e, err := se.entry(id)
		if err != nil {
			return nil, fmt.Errorf("failed to decode cache file %s: %w", s.path, err)
		}
		entries[id] = e
	}
	return entries, nil
}

func (s *SnapshotStore) Save(ctx context.Context, entries map[string]domain.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	stored := make(map[string]storedEntry, len(entries))
	for id, e := range entries {
		clusterID := e.ClusterID
		fv := e.FeatureVector
		if fv == nil {
			fv = domain.FeatureVector{}
		}
		stored[id] = storedEntry{ClusterID: &clusterID, FeatureVector: fv}
	}

	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	return writeFileAtomic(s.path, raw)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
