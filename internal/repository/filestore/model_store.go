package filestore

import (
	"fmt"
	"os"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"

	"github.com/goccy/go-json"
)

// LoadModel reads a frozen k-means model exported as
// {"columns": [...], "centroids": [[...]], "trained_at": "..."}.
func LoadModel(path string) (*cluster.Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}

	var m cluster.Model
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrModelUnavailable, path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// SaveModel writes a model in the format LoadModel reads.
func SaveModel(path string, m *cluster.Model) error {
	if err := m.Validate(); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return writeFileAtomic(path, raw)
}
