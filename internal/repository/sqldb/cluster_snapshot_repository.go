package sqldb

import (
	"context"
	"fmt"
	"time"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const snapshotBatchSize = 500

// ClusterSnapshotRepository stores the cluster cache in student_clusters.
// Save replaces every row inside one transaction.
type ClusterSnapshotRepository struct {
	DB *gorm.DB
}

var _ cluster.SnapshotStore = (*ClusterSnapshotRepository)(nil)

func NewClusterSnapshotRepository(db *gorm.DB) *ClusterSnapshotRepository {
	return &ClusterSnapshotRepository{DB: db}
}

func (r *ClusterSnapshotRepository) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&domain.StudentCluster{})
}

func (r *ClusterSnapshotRepository) Load(ctx context.Context) (map[string]domain.CacheEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.StudentCluster
	if err := r.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query student_clusters: %w", err)
	}

	entries := make(map[string]domain.CacheEntry, len(rows))
	for _, row := range rows {
		fv, err := featureVectorFromJSON(row.FeatureVector)
		if err != nil {
			return nil, fmt.Errorf("student %s: %w", row.StudentID, err)
		}
		entries[row.StudentID] = domain.CacheEntry{
			StudentID:     row.StudentID,
			ClusterID:     row.ClusterID,
			FeatureVector: fv,
		}
	}

	return entries, nil
}

func (r *ClusterSnapshotRepository) Save(ctx context.Context, entries map[string]domain.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now()
	rows := make([]domain.StudentCluster, 0, len(entries))
	for id, e := range entries {
		fv := make(datatypes.JSONMap, len(e.FeatureVector))
		for k, v := range e.FeatureVector {
			fv[k] = v
		}
		rows = append(rows, domain.StudentCluster{
			StudentID:     id,
			ClusterID:     e.ClusterID,
			FeatureVector: fv,
			ComputedAt:    now,
		})
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.StudentCluster{}).Error; err != nil {
			return fmt.Errorf("failed to clear student_clusters: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, snapshotBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert student_clusters: %w", err)
		}
		return nil
	})
}

func featureVectorFromJSON(m datatypes.JSONMap) (domain.FeatureVector, error) {
	fv := make(domain.FeatureVector, len(m))
	for k, v := range m {
		f, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("feature %q is %T, want number", k, v)
		}
		fv[k] = f
	}
	return fv, nil
}
