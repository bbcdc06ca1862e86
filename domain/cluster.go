package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FeatureVector maps a course category to the student's average grade.
type FeatureVector map[string]float64

// Clone returns a copy that is safe to hand out of the cache.
func (v FeatureVector) Clone() FeatureVector {
	if v == nil {
		return nil
	}
	out := make(FeatureVector, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// CacheEntry is the memoized cluster assignment of one student.
// FeatureVector holds the pre-normalization averages, for display.
type CacheEntry struct {
	StudentID     string        `json:"-"`
	ClusterID     int           `json:"cluster_id"`
	FeatureVector FeatureVector `json:"feature_vector"`
}

// StudentCluster is the SQL row form of a CacheEntry (student_clusters table).
type StudentCluster struct {
	StudentID     string            `gorm:"column:npm_mahasiswa;primaryKey"`
	ClusterID     int               `gorm:"column:cluster_id;not null"`
	FeatureVector datatypes.JSONMap `gorm:"column:feature_vector"`
	ComputedAt    time.Time         `gorm:"column:computed_at"`
}

func (StudentCluster) TableName() string {
	return "student_clusters"
}

type Recommendation struct {
	StudentID     string        `json:"npm_mahasiswa"`
	StudentName   string        `json:"nama_mahasiswa,omitempty"`
	ClusterID     int           `json:"cluster"`
	Category      string        `json:"category"`
	FeatureVector FeatureVector `json:"rata_rata"`
	Activities    []Activity    `json:"recommended_activities"`
}
