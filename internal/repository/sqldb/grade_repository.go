package sqldb

import (
	"context"
	"fmt"

	"sisrekomact/business/cluster"
	"sisrekomact/domain"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

var _ cluster.GradeRepository = (*GradeRepository)(nil)

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

// FetchAllGrades reads every KRS row of the cohort. Averaging happens in the
// aggregator so duplicate rows can be dropped first.
func (r *GradeRepository) FetchAllGrades(ctx context.Context) ([]domain.GradeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.GradeRecord
	err := r.DB.WithContext(ctx).
		Model(&domain.GradeRecord{}).
		Select("npm_mahasiswa, COALESCE(kode_matakuliah, '') AS kode_matakuliah, kategori_matakuliah, kode_nilai").
		Where("kode_nilai IS NOT NULL").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset_krs: %w", err)
	}

	return records, nil
}
