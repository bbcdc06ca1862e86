package sqldb

import (
	"context"
	"fmt"

	"sisrekomact/business/recommendation"
	"sisrekomact/business/student"
	"sisrekomact/domain"

	"gorm.io/gorm"
)

const yearPattern = "[0-9]{4}"

type ActivityRepository struct {
	DB *gorm.DB
}

var (
	_ recommendation.ActivityRepository = (*ActivityRepository)(nil)
	_ student.HistoryRepository         = (*ActivityRepository)(nil)
)

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

// FetchActivities returns distinct activities of a category, skipping names in
// excludeNames and names that carry a year.
func (r *ActivityRepository) FetchActivities(ctx context.Context, category string, excludeNames []string, limit int) ([]domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	q := r.DB.WithContext(ctx).
		Model(&domain.ActivityRecord{}).
		Distinct("nama_kegiatan", "kategori").
		Where("kategori = ?", category).
		Where(r.notMatching("nama_kegiatan"), yearPattern)
	if len(excludeNames) > 0 {
		q = q.Where("nama_kegiatan NOT IN ?", excludeNames)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var activities []domain.Activity
	if err := q.Order("nama_kegiatan").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}

	return activities, nil
}

func (r *ActivityRepository) FetchStudentHistory(ctx context.Context, studentID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var names []string
	err := r.DB.WithContext(ctx).
		Model(&domain.ActivityRecord{}).
		Where("npm_mahasiswa = ?", studentID).
		Distinct().
		Pluck("nama_kegiatan", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query activity history: %w", err)
	}

	return names, nil
}

func (r *ActivityRepository) FindHistory(ctx context.Context, studentID string) ([]domain.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.ActivityRecord
	err := r.DB.WithContext(ctx).
		Where("npm_mahasiswa = ?", studentID).
		Order("id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query activity history: %w", err)
	}

	return records, nil
}

// notMatching renders a negated regex match for the active dialect.
func (r *ActivityRepository) notMatching(column string) string {
	if r.DB.Dialector.Name() == "postgres" {
		return column + " !~ ?"
	}
	return column + " NOT REGEXP ?"
}
