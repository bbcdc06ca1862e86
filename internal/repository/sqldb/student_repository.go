package sqldb

import (
	"context"
	"errors"
	"fmt"

	"sisrekomact/business/student"
	"sisrekomact/domain"

	"gorm.io/gorm"
)

type StudentRepository struct {
	DB *gorm.DB
}

var _ student.StudentRepository = (*StudentRepository)(nil)

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{DB: db}
}

func (r *StudentRepository) FindByID(ctx context.Context, studentID string) (domain.Student, error) {
	var s domain.Student

	err := r.DB.WithContext(ctx).Where("npm_mahasiswa = ?", studentID).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Student{}, fmt.Errorf("%w: student %s", domain.ErrNotFound, studentID)
		}
		return domain.Student{}, err
	}

	return s, nil
}
