package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aulavirtual/aula-go-api/internal/models"
)

// CourseRepository exposes the course lookups the grading workflow needs.
// Course administration lives in a separate service.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (models.Course, error)
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

type courseRepository struct {
	db *gorm.DB
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}
	return course, nil
}
