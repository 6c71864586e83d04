package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aulavirtual/aula-go-api/internal/models"
)

// GradeRepository persists the durable best score per (student, activity).
type GradeRepository interface {
	// UpsertBest inserts the candidate grade, or overwrites the stored
	// one only when the candidate score is strictly greater. The
	// conditional update runs inside the database so concurrent
	// writers converge to the maximum score regardless of order.
	UpsertBest(ctx context.Context, grade *models.Grade) error
	FindByStudentActivity(ctx context.Context, studentID, activityID uint) (models.Grade, error)
}

// NewGradeRepository constructs a grade repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

type gradeRepository struct {
	db *gorm.DB
}

func (r *gradeRepository) UpsertBest(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "activity_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"score":         grade.Score,
			"verdict":       grade.Verdict,
			"submission_id": grade.SubmissionID,
			"updated_at":    time.Now().UTC(),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("grades.score < ?", grade.Score),
		}},
	}).Create(grade).Error
}

func (r *gradeRepository) FindByStudentActivity(ctx context.Context, studentID, activityID uint) (models.Grade, error) {
	var grade models.Grade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND activity_id = ?", studentID, activityID).
		First(&grade).Error
	if err != nil {
		return models.Grade{}, err
	}
	return grade, nil
}
