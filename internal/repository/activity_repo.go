package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/aulavirtual/aula-go-api/internal/models"
)

// ActivityRepository exposes persistence operations for activities and
// their programming specs. Create and Update group the activity and spec
// writes into one transaction so the code-type invariant cannot be
// half-applied.
type ActivityRepository interface {
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Activity, error)
	Create(ctx context.Context, activity *models.Activity) error
	Update(ctx context.Context, activity *models.Activity) error
	Delete(ctx context.Context, id uint) error
}

// NewActivityRepository constructs an activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

type activityRepository struct {
	db *gorm.DB
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	err := r.db.WithContext(ctx).
		Preload("Spec").
		First(&activity, id).Error
	if err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

func (r *activityRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Preload("Spec").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(activity).Error
	})
}

func (r *activityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(activity).Error; err != nil {
			return err
		}
		if activity.Spec != nil {
			activity.Spec.ActivityID = activity.ID
			var existing models.ProgrammingSpec
			err := tx.Where("activity_id = ?", activity.ID).First(&existing).Error
			switch {
			case err == nil:
				activity.Spec.ID = existing.ID
				return tx.Save(activity.Spec).Error
			case errors.Is(err, gorm.ErrRecordNotFound):
				return tx.Create(activity.Spec).Error
			default:
				return err
			}
		}
		// Switching type to theory drops any previous spec.
		return tx.Where("activity_id = ?", activity.ID).Delete(&models.ProgrammingSpec{}).Error
	})
}

func (r *activityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("activity_id = ?", id).Delete(&models.ProgrammingSpec{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Activity{}, id).Error
	})
}
