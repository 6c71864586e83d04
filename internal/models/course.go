package models

import "time"

// Course states.
const (
	CourseStatusActive   = "active"
	CourseStatusInactive = "inactive"
	CourseStatusArchived = "archived"
)

// Course groups activities under a teacher. Course administration is a
// collaborator concern; the grading workflow only needs the end date to
// gate submissions.
type Course struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TeacherID   uint       `gorm:"not null" json:"teacher_id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;not null;default:active" json:"status"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
