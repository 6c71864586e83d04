package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity types.
const (
	ActivityTypeTheory = "theory"
	ActivityTypeCode   = "code"
)

// Activity is an assignment inside a course. Code-type activities always
// carry exactly one ProgrammingSpec; theory-type activities never do.
type Activity struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CourseID    uint             `gorm:"not null" json:"course_id"`
	TeacherID   uint             `gorm:"not null" json:"teacher_id"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Description string           `gorm:"type:text" json:"description"`
	Type        string           `gorm:"size:20;not null" json:"type"`
	Deadline    *time.Time       `json:"deadline"`
	TotalPoints int              `gorm:"not null;default:100" json:"total_points"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Course      Course           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Spec        *ProgrammingSpec `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"spec,omitempty"`
}

// IsCode reports whether the activity expects graded code submissions.
func (a Activity) IsCode() bool {
	return a.Type == ActivityTypeCode
}

// TestCase is one (input, expected output) pair a submission is judged
// against. Stored as JSONB inside the ProgrammingSpec.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// ProgrammingSpec holds the execution parameters for a code activity.
type ProgrammingSpec struct {
	ID            uint                          `gorm:"primaryKey" json:"id"`
	ActivityID    uint                          `gorm:"not null;uniqueIndex" json:"activity_id"`
	Language      string                        `gorm:"size:50;not null" json:"language"`
	TimeLimitMs   int                           `gorm:"not null;default:1000" json:"time_limit_ms"`
	MemoryLimitKB int                           `gorm:"not null;default:262144" json:"memory_limit_kb"`
	TestCases     datatypes.JSONSlice[TestCase] `gorm:"not null" json:"test_cases"`
}

// CPUTimeLimitSeconds converts the millisecond limit into the judge's
// second-based unit. Falls back to 2 seconds when unset.
func (s ProgrammingSpec) CPUTimeLimitSeconds() float64 {
	if s.TimeLimitMs <= 0 {
		return 2
	}
	return float64(s.TimeLimitMs) / 1000
}
