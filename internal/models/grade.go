package models

import "time"

// Grade verdicts.
const (
	GradeVerdictPassed  = "passed"
	GradeVerdictPartial = "partial"
	GradeVerdictFailed  = "failed"
)

// Grade is the durable best score a student holds for an activity. The
// unique index on (student_id, activity_id) backs the conditional upsert
// that keeps the score monotonically non-decreasing under concurrent
// submissions.
type Grade struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null" json:"submission_id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_grades_student_activity" json:"student_id"`
	ActivityID   uint      `gorm:"not null;uniqueIndex:idx_grades_student_activity" json:"activity_id"`
	CourseID     uint      `gorm:"not null" json:"course_id"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	Verdict      string    `gorm:"size:20;not null;default:failed" json:"verdict"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// GradeVerdict derives the verdict stored alongside a score.
func GradeVerdict(passedCases, totalCases int) string {
	switch {
	case totalCases > 0 && passedCases == totalCases:
		return GradeVerdictPassed
	case passedCases > 0:
		return GradeVerdictPartial
	default:
		return GradeVerdictFailed
	}
}
