package dto

import "github.com/aulavirtual/aula-go-api/internal/models"

// GradeResponse is the durable best score for a (student, activity) pair.
type GradeResponse struct {
	ID           uint   `json:"id"`
	StudentID    uint   `json:"student_id"`
	ActivityID   uint   `json:"activity_id"`
	CourseID     uint   `json:"course_id"`
	SubmissionID uint   `json:"submission_id"`
	Score        int    `json:"score"`
	Verdict      string `json:"verdict"`
}

// NewGradeResponse converts a Grade model into its DTO.
func NewGradeResponse(grade models.Grade) GradeResponse {
	return GradeResponse{
		ID:           grade.ID,
		StudentID:    grade.StudentID,
		ActivityID:   grade.ActivityID,
		CourseID:     grade.CourseID,
		SubmissionID: grade.SubmissionID,
		Score:        grade.Score,
		Verdict:      grade.Verdict,
	}
}

// RankingEntry is one leaderboard row with its assigned position.
type RankingEntry struct {
	Position            int    `json:"position"`
	UserID              uint   `json:"user_id"`
	UserName            string `json:"user_name"`
	Email               string `json:"email"`
	TotalScore          int64  `json:"total_score"`
	ActivitiesCompleted int64  `json:"activities_completed"`
}

// LanguageResponse describes one supported submission language.
type LanguageResponse struct {
	Name    string `json:"name"`
	JudgeID int    `json:"judge_id"`
	Starter string `json:"starter"`
}
