package dto

import (
	"time"

	"github.com/aulavirtual/aula-go-api/internal/models"
)

// SubmitSolutionRequest is the payload for grading a student's solution.
type SubmitSolutionRequest struct {
	ActivityID uint   `json:"activity_id" validate:"required,gt=0"`
	Language   string `json:"language" validate:"required"`
	Source     string `json:"source" validate:"required,min=1"`
}

// SubmissionResponse represents a graded (or failed) submission.
type SubmissionResponse struct {
	ID          uint                    `json:"id"`
	ActivityID  uint                    `json:"activity_id"`
	StudentID   uint                    `json:"student_id"`
	StudentName string                  `json:"student_name,omitempty"`
	Language    string                  `json:"language"`
	Source      string                  `json:"source,omitempty"`
	Status      string                  `json:"status"`
	Score       int                     `json:"score"`
	Results     []models.TestCaseResult `json:"results"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// NewSubmissionResponse builds a response DTO from a model. includeSource
// controls whether the full scaffolded program is exposed.
func NewSubmissionResponse(submission models.Submission, includeSource bool) SubmissionResponse {
	response := SubmissionResponse{
		ID:          submission.ID,
		ActivityID:  submission.ActivityID,
		StudentID:   submission.StudentID,
		StudentName: submission.Student.Name,
		Language:    submission.Language,
		Status:      submission.Status,
		Score:       submission.Score,
		Results:     submission.Results,
		CreatedAt:   submission.CreatedAt,
		UpdatedAt:   submission.UpdatedAt,
	}
	if includeSource {
		response.Source = submission.Source
	}
	return response
}

// LatestSubmissionResponse carries the editor state for a re-attempt: the
// previous code with scaffolding stripped off.
type LatestSubmissionResponse struct {
	ID        uint      `json:"id"`
	Language  string    `json:"language"`
	UserCode  string    `json:"user_code"`
	Status    string    `json:"status"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}
