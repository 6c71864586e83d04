package dto

import (
	"time"

	"github.com/aulavirtual/aula-go-api/internal/models"
)

// TestCaseRequest is one judge test case supplied by the teacher.
type TestCaseRequest struct {
	Input    string `json:"input"`
	Expected string `json:"expected" validate:"required"`
}

// ProgrammingSpecRequest configures execution for a code activity.
type ProgrammingSpecRequest struct {
	Language      string            `json:"language" validate:"required"`
	TimeLimitMs   int               `json:"time_limit_ms" validate:"omitempty,gt=0"`
	MemoryLimitKB int               `json:"memory_limit_kb" validate:"omitempty,gt=0"`
	TestCases     []TestCaseRequest `json:"test_cases" validate:"required,min=1,dive"`
}

// ActivityRequest creates or replaces an activity. Spec is required for
// code activities and forbidden for theory ones.
type ActivityRequest struct {
	CourseID    uint                    `json:"course_id" validate:"required,gt=0"`
	Title       string                  `json:"title" validate:"required,max=255"`
	Description string                  `json:"description"`
	Type        string                  `json:"type" validate:"required,oneof=theory code"`
	Deadline    string                  `json:"deadline" validate:"omitempty"`
	TotalPoints int                     `json:"total_points" validate:"required,gt=0"`
	Spec        *ProgrammingSpecRequest `json:"spec,omitempty"`
}

// ActivityResponse represents an activity to API consumers. Test cases are
// omitted unless the viewer may see them.
type ActivityResponse struct {
	ID          uint                  `json:"id"`
	CourseID    uint                  `json:"course_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Type        string                `json:"type"`
	Deadline    *time.Time            `json:"deadline"`
	TotalPoints int                   `json:"total_points"`
	Spec        *ProgrammingSpecView  `json:"spec,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ProgrammingSpecView is the spec as shown to a viewer.
type ProgrammingSpecView struct {
	Language      string            `json:"language"`
	TimeLimitMs   int               `json:"time_limit_ms"`
	MemoryLimitKB int               `json:"memory_limit_kb"`
	TestCases     []models.TestCase `json:"test_cases,omitempty"`
}

// NewActivityResponse builds the response DTO. includeTestCases hides the
// judge inputs from students.
func NewActivityResponse(activity models.Activity, includeTestCases bool) ActivityResponse {
	response := ActivityResponse{
		ID:          activity.ID,
		CourseID:    activity.CourseID,
		Title:       activity.Title,
		Description: activity.Description,
		Type:        activity.Type,
		Deadline:    activity.Deadline,
		TotalPoints: activity.TotalPoints,
		CreatedAt:   activity.CreatedAt,
		UpdatedAt:   activity.UpdatedAt,
	}

	if activity.Spec != nil {
		view := &ProgrammingSpecView{
			Language:      activity.Spec.Language,
			TimeLimitMs:   activity.Spec.TimeLimitMs,
			MemoryLimitKB: activity.Spec.MemoryLimitKB,
		}
		if includeTestCases {
			view.TestCases = activity.Spec.TestCases
		}
		response.Spec = view
	}

	return response
}
