package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission lifecycle states. A submission is created in processing and
// moves to exactly one terminal state when grading finishes.
const (
	SubmissionStatusProcessing = "processing"
	SubmissionStatusCompleted  = "completed"
	SubmissionStatusPartial    = "partial"
	SubmissionStatusError      = "error"
)

// Verdict kinds a single test case execution can produce.
const (
	VerdictAccepted          = "accepted"
	VerdictWrongAnswer       = "wrong_answer"
	VerdictCompileError      = "compile_error"
	VerdictRuntimeError      = "runtime_error"
	VerdictTimeLimitExceeded = "time_limit_exceeded"
	VerdictPollingTimeout    = "polling_timeout"
	VerdictError             = "error"
)

// Submission is one student's attempt at a code activity. The source column
// stores the full scaffolded program sent to the judge.
type Submission struct {
	ID         uint                                `gorm:"primaryKey" json:"id"`
	ActivityID uint                                `gorm:"not null" json:"activity_id"`
	StudentID  uint                                `gorm:"not null" json:"student_id"`
	Language   string                              `gorm:"size:50" json:"language"`
	Source     string                              `gorm:"type:text;not null" json:"source"`
	Results    datatypes.JSONSlice[TestCaseResult] `json:"results"`
	Status     string                              `gorm:"size:20;not null;default:processing" json:"status"`
	Score      int                                 `gorm:"not null;default:0" json:"score"`
	CreatedAt  time.Time                           `json:"created_at"`
	UpdatedAt  time.Time                           `json:"updated_at"`
	Activity   Activity                            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student    User                                `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsTerminal reports whether grading has finished for the submission.
func (s Submission) IsTerminal() bool {
	return s.Status != SubmissionStatusProcessing
}

// TestCaseResult is the immutable outcome of one test case execution.
// Verdict selects which of the optional fields are meaningful: judge-run
// verdicts carry outputs and resource usage, polling_timeout and error
// carry only a message.
type TestCaseResult struct {
	Verdict       string `json:"verdict"`
	Input         string `json:"input,omitempty"`
	Expected      string `json:"expected,omitempty"`
	Actual        string `json:"actual,omitempty"`
	StatusText    string `json:"status,omitempty"`
	TimeSec       string `json:"time,omitempty"`
	MemoryKB      int    `json:"memory,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	CompileOutput string `json:"compile_output,omitempty"`
	Message       string `json:"message,omitempty"`
}

// Passed reports whether the result counts towards the score.
func (r TestCaseResult) Passed() bool {
	return r.Verdict == VerdictAccepted
}

// NewPollingTimeoutResult records a test case whose judge run never
// reached a terminal status within the polling budget.
func NewPollingTimeoutResult(tc TestCase) TestCaseResult {
	return TestCaseResult{
		Verdict:  VerdictPollingTimeout,
		Input:    tc.Input,
		Expected: tc.Expected,
		Message:  "judge polling timeout",
	}
}

// NewErrorResult records a submission-level failure as a single synthetic
// entry replacing the per-case results.
func NewErrorResult(message string) TestCaseResult {
	return TestCaseResult{
		Verdict: VerdictError,
		Message: message,
	}
}
