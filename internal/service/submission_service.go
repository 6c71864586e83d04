package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/models"
	"github.com/aulavirtual/aula-go-api/internal/repository"
	"github.com/aulavirtual/aula-go-api/internal/template"
)

// ErrSubmissionNotFound indicates the submission does not exist or the
// caller may not see it.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrGradeNotFound indicates no grade has been recorded yet.
var ErrGradeNotFound = errors.New("grade not found")

// SubmissionService exposes the read paths over stored submissions and
// their reconciled grades.
type SubmissionService interface {
	Get(ctx context.Context, submissionID, viewerID uint, viewerRole string) (dto.SubmissionResponse, error)
	ListByActivity(ctx context.Context, activityID, viewerID uint, viewerRole string) ([]dto.SubmissionResponse, error)
	LatestForStudent(ctx context.Context, activityID, studentID uint) (dto.LatestSubmissionResponse, error)
	GradeForStudent(ctx context.Context, activityID, studentID uint) (dto.GradeResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	grades      repository.GradeRepository
	logger      zerolog.Logger
}

// NewSubmissionService constructs the submission read service.
func NewSubmissionService(submissions repository.SubmissionRepository, grades repository.GradeRepository, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		grades:      grades,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Get(ctx context.Context, submissionID, viewerID uint, viewerRole string) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	// Students only ever see their own submissions. Hiding existence
	// behind not-found avoids leaking submission ids.
	if viewerRole == models.RoleStudent && submission.StudentID != viewerID {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	return dto.NewSubmissionResponse(submission, submission.StudentID == viewerID), nil
}

func (s *submissionService) ListByActivity(ctx context.Context, activityID, viewerID uint, viewerRole string) ([]dto.SubmissionResponse, error) {
	filter := repository.SubmissionFilter{ActivityID: activityID}
	if viewerRole == models.RoleStudent {
		filter.StudentID = &viewerID
	}

	submissions, err := s.submissions.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, dto.NewSubmissionResponse(submission, submission.StudentID == viewerID))
	}
	return responses, nil
}

func (s *submissionService) LatestForStudent(ctx context.Context, activityID, studentID uint) (dto.LatestSubmissionResponse, error) {
	submission, err := s.submissions.LatestForStudent(ctx, activityID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LatestSubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.LatestSubmissionResponse{}, err
	}

	return dto.LatestSubmissionResponse{
		ID:        submission.ID,
		Language:  submission.Language,
		UserCode:  template.Strip(submission.Source, submission.Language),
		Status:    submission.Status,
		Score:     submission.Score,
		CreatedAt: submission.CreatedAt,
	}, nil
}

func (s *submissionService) GradeForStudent(ctx context.Context, activityID, studentID uint) (dto.GradeResponse, error) {
	grade, err := s.grades.FindByStudentActivity(ctx, studentID, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}
	return dto.NewGradeResponse(grade), nil
}
