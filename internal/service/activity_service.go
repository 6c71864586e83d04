package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/expiry"
	"github.com/aulavirtual/aula-go-api/internal/models"
	"github.com/aulavirtual/aula-go-api/internal/repository"
	"github.com/aulavirtual/aula-go-api/pkg/judge0"
)

// ErrCourseNotFound indicates the owning course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrNotActivityOwner indicates the caller did not author the activity.
var ErrNotActivityOwner = errors.New("activity belongs to another teacher")

// ErrSpecMismatch indicates the spec presence does not match the activity
// type: code activities require one, theory activities forbid it.
var ErrSpecMismatch = errors.New("programming spec does not match activity type")

// ErrInvalidDeadline indicates the deadline string could not be parsed.
var ErrInvalidDeadline = errors.New("invalid deadline")

// ActivityService exposes teacher-side activity management and the shared
// read paths.
type ActivityService interface {
	Create(ctx context.Context, teacherID uint, payload dto.ActivityRequest) (dto.ActivityResponse, error)
	Update(ctx context.Context, teacherID, activityID uint, role string, payload dto.ActivityRequest) (dto.ActivityResponse, error)
	Delete(ctx context.Context, teacherID, activityID uint, role string) error
	Get(ctx context.Context, activityID uint, viewerRole string) (dto.ActivityResponse, error)
	ListByCourse(ctx context.Context, courseID uint, viewerRole string) ([]dto.ActivityResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	courses    repository.CourseRepository
	validator  *validator.Validate
	policy     *bluemonday.Policy
	logger     zerolog.Logger
	now        func() time.Time
}

// NewActivityService constructs the activity service.
func NewActivityService(activities repository.ActivityRepository, courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br", "code", "pre")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &activityService{
		activities: activities,
		courses:    courses,
		validator:  validate,
		policy:     policy,
		logger:     logger.With().Str("component", "activity_service").Logger(),
		now:        time.Now,
	}
}

func (s *activityService) Create(ctx context.Context, teacherID uint, payload dto.ActivityRequest) (dto.ActivityResponse, error) {
	activity, err := s.buildActivity(ctx, teacherID, payload)
	if err != nil {
		return dto.ActivityResponse{}, err
	}

	if err := s.activities.Create(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().
		Uint("activity_id", activity.ID).
		Uint("course_id", activity.CourseID).
		Str("type", activity.Type).
		Msg("activity created")

	return dto.NewActivityResponse(activity, true), nil
}

func (s *activityService) Update(ctx context.Context, teacherID, activityID uint, role string, payload dto.ActivityRequest) (dto.ActivityResponse, error) {
	existing, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}
	if existing.TeacherID != teacherID {
		return dto.ActivityResponse{}, ErrNotActivityOwner
	}
	if err := s.guardMutable(ctx, existing, role); err != nil {
		return dto.ActivityResponse{}, err
	}

	activity, err := s.buildActivity(ctx, teacherID, payload)
	if err != nil {
		return dto.ActivityResponse{}, err
	}
	activity.ID = existing.ID
	activity.CreatedAt = existing.CreatedAt
	if activity.Spec != nil {
		activity.Spec.ActivityID = existing.ID
	}

	if err := s.activities.Update(ctx, &activity); err != nil {
		return dto.ActivityResponse{}, err
	}

	s.logger.Info().Uint("activity_id", activity.ID).Msg("activity updated")
	return dto.NewActivityResponse(activity, true), nil
}

func (s *activityService) Delete(ctx context.Context, teacherID, activityID uint, role string) error {
	existing, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActivityNotFound
		}
		return err
	}
	if existing.TeacherID != teacherID {
		return ErrNotActivityOwner
	}
	if err := s.guardMutable(ctx, existing, role); err != nil {
		return err
	}

	if err := s.activities.Delete(ctx, activityID); err != nil {
		return err
	}

	s.logger.Info().Uint("activity_id", activityID).Msg("activity deleted")
	return nil
}

func (s *activityService) Get(ctx context.Context, activityID uint, viewerRole string) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(activity, canSeeTestCases(viewerRole)), nil
}

func (s *activityService) ListByCourse(ctx context.Context, courseID uint, viewerRole string) ([]dto.ActivityResponse, error) {
	activities, err := s.activities.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	includeCases := canSeeTestCases(viewerRole)
	responses := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, dto.NewActivityResponse(activity, includeCases))
	}
	return responses, nil
}

// guardMutable rejects edits to an activity whose own deadline or owning
// course has already ended. Admins bypass the gate.
func (s *activityService) guardMutable(ctx context.Context, activity models.Activity, role string) error {
	if role == models.RoleAdmin {
		return nil
	}

	now := s.now()
	if expiry.IsExpired(activity.Deadline, now) {
		return ErrActivityExpired
	}

	course, err := s.courses.GetByID(ctx, activity.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if expiry.IsExpired(course.EndDate, now) {
		return ErrCourseExpired
	}

	return nil
}

// buildActivity validates the payload and assembles the model. The owning
// course must exist and must not have ended.
func (s *activityService) buildActivity(ctx context.Context, teacherID uint, payload dto.ActivityRequest) (models.Activity, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Activity{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Activity{}, ErrCourseNotFound
		}
		return models.Activity{}, err
	}
	if expiry.IsExpired(course.EndDate, s.now()) {
		return models.Activity{}, ErrCourseExpired
	}

	deadline, err := expiry.ParseDeadline(payload.Deadline)
	if err != nil {
		return models.Activity{}, ErrInvalidDeadline
	}

	activity := models.Activity{
		CourseID:    payload.CourseID,
		TeacherID:   teacherID,
		Title:       strings.TrimSpace(payload.Title),
		Description: s.policy.Sanitize(payload.Description),
		Type:        payload.Type,
		Deadline:    deadline,
		TotalPoints: payload.TotalPoints,
	}

	switch payload.Type {
	case models.ActivityTypeCode:
		if payload.Spec == nil {
			return models.Activity{}, ErrSpecMismatch
		}
		spec, err := buildSpec(*payload.Spec)
		if err != nil {
			return models.Activity{}, err
		}
		activity.Spec = spec
	case models.ActivityTypeTheory:
		if payload.Spec != nil {
			return models.Activity{}, ErrSpecMismatch
		}
	}

	return activity, nil
}

func buildSpec(payload dto.ProgrammingSpecRequest) (*models.ProgrammingSpec, error) {
	language := strings.ToLower(strings.TrimSpace(payload.Language))
	if _, ok := judge0.LanguageID(language); !ok {
		return nil, ErrUnsupportedLanguage
	}

	cases := make([]models.TestCase, 0, len(payload.TestCases))
	for _, testCase := range payload.TestCases {
		cases = append(cases, models.TestCase{Input: testCase.Input, Expected: testCase.Expected})
	}

	return &models.ProgrammingSpec{
		Language:      language,
		TimeLimitMs:   payload.TimeLimitMs,
		MemoryLimitKB: payload.MemoryLimitKB,
		TestCases:     cases,
	}, nil
}

func canSeeTestCases(role string) bool {
	return role == models.RoleTeacher || role == models.RoleAdmin
}
