package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/events"
	"github.com/aulavirtual/aula-go-api/internal/expiry"
	"github.com/aulavirtual/aula-go-api/internal/models"
	"github.com/aulavirtual/aula-go-api/internal/observability"
	"github.com/aulavirtual/aula-go-api/internal/repository"
	"github.com/aulavirtual/aula-go-api/internal/template"
	"github.com/aulavirtual/aula-go-api/pkg/judge0"
	"github.com/aulavirtual/aula-go-api/pkg/poll"
)

// ErrActivityNotFound indicates the activity does not exist.
var ErrActivityNotFound = errors.New("activity not found")

// ErrNotCodeActivity indicates the activity does not accept code submissions.
var ErrNotCodeActivity = errors.New("activity is not a programming activity")

// ErrUnsupportedLanguage indicates the requested language has no judge id.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ErrCourseExpired indicates the owning course's end date has passed.
var ErrCourseExpired = errors.New("course has ended")

// ErrActivityExpired indicates the activity deadline has passed.
var ErrActivityExpired = errors.New("activity deadline has passed")

// ErrNoTestCases indicates the programming spec carries no test cases.
var ErrNoTestCases = errors.New("activity has no test cases")

// ErrGradingFailed indicates grading aborted; the submission was persisted
// in error state with score zero.
var ErrGradingFailed = errors.New("grading failed")

// GradingConfig tunes the judge polling protocol.
type GradingConfig struct {
	// PollInterval is the fixed wait between verdict polls. Default 1s.
	PollInterval time.Duration
	// PollAttempts bounds polls per test case. Default 10, giving a
	// roughly ten second wall-clock ceiling per case.
	PollAttempts int
	// Sleep overrides the inter-poll wait; tests inject a no-op.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (c GradingConfig) withDefaults() GradingConfig {
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = 10
	}
	return c
}

// GradingService drives a submission through its test cases against the
// external judge and reconciles the resulting score.
type GradingService interface {
	SubmitSolution(ctx context.Context, studentID uint, payload dto.SubmitSolutionRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	activities  repository.ActivityRepository
	courses     repository.CourseRepository
	submissions repository.SubmissionRepository
	grades      repository.GradeRepository
	judge       judge0.Client
	publisher   events.Publisher
	validator   *validator.Validate
	logger      zerolog.Logger
	poller      poll.Poller
	now         func() time.Time
}

// NewGradingService constructs the grading orchestrator. publisher may be
// nil; grading then proceeds without emitting events.
func NewGradingService(
	activities repository.ActivityRepository,
	courses repository.CourseRepository,
	submissions repository.SubmissionRepository,
	grades repository.GradeRepository,
	judge judge0.Client,
	publisher events.Publisher,
	validate *validator.Validate,
	logger zerolog.Logger,
	cfg GradingConfig,
) GradingService {
	cfg = cfg.withDefaults()
	poller := poll.New(cfg.PollInterval, cfg.PollAttempts)
	if cfg.Sleep != nil {
		poller.Sleep = cfg.Sleep
	}
	return &gradingService{
		activities:  activities,
		courses:     courses,
		submissions: submissions,
		grades:      grades,
		judge:       judge,
		publisher:   publisher,
		validator:   validate,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		poller:      poller,
		now:         time.Now,
	}
}

func (s *gradingService) SubmitSolution(ctx context.Context, studentID uint, payload dto.SubmitSolutionRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/aulavirtual/aula-go-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.submit")
	span.SetAttributes(
		attribute.Int64("grading.activity_id", int64(payload.ActivityID)),
		attribute.Int64("grading.student_id", int64(studentID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	language := strings.ToLower(strings.TrimSpace(payload.Language))
	languageID, ok := judge0.LanguageID(language)
	if !ok {
		return dto.SubmissionResponse{}, ErrUnsupportedLanguage
	}

	activity, err := s.activities.GetByID(ctx, payload.ActivityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrActivityNotFound
		}
		return dto.SubmissionResponse{}, err
	}
	if !activity.IsCode() || activity.Spec == nil {
		return dto.SubmissionResponse{}, ErrNotCodeActivity
	}
	if len(activity.Spec.TestCases) == 0 {
		return dto.SubmissionResponse{}, ErrNoTestCases
	}

	// Both gates run before any judge interaction or state mutation.
	now := s.now()
	course, err := s.courses.GetByID(ctx, activity.CourseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}
	if expiry.IsExpired(course.EndDate, now) {
		return dto.SubmissionResponse{}, ErrCourseExpired
	}
	if expiry.IsExpired(activity.Deadline, now) {
		return dto.SubmissionResponse{}, ErrActivityExpired
	}

	fullSource := template.Apply(payload.Source, language)

	submission := models.Submission{
		ActivityID: activity.ID,
		StudentID:  studentID,
		Language:   language,
		Source:     fullSource,
		Status:     models.SubmissionStatusProcessing,
		Results:    nil,
		Score:      0,
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	start := s.now()
	results, passedCases, runErr := s.runTestCases(ctx, fullSource, languageID, *activity.Spec)
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, "grading_aborted")
		s.markError(ctx, &submission, runErr)
		observability.Gradings().WithLabelValues(models.SubmissionStatusError).Inc()
		return dto.SubmissionResponse{}, ErrGradingFailed
	}

	totalCases := len(activity.Spec.TestCases)
	score := computeScore(passedCases, totalCases, activity.TotalPoints)
	finalStatus := models.SubmissionStatusPartial
	if passedCases == totalCases {
		finalStatus = models.SubmissionStatusCompleted
	}

	submission.Results = results
	submission.Status = finalStatus
	submission.Score = score
	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		s.markError(ctx, &submission, err)
		observability.Gradings().WithLabelValues(models.SubmissionStatusError).Inc()
		return dto.SubmissionResponse{}, ErrGradingFailed
	}

	grade := models.Grade{
		SubmissionID: submission.ID,
		StudentID:    studentID,
		ActivityID:   activity.ID,
		CourseID:     activity.CourseID,
		Score:        score,
		Verdict:      models.GradeVerdict(passedCases, totalCases),
	}
	if err := s.grades.UpsertBest(ctx, &grade); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_reconcile_failed")
		s.markError(ctx, &submission, err)
		observability.Gradings().WithLabelValues(models.SubmissionStatusError).Inc()
		return dto.SubmissionResponse{}, ErrGradingFailed
	}

	duration := s.now().Sub(start)
	observability.Gradings().WithLabelValues(finalStatus).Inc()
	observability.GradingDuration().WithLabelValues(language).Observe(duration.Seconds())
	span.SetAttributes(
		attribute.Int("grading.passed_cases", passedCases),
		attribute.Int("grading.total_cases", totalCases),
		attribute.Int("grading.score", score),
		attribute.String("grading.status", finalStatus),
	)

	s.publishGraded(ctx, submission, activity.CourseID)

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("activity_id", activity.ID).
		Str("status", finalStatus).
		Int("score", score).
		Int("passed", passedCases).
		Int("total", totalCases).
		Dur("duration", duration).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission, true), nil
}

// runTestCases executes every test case sequentially, preserving order in
// the result list. A polling timeout degrades to a synthetic entry and the
// remaining cases still run; any transport or judge-API failure aborts the
// whole submission.
func (s *gradingService) runTestCases(ctx context.Context, source string, languageID int, spec models.ProgrammingSpec) ([]models.TestCaseResult, int, error) {
	results := make([]models.TestCaseResult, 0, len(spec.TestCases))
	passed := 0

	for index, testCase := range spec.TestCases {
		token, err := s.judge.CreateRun(ctx, judge0.RunRequest{
			SourceCode:     source,
			LanguageID:     languageID,
			Stdin:          testCase.Input,
			ExpectedOutput: testCase.Expected,
			CPUTimeLimit:   spec.CPUTimeLimitSeconds(),
		})
		if err != nil {
			return nil, 0, err
		}

		verdict, err := poll.Until(ctx, s.poller, func(ctx context.Context) (judge0.Result, bool, error) {
			result, err := s.judge.FetchResult(ctx, token)
			if err != nil {
				return judge0.Result{}, false, err
			}
			return result, result.Status.Terminal(), nil
		})
		if errors.Is(err, poll.ErrTimeout) {
			s.logger.Warn().
				Int("test_case", index).
				Str("token", token).
				Msg("judge never returned a terminal status")
			observability.JudgePollTimeouts().Inc()
			observability.JudgeRuns().WithLabelValues(models.VerdictPollingTimeout).Inc()
			results = append(results, models.NewPollingTimeoutResult(testCase))
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		result := newTestCaseResult(testCase, verdict)
		if result.Passed() {
			passed++
		}
		observability.JudgeRuns().WithLabelValues(result.Verdict).Inc()
		results = append(results, result)
	}

	return results, passed, nil
}

func (s *gradingService) markError(ctx context.Context, submission *models.Submission, cause error) {
	s.logger.Error().Err(cause).Uint("submission_id", submission.ID).Msg("grading aborted")

	submission.Status = models.SubmissionStatusError
	submission.Score = 0
	// A generic diagnostic only; raw errors must not reach students.
	submission.Results = []models.TestCaseResult{models.NewErrorResult("internal error during evaluation")}

	if err := s.submissions.Update(ctx, submission); err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submission.ID).Msg("failed to persist error state")
	}
}

func (s *gradingService) publishGraded(ctx context.Context, submission models.Submission, courseID uint) {
	if s.publisher == nil {
		return
	}
	event := events.GradedEvent{
		SubmissionID: submission.ID,
		ActivityID:   submission.ActivityID,
		CourseID:     courseID,
		StudentID:    submission.StudentID,
		Status:       submission.Status,
		Score:        submission.Score,
		GradedAt:     s.now().UTC(),
	}
	if err := s.publisher.PublishGraded(ctx, event); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to publish grading event")
	}
}

// computeScore maps the pass tally onto the activity's point scale,
// rounding half away from zero.
func computeScore(passedCases, totalCases, totalPoints int) int {
	if totalCases == 0 {
		return 0
	}
	return int(math.Round(float64(passedCases) / float64(totalCases) * float64(totalPoints)))
}

// newTestCaseResult folds a judge verdict into the closed result set.
func newTestCaseResult(testCase models.TestCase, result judge0.Result) models.TestCaseResult {
	return models.TestCaseResult{
		Verdict:       verdictFor(result.Status),
		Input:         testCase.Input,
		Expected:      testCase.Expected,
		Actual:        result.Stdout,
		StatusText:    result.Status.Description,
		TimeSec:       result.Time,
		MemoryKB:      result.Memory,
		Stderr:        result.Stderr,
		CompileOutput: result.CompileOutput,
	}
}

func verdictFor(status judge0.Status) string {
	switch status.ID {
	case judge0.StatusAccepted:
		return models.VerdictAccepted
	case judge0.StatusWrongAnswer:
		return models.VerdictWrongAnswer
	case judge0.StatusTimeLimitExceeded:
		return models.VerdictTimeLimitExceeded
	case judge0.StatusCompilationError:
		return models.VerdictCompileError
	default:
		return models.VerdictRuntimeError
	}
}
