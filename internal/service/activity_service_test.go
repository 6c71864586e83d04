package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/models"
)

type recordingActivityRepo struct {
	stubActivityRepo
	createdActivity *models.Activity
	updatedActivity *models.Activity
	deletedID       uint
}

func (r *recordingActivityRepo) Create(ctx context.Context, activity *models.Activity) error {
	activity.ID = 42
	r.createdActivity = activity
	return nil
}

func (r *recordingActivityRepo) Update(ctx context.Context, activity *models.Activity) error {
	r.updatedActivity = activity
	return nil
}

func (r *recordingActivityRepo) Delete(ctx context.Context, id uint) error {
	r.deletedID = id
	return nil
}

func newActivityService(t *testing.T, activities *recordingActivityRepo, courses *stubCourseRepo) ActivityService {
	t.Helper()
	return NewActivityService(activities, courses, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func codeActivityRequest() dto.ActivityRequest {
	return dto.ActivityRequest{
		CourseID:    3,
		Title:       "  FizzBuzz  ",
		Description: "<p>Print fizzbuzz</p><script>alert(1)</script>",
		Type:        models.ActivityTypeCode,
		Deadline:    "2026-12-01",
		TotalPoints: 100,
		Spec: &dto.ProgrammingSpecRequest{
			Language:    "Python",
			TimeLimitMs: 1500,
			TestCases:   []dto.TestCaseRequest{{Input: "3", Expected: "fizz"}},
		},
	}
}

func TestActivityCreateSanitizesAndNormalizes(t *testing.T) {
	activities := &recordingActivityRepo{}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3}})

	response, err := svc.Create(context.Background(), 2, codeActivityRequest())
	require.NoError(t, err)
	require.Equal(t, uint(42), response.ID)
	require.Equal(t, "FizzBuzz", response.Title)
	require.NotContains(t, response.Description, "<script>")
	require.Contains(t, response.Description, "<p>Print fizzbuzz</p>")

	require.NotNil(t, activities.createdActivity)
	require.Equal(t, uint(2), activities.createdActivity.TeacherID)
	require.Equal(t, "python", activities.createdActivity.Spec.Language)
	require.NotNil(t, activities.createdActivity.Deadline)
	require.Equal(t, time.December, activities.createdActivity.Deadline.Month())
}

func TestActivityCreateRejectsSpecMismatch(t *testing.T) {
	svc := newActivityService(t, &recordingActivityRepo{}, &stubCourseRepo{course: models.Course{ID: 3}})

	theory := codeActivityRequest()
	theory.Type = models.ActivityTypeTheory
	_, err := svc.Create(context.Background(), 2, theory)
	require.ErrorIs(t, err, ErrSpecMismatch)

	code := codeActivityRequest()
	code.Spec = nil
	_, err = svc.Create(context.Background(), 2, code)
	require.ErrorIs(t, err, ErrSpecMismatch)
}

func TestActivityCreateRejectsUnknownLanguage(t *testing.T) {
	svc := newActivityService(t, &recordingActivityRepo{}, &stubCourseRepo{course: models.Course{ID: 3}})

	payload := codeActivityRequest()
	payload.Spec.Language = "cobol"
	_, err := svc.Create(context.Background(), 2, payload)
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestActivityCreateRejectsEndedCourse(t *testing.T) {
	endDate := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	activities := &recordingActivityRepo{}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3, EndDate: &endDate}})
	svc.(*activityService).now = func() time.Time {
		return time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	}

	_, err := svc.Create(context.Background(), 2, codeActivityRequest())
	require.ErrorIs(t, err, ErrCourseExpired)
	require.Nil(t, activities.createdActivity)
}

func TestActivityCreateRejectsBadDeadline(t *testing.T) {
	svc := newActivityService(t, &recordingActivityRepo{}, &stubCourseRepo{course: models.Course{ID: 3}})

	payload := codeActivityRequest()
	payload.Deadline = "next tuesday"
	_, err := svc.Create(context.Background(), 2, payload)
	require.ErrorIs(t, err, ErrInvalidDeadline)
}

func TestActivityUpdateGuardsOwnership(t *testing.T) {
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: codeActivity(1)}}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3}})

	_, err := svc.Update(context.Background(), 99, 7, models.RoleTeacher, codeActivityRequest())
	require.ErrorIs(t, err, ErrNotActivityOwner)

	response, err := svc.Update(context.Background(), 2, 7, models.RoleTeacher, codeActivityRequest())
	require.NoError(t, err)
	require.Equal(t, uint(7), response.ID)
	require.Equal(t, uint(7), activities.updatedActivity.Spec.ActivityID)
}

func TestActivityDeleteGuardsOwnership(t *testing.T) {
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: codeActivity(1)}}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3}})

	require.ErrorIs(t, svc.Delete(context.Background(), 99, 7, models.RoleTeacher), ErrNotActivityOwner)
	require.NoError(t, svc.Delete(context.Background(), 2, 7, models.RoleTeacher))
	require.Equal(t, uint(7), activities.deletedID)
}

// expiredCodeActivity returns the fixture with a deadline that has passed
// relative to afterDeadline below.
func expiredCodeActivity() models.Activity {
	activity := codeActivity(1)
	deadline := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	activity.Deadline = &deadline
	return activity
}

func afterDeadline() time.Time {
	return time.Date(2026, time.March, 16, 4, 0, 0, 0, time.UTC)
}

func TestActivityUpdateRejectsPastDeadline(t *testing.T) {
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: expiredCodeActivity()}}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3}})
	svc.(*activityService).now = afterDeadline

	_, err := svc.Update(context.Background(), 2, 7, models.RoleTeacher, codeActivityRequest())
	require.ErrorIs(t, err, ErrActivityExpired)
	require.Nil(t, activities.updatedActivity)
}

func TestActivityDeleteRejectsPastDeadline(t *testing.T) {
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: expiredCodeActivity()}}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3}})
	svc.(*activityService).now = afterDeadline

	require.ErrorIs(t, svc.Delete(context.Background(), 2, 7, models.RoleTeacher), ErrActivityExpired)
	require.Zero(t, activities.deletedID)
}

func TestActivityDeleteRejectsEndedCourse(t *testing.T) {
	endDate := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: codeActivity(1)}}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3, EndDate: &endDate}})
	svc.(*activityService).now = afterDeadline

	require.ErrorIs(t, svc.Delete(context.Background(), 2, 7, models.RoleTeacher), ErrCourseExpired)
	require.Zero(t, activities.deletedID)
}

func TestActivityDeleteAdminBypassesExpiryGate(t *testing.T) {
	endDate := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: expiredCodeActivity()}}
	svc := newActivityService(t, activities, &stubCourseRepo{course: models.Course{ID: 3, EndDate: &endDate}})
	svc.(*activityService).now = afterDeadline

	require.NoError(t, svc.Delete(context.Background(), 2, 7, models.RoleAdmin))
	require.Equal(t, uint(7), activities.deletedID)
}

func TestActivityGetHidesTestCasesFromStudents(t *testing.T) {
	activities := &recordingActivityRepo{stubActivityRepo: stubActivityRepo{activity: codeActivity(2)}}
	svc := newActivityService(t, activities, &stubCourseRepo{})

	asStudent, err := svc.Get(context.Background(), 7, models.RoleStudent)
	require.NoError(t, err)
	require.NotNil(t, asStudent.Spec)
	require.Empty(t, asStudent.Spec.TestCases)

	asTeacher, err := svc.Get(context.Background(), 7, models.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, asTeacher.Spec.TestCases, 2)
}
