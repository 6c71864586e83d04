package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aulavirtual/aula-go-api/internal/models"
)

func newGradeDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Activity{}, &models.ProgrammingSpec{}, &models.Submission{}, &models.Grade{}))
	return db
}

func TestUpsertBestKeepsHigherScore(t *testing.T) {
	db := newGradeDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	first := models.Grade{StudentID: 5, ActivityID: 9, CourseID: 1, SubmissionID: 11, Score: 80, Verdict: models.GradeVerdictPartial}
	require.NoError(t, repo.UpsertBest(ctx, &first))

	// A lower candidate must not clobber the stored best.
	lower := models.Grade{StudentID: 5, ActivityID: 9, CourseID: 1, SubmissionID: 12, Score: 60, Verdict: models.GradeVerdictPartial}
	require.NoError(t, repo.UpsertBest(ctx, &lower))

	stored, err := repo.FindByStudentActivity(ctx, 5, 9)
	require.NoError(t, err)
	require.Equal(t, 80, stored.Score)
	require.Equal(t, uint(11), stored.SubmissionID)
}

func TestUpsertBestOverwritesWithHigherScore(t *testing.T) {
	db := newGradeDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBest(ctx, &models.Grade{StudentID: 5, ActivityID: 9, CourseID: 1, SubmissionID: 11, Score: 60, Verdict: models.GradeVerdictPartial}))
	require.NoError(t, repo.UpsertBest(ctx, &models.Grade{StudentID: 5, ActivityID: 9, CourseID: 1, SubmissionID: 12, Score: 90, Verdict: models.GradeVerdictPassed}))

	stored, err := repo.FindByStudentActivity(ctx, 5, 9)
	require.NoError(t, err)
	require.Equal(t, 90, stored.Score)
	require.Equal(t, models.GradeVerdictPassed, stored.Verdict)
	require.Equal(t, uint(12), stored.SubmissionID)
}

func TestUpsertBestIsIdempotent(t *testing.T) {
	db := newGradeDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		g := models.Grade{StudentID: 2, ActivityID: 4, CourseID: 1, SubmissionID: 7, Score: 50, Verdict: models.GradeVerdictPartial}
		require.NoError(t, repo.UpsertBest(ctx, &g))
	}

	var count int64
	require.NoError(t, db.Model(&models.Grade{}).Where("student_id = ? AND activity_id = ?", 2, 4).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestUpsertBestConvergesToMaximum(t *testing.T) {
	db := newGradeDB(t)
	repo := NewGradeRepository(db)
	ctx := context.Background()

	// Whatever order candidates arrive in, the stored score is the max.
	for _, score := range []int{30, 90, 10, 70, 90, 0} {
		g := models.Grade{StudentID: 1, ActivityID: 1, CourseID: 1, SubmissionID: uint(score + 100), Score: score, Verdict: models.GradeVerdict(score, 100)}
		require.NoError(t, repo.UpsertBest(ctx, &g))
	}

	stored, err := repo.FindByStudentActivity(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 90, stored.Score)
}

func TestFindByStudentActivityMissing(t *testing.T) {
	db := newGradeDB(t)
	repo := NewGradeRepository(db)

	_, err := repo.FindByStudentActivity(context.Background(), 99, 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
