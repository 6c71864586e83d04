package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/aulavirtual/aula-go-api/internal/dto"
	"github.com/aulavirtual/aula-go-api/internal/handler"
	"github.com/aulavirtual/aula-go-api/internal/models"
	"github.com/aulavirtual/aula-go-api/internal/service"
)

type mockGradingService struct {
	lastStudentID uint
	lastPayload   dto.SubmitSolutionRequest
	response      dto.SubmissionResponse
	err           error
}

func (m *mockGradingService) SubmitSolution(_ context.Context, studentID uint, payload dto.SubmitSolutionRequest) (dto.SubmissionResponse, error) {
	m.lastStudentID = studentID
	m.lastPayload = payload
	if m.err != nil {
		return dto.SubmissionResponse{}, m.err
	}
	return m.response, nil
}

type mockSubmissionService struct {
	latest dto.LatestSubmissionResponse
	err    error
}

func (m *mockSubmissionService) Get(context.Context, uint, uint, string) (dto.SubmissionResponse, error) {
	return dto.SubmissionResponse{}, m.err
}

func (m *mockSubmissionService) ListByActivity(context.Context, uint, uint, string) ([]dto.SubmissionResponse, error) {
	return nil, m.err
}

func (m *mockSubmissionService) LatestForStudent(context.Context, uint, uint) (dto.LatestSubmissionResponse, error) {
	if m.err != nil {
		return dto.LatestSubmissionResponse{}, m.err
	}
	return m.latest, nil
}

func (m *mockSubmissionService) GradeForStudent(context.Context, uint, uint) (dto.GradeResponse, error) {
	return dto.GradeResponse{}, m.err
}

func newSubmissionApp(grading *mockGradingService, submissions *mockSubmissionService, userID uint) *fiber.App {
	app := fiber.New()
	h := handler.NewSubmissionHandler(grading, submissions, zerolog.New(io.Discard))

	group := app.Group("/api/v1/submissions", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
			c.Locals("user_role", models.RoleStudent)
		}
		return c.Next()
	})
	h.Register(group)

	activities := app.Group("/api/v1/activities", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
			c.Locals("user_role", models.RoleStudent)
		}
		return c.Next()
	})
	h.RegisterActivityRoutes(activities)
	return app
}

func postSubmission(t *testing.T, app *fiber.App, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/submissions", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestSubmissionHandler_SubmitSuccess(t *testing.T) {
	grading := &mockGradingService{response: dto.SubmissionResponse{
		ID: 31, ActivityID: 7, StudentID: 10, Status: models.SubmissionStatusCompleted, Score: 90,
	}}
	app := newSubmissionApp(grading, &mockSubmissionService{}, 10)

	resp := postSubmission(t, app, `{"activity_id":7,"language":"python","source":"print(1)"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(10), grading.lastStudentID)
	require.Equal(t, uint(7), grading.lastPayload.ActivityID)

	var body struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.NoError(t, json.Unmarshal(raw, &body))
	require.True(t, body.Success)
	require.Equal(t, 90, body.Data.Score)
}

func TestSubmissionHandler_SubmitUnauthenticated(t *testing.T) {
	app := newSubmissionApp(&mockGradingService{}, &mockSubmissionService{}, 0)

	resp := postSubmission(t, app, `{"activity_id":7,"language":"python","source":"print(1)"}`)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSubmissionHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrActivityNotFound, fiber.StatusNotFound},
		{service.ErrActivityExpired, fiber.StatusConflict},
		{service.ErrCourseExpired, fiber.StatusConflict},
		{service.ErrUnsupportedLanguage, fiber.StatusBadRequest},
		{service.ErrNotCodeActivity, fiber.StatusBadRequest},
		{service.ErrGradingFailed, fiber.StatusBadGateway},
	}
	for _, tc := range cases {
		app := newSubmissionApp(&mockGradingService{err: tc.err}, &mockSubmissionService{}, 10)
		resp := postSubmission(t, app, `{"activity_id":7,"language":"python","source":"print(1)"}`)
		require.Equal(t, tc.status, resp.StatusCode, "error %v", tc.err)
	}
}

func TestSubmissionHandler_Latest(t *testing.T) {
	submissions := &mockSubmissionService{latest: dto.LatestSubmissionResponse{
		ID: 31, Language: "python", UserCode: "print(1)", Status: models.SubmissionStatusPartial, Score: 60,
	}}
	app := newSubmissionApp(&mockGradingService{}, submissions, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities/7/submissions/latest", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data dto.LatestSubmissionResponse `json:"data"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Equal(t, "print(1)", body.Data.UserCode)
}

func TestSubmissionHandler_LatestNotFound(t *testing.T) {
	submissions := &mockSubmissionService{err: service.ErrSubmissionNotFound}
	app := newSubmissionApp(&mockGradingService{}, submissions, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/activities/7/submissions/latest", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
