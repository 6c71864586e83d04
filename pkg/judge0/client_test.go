package judge0

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func noSleep(ctx context.Context, d time.Duration) error { return nil }

func newTestClient(t *testing.T, server *httptest.Server) Client {
	t.Helper()
	return New(Config{
		BaseURL: server.URL,
		Sleep:   noSleep,
	}, zerolog.Nop())
}

func TestCreateRunReturnsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/submissions", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		require.Equal(t, "false", r.URL.Query().Get("wait"))

		var req RunRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, 71, req.LanguageID)
		require.Equal(t, "5", req.Stdin)

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	token, err := client.CreateRun(context.Background(), RunRequest{
		SourceCode:     "print(input_data)",
		LanguageID:     71,
		Stdin:          "5",
		ExpectedOutput: "5",
		CPUTimeLimit:   1,
	})
	require.NoError(t, err)
	require.Equal(t, "tok-123", token)
}

func TestCreateRunRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-after-retry"})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	token, err := client.CreateRun(context.Background(), RunRequest{SourceCode: "x", LanguageID: 71})
	require.NoError(t, err)
	require.Equal(t, "tok-after-retry", token)
	require.Equal(t, 3, attempts)
}

func TestCreateRunFailsFastOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad language id", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.CreateRun(context.Background(), RunRequest{SourceCode: "x", LanguageID: 0})
	require.Error(t, err)
	require.Equal(t, 1, attempts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	require.False(t, apiErr.Retryable())
}

func TestCreateRunExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.CreateRun(context.Background(), RunRequest{SourceCode: "x", LanguageID: 71})
	require.Error(t, err)
	require.Equal(t, 3, attempts)
}

func TestFetchResultDecodesVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/submissions/tok-9", r.URL.Path)
		require.Equal(t, "stdout,stderr,status,message,compile_output,time,memory", r.URL.Query().Get("fields"))

		_ = json.NewEncoder(w).Encode(Result{
			Stdout: "5\n",
			Status: Status{ID: StatusAccepted, Description: "Accepted"},
			Time:   "0.012",
			Memory: 3040,
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.FetchResult(context.Background(), "tok-9")
	require.NoError(t, err)
	require.True(t, result.Status.Accepted())
	require.True(t, result.Status.Terminal())
	require.Equal(t, "5\n", result.Stdout)
	require.Equal(t, 3040, result.Memory)
}

func TestFetchResultNullFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"stdout":null,"stderr":null,"compile_output":null,"message":null,"status":{"id":2,"description":"Processing"},"time":null,"memory":null}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	result, err := client.FetchResult(context.Background(), "tok-1")
	require.NoError(t, err)
	require.False(t, result.Status.Terminal())
	require.Empty(t, result.Stdout)
}

func TestLanguageIDs(t *testing.T) {
	id, ok := LanguageID("python")
	require.True(t, ok)
	require.Equal(t, 71, id)

	_, ok = LanguageID("ruby")
	require.False(t, ok)

	require.Equal(t, []string{"java", "javascript", "php", "python"}, Languages())
}
