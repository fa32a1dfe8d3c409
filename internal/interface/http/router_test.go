package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/math-agent/internal/domain/solver"
	"github.com/yanqian/math-agent/internal/infra/config"
	apperrors "github.com/yanqian/math-agent/pkg/errors"
)

func TestRouter_AskSuccess(t *testing.T) {
	resp := solver.AskResponse{
		Question:    "What is 2 + 2?",
		Source:      "Knowledge Base",
		Steps:       []string{"Step 1: add the terms"},
		FinalAnswer: "4",
		Enhanced:    true,
		Method:      solver.MethodPrimary,
		Confidence:  0.8,
	}
	svc := &stubSolver{
		askFn: func(ctx context.Context, req solver.AskRequest) (solver.AskResponse, error) {
			require.Equal(t, "What is 2 + 2?", req.Question)
			return resp, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/ask", `{"question":"What is 2 + 2?"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got solver.AskResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_AskInvalidJSON(t *testing.T) {
	svc := &stubSolver{}

	recorder := performRequest(http.MethodPost, "/ask", `{"question":123}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_AskGuardrailRejection(t *testing.T) {
	svc := &stubSolver{
		askFn: func(ctx context.Context, req solver.AskRequest) (solver.AskResponse, error) {
			return solver.AskResponse{}, apperrors.Wrap("invalid_input", "only mathematics-related queries are allowed, try phrasing the math problem more explicitly", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/ask", `{"question":"tell me a story"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_input", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "mathematics-related")
}

func TestRouter_FeedbackSuccess(t *testing.T) {
	svc := &stubSolver{
		feedbackFn: func(ctx context.Context, req solver.FeedbackRequest) (solver.FeedbackResponse, error) {
			require.Equal(t, "q", req.Question)
			require.NotNil(t, req.Rating)
			require.Equal(t, 4, *req.Rating)
			return solver.FeedbackResponse{
				Status:             "ok",
				Enhanced:           true,
				ImprovementApplied: true,
				MethodUsed:         solver.MethodPrimaryImproved,
				ImprovedSteps:      []string{"Step 1: revised"},
			}, nil
		},
	}

	recorder := performRequest(http.MethodPost, "/feedback", `{"question":"q","answer":"a","rating":4}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got solver.FeedbackResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.True(t, got.ImprovementApplied)
	require.Equal(t, solver.MethodPrimaryImproved, got.MethodUsed)
}

func TestRouter_ImproveSolutionUnavailable(t *testing.T) {
	svc := &stubSolver{
		improveFn: func(ctx context.Context, req solver.ImproveRequest) (solver.ImproveResponse, error) {
			return solver.ImproveResponse{}, apperrors.Wrap("enhanced_unavailable", "solution improvement requires the enhanced solver", nil)
		},
	}

	recorder := performRequest(http.MethodPost, "/improve-solution", `{"question":"q","original_solution":"orig","feedback":"fb"}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "enhanced_unavailable", errBody["error"]["code"])
}

func TestRouter_LearningMetrics(t *testing.T) {
	svc := &stubSolver{
		metricsFn: func(ctx context.Context) (solver.LearningStats, error) {
			return solver.LearningStats{
				TotalImprovements: 2,
				AverageRating:     3.5,
				LearningActive:    true,
				MethodsUsed:       map[string]int64{"primary_improved": 2},
			}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/learning-metrics", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got solver.LearningStats
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, int64(2), got.TotalImprovements)
	require.Equal(t, 3.5, got.AverageRating)
	require.True(t, got.LearningActive)
}

func TestRouter_EnhancedStatus(t *testing.T) {
	svc := &stubSolver{status: solver.Status{Enhanced: true, BufferedExamples: 5}}

	recorder := performRequest(http.MethodGet, "/dspy-status", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, true, got["enhanced_available"])
	require.Equal(t, 5.0, got["buffered_examples"])
	require.NotEmpty(t, got["message"])
}

func TestRouter_Health(t *testing.T) {
	svc := &stubSolver{status: solver.Status{Enhanced: false}}

	recorder := performRequest(http.MethodGet, "/health", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "healthy", got["status"])
	components, ok := got["components"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "disabled", components["enhanced_learning"])
}

func TestRouter_Root(t *testing.T) {
	svc := &stubSolver{status: solver.Status{Enhanced: true}}

	recorder := performRequest(http.MethodGet, "/", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Math Agent API", got["message"])
	require.Equal(t, "running", got["status"])
	require.Equal(t, true, got["enhanced_enabled"])
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc solver.Service) *http.Server {
	t.Helper()
	handler := NewHandler(svc, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubSolver struct {
	askFn      func(ctx context.Context, req solver.AskRequest) (solver.AskResponse, error)
	feedbackFn func(ctx context.Context, req solver.FeedbackRequest) (solver.FeedbackResponse, error)
	improveFn  func(ctx context.Context, req solver.ImproveRequest) (solver.ImproveResponse, error)
	metricsFn  func(ctx context.Context) (solver.LearningStats, error)
	status     solver.Status
}

func (s *stubSolver) Ask(ctx context.Context, req solver.AskRequest) (solver.AskResponse, error) {
	if s.askFn != nil {
		return s.askFn(ctx, req)
	}
	return solver.AskResponse{}, nil
}

func (s *stubSolver) Feedback(ctx context.Context, req solver.FeedbackRequest) (solver.FeedbackResponse, error) {
	if s.feedbackFn != nil {
		return s.feedbackFn(ctx, req)
	}
	return solver.FeedbackResponse{}, nil
}

func (s *stubSolver) Improve(ctx context.Context, req solver.ImproveRequest) (solver.ImproveResponse, error) {
	if s.improveFn != nil {
		return s.improveFn(ctx, req)
	}
	return solver.ImproveResponse{}, nil
}

func (s *stubSolver) Metrics(ctx context.Context) (solver.LearningStats, error) {
	if s.metricsFn != nil {
		return s.metricsFn(ctx)
	}
	return solver.LearningStats{MethodsUsed: map[string]int64{}}, nil
}

func (s *stubSolver) Status() solver.Status {
	return s.status
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
