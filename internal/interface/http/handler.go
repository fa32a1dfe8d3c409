package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/math-agent/internal/domain/solver"
	apperrors "github.com/yanqian/math-agent/pkg/errors"
)

// Handler wires the HTTP transport to the solver domain.
type Handler struct {
	svc    solver.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc solver.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Ask answers a mathematics question.
func (h *Handler) Ask(c *gin.Context) {
	var req solver.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Ask(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "ask_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_input"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Feedback records a rating/comment and attempts a feedback-driven revision.
func (h *Handler) Feedback(c *gin.Context) {
	var req solver.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Feedback(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "feedback_failed"
		if apperrors.IsCode(err, "invalid_input") {
			status = http.StatusBadRequest
			code = "invalid_input"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImproveSolution revises a prior solution per explicit feedback.
func (h *Handler) ImproveSolution(c *gin.Context) {
	var req solver.ImproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.svc.Improve(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		code := "improve_failed"
		switch {
		case apperrors.IsCode(err, "invalid_input"):
			status = http.StatusBadRequest
			code = "invalid_input"
		case apperrors.IsCode(err, "enhanced_unavailable"):
			status = http.StatusBadRequest
			code = "enhanced_unavailable"
		}
		abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LearningMetrics exposes aggregate improvement statistics.
func (h *Handler) LearningMetrics(c *gin.Context) {
	stats, err := h.svc.Metrics(c.Request.Context())
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "metrics_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// EnhancedStatus reports whether the primary solver strategy is active.
func (h *Handler) EnhancedStatus(c *gin.Context) {
	status := h.svc.Status()
	message := "enhanced solver active and learning from feedback"
	if !status.Enhanced {
		message = "enhanced solver disabled, running in fallback mode"
	}
	c.JSON(http.StatusOK, gin.H{
		"enhanced_available": status.Enhanced,
		"buffered_examples":  status.BufferedExamples,
		"message":            message,
	})
}

// Health is the liveness probe.
func (h *Handler) Health(c *gin.Context) {
	status := h.svc.Status()
	mode := "enabled"
	if !status.Enhanced {
		mode = "disabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"components": gin.H{
			"knowledge_base":    "available",
			"web_search":        "available",
			"llm":               "available",
			"enhanced_learning": mode,
		},
	})
}

// Root is the informational landing probe.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":          "Math Agent API",
		"status":           "running",
		"enhanced_enabled": h.svc.Status().Enhanced,
	})
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
