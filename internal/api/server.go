package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/tera/internal/inference"
	"github.com/samcharles93/tera/internal/rag"
)

// AnswerService is the surface the server needs from the rag layer.
type AnswerService interface {
	Answer(ctx context.Context, query string, snippets []rag.Snippet) (string, error)
}

// Server exposes the answer service over HTTP. Each request drives a
// CPU-bound decode loop, so inbound rate is throttled.
type Server struct {
	svc     AnswerService
	limiter *rate.Limiter
}

func NewServer(svc AnswerService) *Server {
	return &Server{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}
}

// SetRateLimit replaces the default throttle of 1 request/s with burst 4.
func (s *Server) SetRateLimit(r rate.Limit, burst int) {
	s.limiter = rate.NewLimiter(r, burst)
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/answer", s.handleAnswer)
	e.GET("/healthz", s.handleHealth)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnswer(c *echo.Context) error {
	if !s.limiter.Allow() {
		return writeError(c, http.StatusTooManyRequests, "rate_limited", "too many requests")
	}

	req, err := decodeJSON[AnswerRequest](c.Request().Body)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
	}

	snippets := make([]rag.Snippet, 0, len(req.Snippets))
	for _, sn := range req.Snippets {
		snippets = append(snippets, rag.Snippet{Content: sn.Content, Metadata: sn.Metadata})
	}

	answer, err := s.svc.Answer(c.Request().Context(), req.Query, snippets)
	if err != nil {
		switch {
		case errors.Is(err, rag.ErrEmptyQuery), errors.Is(err, inference.ErrEmptyPrompt):
			return writeError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
		default:
			return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
		}
	}

	return c.JSON(http.StatusOK, AnswerResponse{
		ID:      "ans_" + uuid.NewString(),
		Object:  "answer",
		Created: time.Now().Unix(),
		Answer:  answer,
	})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	return v, nil
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Message: msg, Type: errType},
	})
}
