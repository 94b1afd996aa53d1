package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/tera/internal/rag"
)

type testService struct {
	answer string
	err    error
	calls  int
	lastQ  string
	lastSn []rag.Snippet
}

func (s *testService) Answer(ctx context.Context, query string, snippets []rag.Snippet) (string, error) {
	s.calls++
	s.lastQ = query
	s.lastSn = snippets
	if s.err != nil {
		return "", s.err
	}
	if len(snippets) == 0 {
		return rag.NoRelevantContent, nil
	}
	return s.answer, nil
}

func newTestEcho(svc AnswerService) *echo.Echo {
	server := NewServer(svc)
	server.SetRateLimit(rate.Inf, 0)
	e := echo.New()
	server.Register(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnswerEndpoint(t *testing.T) {
	t.Parallel()
	svc := &testService{answer: "Paris."}
	e := newTestEcho(svc)

	rec := doJSON(t, e, http.MethodPost, "/v1/answer",
		`{"query":"capital of France?","snippets":[{"content":"Paris is the capital.","metadata":{"id":1}}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var resp AnswerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Answer != "Paris." {
		t.Fatalf("answer = %q", resp.Answer)
	}
	if !strings.HasPrefix(resp.ID, "ans_") {
		t.Fatalf("id = %q, want ans_ prefix", resp.ID)
	}
	if resp.Object != "answer" {
		t.Fatalf("object = %q", resp.Object)
	}
	if svc.lastQ != "capital of France?" || len(svc.lastSn) != 1 {
		t.Fatalf("service received query=%q snippets=%v", svc.lastQ, svc.lastSn)
	}
}

func TestAnswerEndpointNoSnippets(t *testing.T) {
	t.Parallel()
	svc := &testService{}
	e := newTestEcho(svc)

	rec := doJSON(t, e, http.MethodPost, "/v1/answer", `{"query":"anything","snippets":[]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "saved content") {
		t.Fatalf("expected the fixed message, got: %s", rec.Body.String())
	}
}

func TestAnswerEndpointBadJSON(t *testing.T) {
	t.Parallel()
	svc := &testService{}
	e := newTestEcho(svc)

	rec := doJSON(t, e, http.MethodPost, "/v1/answer", `{"query": nope}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("service invoked for malformed payload")
	}
}

func TestAnswerEndpointEmptyQuery(t *testing.T) {
	t.Parallel()
	svc := &testService{err: rag.ErrEmptyQuery}
	e := newTestEcho(svc)

	rec := doJSON(t, e, http.MethodPost, "/v1/answer", `{"query":"","snippets":[{"content":"x"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_request_error") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAnswerEndpointServerError(t *testing.T) {
	t.Parallel()
	svc := &testService{err: errors.New("weights corrupt")}
	e := newTestEcho(svc)

	rec := doJSON(t, e, http.MethodPost, "/v1/answer", `{"query":"q","snippets":[{"content":"x"}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestAnswerEndpointRateLimited(t *testing.T) {
	t.Parallel()
	svc := &testService{answer: "ok"}
	server := NewServer(svc)
	server.SetRateLimit(rate.Limit(0), 0)
	e := echo.New()
	server.Register(e)

	rec := doJSON(t, e, http.MethodPost, "/v1/answer", `{"query":"q","snippets":[{"content":"x"}]}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("service invoked despite throttle")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	e := newTestEcho(&testService{})
	rec := doJSON(t, e, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
