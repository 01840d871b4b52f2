package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/deppfellow/online-quiz/internal/config"
	"github.com/deppfellow/online-quiz/internal/database"
	"github.com/deppfellow/online-quiz/internal/errs"
	"github.com/deppfellow/online-quiz/internal/handler"
	"github.com/deppfellow/online-quiz/internal/model/question"
	"github.com/deppfellow/online-quiz/internal/repository"
	"github.com/deppfellow/online-quiz/internal/server"
	"github.com/deppfellow/online-quiz/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        5,
			WriteTimeout:       5,
			IdleTimeout:        5,
			CORSAllowedOrigins: []string{"*"},
			RateLimit:          config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute},
		},
		Database: config.DatabaseConfig{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "quiz.db"),
		},
		Observability: config.DefaultObservabilityConfig(),
	}
	cfg.Observability.HealthChecks.Timeout = time.Second

	logger := zerolog.Nop()

	srv, err := server.New(cfg, &logger, nil)
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	if err := database.Migrate(context.Background(), &logger, cfg, srv.DB); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	repos := repository.NewRepositories(srv)
	services, err := service.NewService(srv, repos)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	return NewRouter(srv, handler.NewHandlers(srv, services))
}

func do(t *testing.T, r *echo.Echo, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func expect(t *testing.T, rec *httptest.ResponseRecorder, status int, body string) {
	t.Helper()

	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, status, rec.Body.String())
	}
	if body != "" && strings.TrimSpace(rec.Body.String()) != body {
		t.Fatalf("body = %q, want %q", rec.Body.String(), body)
	}
}

func create(t *testing.T, r *echo.Echo, q string, choices []string, answer string) int64 {
	t.Helper()

	payload, _ := json.Marshal(map[string]any{"question": q, "choices": choices, "answer": answer})
	rec := do(t, r, http.MethodPost, "/create", string(payload))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %q", rec.Code, rec.Body.String())
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(rec.Body.String(), "Question added with ID: "), 10, 64)
	if err != nil {
		t.Fatalf("unexpected create body %q", rec.Body.String())
	}
	return id
}

func get(t *testing.T, r *echo.Echo, id int64) question.Question {
	t.Helper()

	rec := do(t, r, http.MethodGet, fmt.Sprintf("/get/%d", id), "")
	expect(t, rec, http.StatusOK, "")

	var q question.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("get body is not a question: %v", err)
	}
	return q
}

func TestQuestionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	k := create(t, r, "2+2?", []string{"3", "4", "5"}, "4")

	q := get(t, r, k)
	if q.ID != k || q.Question != "2+2?" || q.Answer != "4" || strings.Join(q.Choices, ",") != "3,4,5" {
		t.Fatalf("unexpected question: %+v", q)
	}

	expect(t, do(t, r, http.MethodPost, "/check-answer", fmt.Sprintf(`{"id":%d,"choice":"4"}`, k)), http.StatusOK, "Correct answer!")
	expect(t, do(t, r, http.MethodPost, "/check-answer", fmt.Sprintf(`{"id":%d,"choice":"3"}`, k)), http.StatusOK, "Incorrect answer.")

	expect(t, do(t, r, http.MethodDelete, fmt.Sprintf("/delete/%d", k), ""), http.StatusOK, "Question deleted successfully.")
	expect(t, do(t, r, http.MethodGet, fmt.Sprintf("/get/%d", k), ""), http.StatusNotFound, "Question not found.")
}

func TestCreateValidation(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"answer not in choices", `{"question":"2+2?","choices":["3","5"],"answer":"4"}`, "The answer must be one of the choices."},
		{"empty choices", `{"question":"2+2?","choices":[],"answer":"4"}`, "The answer must be one of the choices."},
		{"case differs", `{"question":"Capital?","choices":["Paris"],"answer":"paris"}`, "The answer must be one of the choices."},
		{"missing question", `{"choices":["4"],"answer":"4"}`, "Question, choices, and answer are required."},
		{"null choices", `{"question":"2+2?","choices":null,"answer":"4"}`, "Question, choices, and answer are required."},
		{"empty answer", `{"question":"2+2?","choices":["4"],"answer":""}`, "Question, choices, and answer are required."},
		{"empty object", `{}`, "Question, choices, and answer are required."},
		{"malformed json", `{"question":`, "Question, choices, and answer are required."},
		{"choices not a list", `{"question":"q","choices":"4","answer":"4"}`, "Question, choices, and answer are required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, do(t, r, http.MethodPost, "/create", tt.body), http.StatusBadRequest, tt.want)
		})
	}

	expect(t, do(t, r, http.MethodGet, "/list", ""), http.StatusOK, "[]")
}

func TestUpdate(t *testing.T) {
	r := newTestRouter(t)
	k := create(t, r, "Capital of France?", []string{"Paris", "Rome"}, "Paris")

	// empty bodies fail regardless of the id
	for _, path := range []string{fmt.Sprintf("/update/%d", k), "/update/999", "/update/abc"} {
		expect(t, do(t, r, http.MethodPut, path, `{}`), http.StatusBadRequest, "At least one field (question, choices, answer) is required.")
	}

	expect(t, do(t, r, http.MethodPut, fmt.Sprintf("/update/%d", k), `{"question":"Capital city of France?"}`),
		http.StatusOK, "Question updated successfully.")

	q := get(t, r, k)
	if q.Question != "Capital city of France?" || q.Answer != "Paris" || len(q.Choices) != 2 {
		t.Fatalf("partial update touched other fields: %+v", q)
	}

	// answer is not re-checked against choices
	expect(t, do(t, r, http.MethodPut, fmt.Sprintf("/update/%d", k), `{"answer":"Berlin"}`), http.StatusOK, "Question updated successfully.")
	if q := get(t, r, k); q.Answer != "Berlin" {
		t.Fatalf("answer = %q, want Berlin", q.Answer)
	}

	expect(t, do(t, r, http.MethodPut, fmt.Sprintf("/update/%d", k), `{"choices":["Berlin","Madrid"]}`), http.StatusOK, "")
	if q := get(t, r, k); strings.Join(q.Choices, ",") != "Berlin,Madrid" {
		t.Fatalf("choices = %v", q.Choices)
	}
}

func TestMissingQuestionsAreNotFound(t *testing.T) {
	r := newTestRouter(t)

	for _, id := range []string{"999", "abc", "1.5", "-1"} {
		expect(t, do(t, r, http.MethodGet, "/get/"+id, ""), http.StatusNotFound, "Question not found.")
		expect(t, do(t, r, http.MethodDelete, "/delete/"+id, ""), http.StatusNotFound, "Question not found.")
		expect(t, do(t, r, http.MethodPut, "/update/"+id, `{"question":"x"}`), http.StatusNotFound, "Question not found.")
	}

	expect(t, do(t, r, http.MethodPost, "/check-answer", `{"id":999,"choice":"x"}`), http.StatusNotFound, "Question not found.")
}

func TestCheckAnswerValidation(t *testing.T) {
	r := newTestRouter(t)
	k := create(t, r, "Capital of France?", []string{"Paris", "Rome"}, "Paris")

	for _, body := range []string{`{}`, `{"id":0,"choice":"Paris"}`, fmt.Sprintf(`{"id":%d}`, k), `{"choice":"Paris"}`} {
		expect(t, do(t, r, http.MethodPost, "/check-answer", body), http.StatusBadRequest, "ID and choice are required.")
	}

	for choice, want := range map[string]string{
		"Paris":  "Correct answer!",
		"paris":  "Incorrect answer.",
		" Paris": "Incorrect answer.",
		"Rome":   "Incorrect answer.",
	} {
		body := fmt.Sprintf(`{"id":%d,"choice":%q}`, k, choice)
		expect(t, do(t, r, http.MethodPost, "/check-answer", body), http.StatusOK, want)
	}
}

func TestListReturnsEveryRow(t *testing.T) {
	r := newTestRouter(t)

	expect(t, do(t, r, http.MethodGet, "/list", ""), http.StatusOK, "[]")

	const n = 4
	for i := 0; i < n; i++ {
		create(t, r, fmt.Sprintf("q%d", i), []string{"a", "b"}, "a")
	}

	rec := do(t, r, http.MethodGet, "/list", "")
	expect(t, rec, http.StatusOK, "")

	var list []question.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("list body is not JSON: %v", err)
	}
	if len(list) != n {
		t.Fatalf("expected %d questions, got %d", n, len(list))
	}
	for i, q := range list {
		if q.Question != fmt.Sprintf("q%d", i) || len(q.Choices) != 2 {
			t.Fatalf("unexpected row %d: %+v", i, q)
		}
	}
}

func TestJSONErrorEnvelope(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/get/42", "", echo.HeaderAccept, echo.MIMEApplicationJSON)
	expect(t, rec, http.StatusNotFound, "")

	var body errs.HTTPError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body.Status != http.StatusNotFound || body.Code != "NOT_FOUND" || body.Message != "Question not found." {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRequestIDAndUnknownRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/nope", "")
	expect(t, rec, http.StatusNotFound, "Route not found")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("missing X-Request-ID header")
	}

	rec = do(t, r, http.MethodGet, "/list", "", "X-Request-ID", "req-1")
	if got := rec.Header().Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("X-Request-ID = %q, want req-1", got)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/status", "")
	expect(t, rec, http.StatusOK, "")

	var body struct {
		Status string                    `json:"status"`
		Driver string                    `json:"driver"`
		Checks map[string]map[string]any `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("status body is not JSON: %v", err)
	}
	if body.Status != "healthy" || body.Driver != config.DriverSQLite {
		t.Fatalf("unexpected status: %+v", body)
	}
	if body.Checks["database"]["status"] != "healthy" {
		t.Fatalf("database check missing: %+v", body.Checks)
	}
	if _, ok := body.Checks["redis"]; ok {
		t.Fatalf("redis is not configured and must not be checked")
	}
}
