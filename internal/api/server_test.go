package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/store"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Put(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }

func newTestServer(t *testing.T, kv func(*store.Store) store.KV) *Server {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	if kv == nil {
		kv = func(s *store.Store) store.KV { return s.KV() }
	}
	srv, err := New(Deps{
		Catalog:  cat,
		Recorder: store.NewRecorder(kv(st), st.ResultRepo(), 10, nil),
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func validAnswers() assessment.Answers {
	return assessment.Answers{
		Path:    "career-starter",
		Choices: []int{0, 0, 0, 0, 0, 0},
		Skills:  []string{"Python", "SQL", "Statistics"},
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Error
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, nil)
	w := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestListCoursesAndPaths(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodGet, "/api/courses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var courses struct {
		Courses []struct {
			ID string `json:"id"`
		} `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &courses))
	assert.Len(t, courses.Courses, 4)

	w = do(t, srv, http.MethodGet, "/api/paths", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paths struct {
		Paths []catalog.Path `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paths))
	require.Len(t, paths.Paths, 2)
	assert.Equal(t, "career-starter", paths.Paths[0].ID)
	assert.Len(t, paths.Paths[0].Questions, 6)
}

func TestCreateAssessment(t *testing.T) {
	srv := newTestServer(t, nil)

	w := do(t, srv, http.MethodPost, "/api/assessments", validAnswers())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out AssessmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Persisted)
	assert.Empty(t, out.Warning)
	require.NotNil(t, out.Result)
	assert.NotEmpty(t, out.Result.BestMatch)
	assert.Len(t, out.Result.CourseMatches, 4)
	assert.Equal(t, out.Result.CourseMatches[out.Result.BestMatch], out.Result.BestMatchScore)

	w = do(t, srv, http.MethodGet, "/api/assessments/latest", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var latest map[string]assessment.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	doc := latest[assessment.DocumentKey]
	assert.Equal(t, out.Result.BestMatch, doc.BestMatch)
	assert.Equal(t, out.Result.DiscountEligibility, doc.DiscountEligibility)
	assert.Equal(t, []string{"Python", "SQL", "Statistics"}, doc.Skills)
}

func TestCreateAssessment_Errors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed body", "not an object", http.StatusBadRequest, "invalid_body"},
		{"unknown path", assessment.Answers{Path: "nope"}, http.StatusNotFound, "unknown_path"},
		{"too few answers", assessment.Answers{Path: "career-starter", Choices: []int{0}}, http.StatusUnprocessableEntity, "answer_count"},
		{"option out of range", assessment.Answers{Path: "career-starter", Choices: []int{0, 0, 9, 0, 0, 0}}, http.StatusUnprocessableEntity, "invalid_option"},
		{"not enough skills", assessment.Answers{Path: "career-starter", Choices: []int{0, 0, 0, 0, 0, 0}, Skills: []string{"Go"}}, http.StatusUnprocessableEntity, "invalid_skills"},
		{"duplicate skill", assessment.Answers{Path: "career-starter", Choices: []int{0, 0, 0, 0, 0, 0}, Skills: []string{"Go", "go", "SQL"}}, http.StatusUnprocessableEntity, "invalid_skills"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, http.MethodPost, "/api/assessments", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			apiErr := decodeError(t, w)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
		})
	}

	w := do(t, srv, http.MethodGet, "/api/assessments/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "rejected input must not be persisted")
}

func TestCreateAssessment_PersistFailureStillReturnsResult(t *testing.T) {
	boom := errors.New("disk full")
	srv := newTestServer(t, func(*store.Store) store.KV { return failingKV{err: boom} })

	w := do(t, srv, http.MethodPost, "/api/assessments", validAnswers())
	require.Equal(t, http.StatusCreated, w.Code)

	var out AssessmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.False(t, out.Persisted)
	assert.Contains(t, out.Warning, "disk full")
	require.NotNil(t, out.Result)
	assert.NotEmpty(t, out.Result.BestMatch)

	w = do(t, srv, http.MethodGet, "/api/assessments/latest", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "storage_unavailable", decodeError(t, w).Code)
}

func TestLatestAssessment_NotFound(t *testing.T) {
	srv := newTestServer(t, nil)
	w := do(t, srv, http.MethodGet, "/api/assessments/latest", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Code)
}

func TestPosts_DisabledWithoutBlog(t *testing.T) {
	srv := newTestServer(t, nil)
	w := do(t, srv, http.MethodGet, "/api/posts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "blog_disabled", decodeError(t, w).Code)
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, nil)
	do(t, srv, http.MethodPost, "/api/assessments", validAnswers())

	w := do(t, srv, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `coursefit_assessments_total{best_match=`)
	assert.Contains(t, body, "coursefit_course_match_percent_bucket")
	assert.Contains(t, body, "coursefit_discount_eligibility_percent_count 1")
	assert.Contains(t, body, `coursefit_http_request_duration_seconds_count{method="POST",route="/api/assessments",status="201"} 1`)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	second.ObserveResult(&assessment.Result{
		PathID:        "career-starter",
		BestMatch:     "data-analytics",
		CourseMatches: map[string]int{"data-analytics": 60},
	}, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(first.persistFailures))
	n, err := testutil.GatherAndCount(reg, "coursefit_persist_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expected := `
# HELP coursefit_persist_failures_total Finalized assessments that could not be fully persisted.
# TYPE coursefit_persist_failures_total counter
coursefit_persist_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "coursefit_persist_failures_total"))
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Deps{})
	assert.Error(t, err)
}
