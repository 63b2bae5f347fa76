package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"SkillTracker/internal/config"
	"SkillTracker/internal/domain"
	"SkillTracker/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	summary  domain.Summary
	err      error
	url      string
	lastDate string
}

func (f *fakeService) Points(_ context.Context, rawURL string) (domain.Summary, error) {
	f.url = rawURL
	return f.summary, f.err
}

func (f *fakeService) TrackWithBuddy(_ context.Context, rawURL, lastDate string) (domain.Summary, error) {
	f.url = rawURL
	f.lastDate = lastDate
	return f.summary, f.err
}

func sampleSummary() domain.Summary {
	record := domain.NewProfileRecord("https://www.skillrack.com/faces/profile/484170", 5000)
	record.ID = "484170"
	record.Name = "Asha Raman"
	ratio := 1.92
	return domain.Summary{
		ProfileRecord: record,
		ProgressAssessment: domain.ProgressAssessment{
			ComputedPoints:          96,
			CompletionRatio:         &ratio,
			Status:                  domain.StatusOffTrack,
			ProjectedCompletionDate: "01-01-2025",
		},
	}
}

func newTestRouter(svc ProgressService, m *metrics.Metrics, limits config.RateLimitConfig) *gin.Engine {
	return NewRouter(NewHandler(svc, nil), m, limits, nil)
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestPointsSuccess(t *testing.T) {
	t.Parallel()

	svc := &fakeService{summary: sampleSummary()}
	rec := do(newTestRouter(svc, nil, config.RateLimitConfig{}), http.MethodPost, "/api/points",
		`{"url":"https://www.skillrack.com/faces/profile/484170"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://www.skillrack.com/faces/profile/484170", svc.url)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "484170", body["id"])
	require.Equal(t, "Asha Raman", body["name"])
	require.EqualValues(t, 96, body["computedPoints"])
	require.Equal(t, "OFF_TRACK", body["status"])
	require.Equal(t, "01-01-2025", body["projectedCompletionDate"])
}

func TestPointsMissingURL(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	router := newTestRouter(svc, nil, config.RateLimitConfig{})

	for _, body := range []string{"", "{}", `{"url":""}`, "not json"} {
		rec := do(router, http.MethodPost, "/api/points", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, "No URL provided in the request body", decodeError(t, rec))
	}
	require.Empty(t, svc.url)
}

func TestTrackWithBuddyMissingFields(t *testing.T) {
	t.Parallel()

	svc := &fakeService{}
	router := newTestRouter(svc, nil, config.RateLimitConfig{})

	for _, body := range []string{`{"url":"https://x"}`, `{"lastdate":"01-01-2025"}`} {
		rec := do(router, http.MethodPost, "/api/trackwithbuddy", body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, "Both URL and lastdate are required", decodeError(t, rec))
	}
}

func TestTrackWithBuddyPassesFields(t *testing.T) {
	t.Parallel()

	svc := &fakeService{summary: sampleSummary()}
	rec := do(newTestRouter(svc, nil, config.RateLimitConfig{}), http.MethodPost, "/api/trackwithbuddy",
		`{"url":"https://site.example/a/b/c/1","lastdate":"30-04-2025"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://site.example/a/b/c/1", svc.url)
	require.Equal(t, "30-04-2025", svc.lastDate)
}

func TestErrorStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"input", &domain.InputError{Field: "url", Msg: "Invalid URL provided"}, http.StatusBadRequest, "Invalid URL provided"},
		{"fetch", fmt.Errorf("fetch profile: %w", &domain.FetchError{URL: "u", Status: 404}), http.StatusBadGateway, "Failed to fetch the profile page"},
		{"shape", fmt.Errorf("fetch profile: %w", &domain.ShapeError{URL: "u", Segments: 3, Want: 5}), http.StatusUnprocessableEntity, "url u has 3 segments, need at least 5 to derive a profile id"},
		{"required", fmt.Errorf("assess profile 1: %w", domain.ErrInvalidRequiredPoints), http.StatusUnprocessableEntity, "required points must be a positive integer"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &fakeService{err: tc.err}
			rec := do(newTestRouter(svc, nil, config.RateLimitConfig{}), http.MethodPost, "/api/points", `{"url":"https://x"}`)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.msg, decodeError(t, rec))
		})
	}
}

func TestPointsByPath(t *testing.T) {
	t.Parallel()

	svc := &fakeService{summary: sampleSummary()}
	rec := do(newTestRouter(svc, nil, config.RateLimitConfig{}), http.MethodGet,
		"/api/points/https:%2F%2Fsite.example%2Fa%2Fb%2Fc%2F1?x=1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.HasPrefix(svc.url, "https:"), svc.url)
	require.True(t, strings.HasSuffix(svc.url, "?x=1"), svc.url)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := do(newTestRouter(&fakeService{}, nil, config.RateLimitConfig{}), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	router := newTestRouter(&fakeService{summary: sampleSummary()}, m, config.RateLimitConfig{})

	do(router, http.MethodPost, "/api/points", `{"url":"https://x"}`)
	rec := do(router, http.MethodGet, "/metrics", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `http_requests_total{endpoint="/api/points",method="POST",status="200"} 1`)
}

func TestRateLimiter(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeService{summary: sampleSummary()}, nil,
		config.RateLimitConfig{Requests: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		rec := do(router, http.MethodPost, "/api/points", `{"url":"https://x"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(router, http.MethodPost, "/api/points", `{"url":"https://x"}`)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "too many requests", decodeError(t, rec))

	// health is outside the limited group
	rec = do(router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiterDisabled(t *testing.T) {
	t.Parallel()

	engine := gin.New()
	engine.Use(RateLimiter(0, time.Minute))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		rec := do(engine, http.MethodGet, "/", "")
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}
