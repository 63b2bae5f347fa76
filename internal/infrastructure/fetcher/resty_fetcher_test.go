package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SkillTracker/internal/config"
	"SkillTracker/internal/domain"
)

func testConfig(retries int) config.FetcherConfig {
	return config.FetcherConfig{
		Timeout:    2 * time.Second,
		RetryCount: retries,
		RetryWait:  time.Millisecond,
		UserAgent:  "SkillTracker-test",
	}
}

func TestFetchReturnsBodyAndSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	f := NewRestyFetcher(testConfig(0), nil, nil)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", body)
	require.Equal(t, "SkillTracker-test", gotUA.Load())
}

func TestFetchRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer server.Close()

	f := NewRestyFetcher(testConfig(2), nil, nil)
	body, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "recovered", body)
	require.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewRestyFetcher(testConfig(3), nil, nil)
	_, err := f.Fetch(context.Background(), server.URL)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
	require.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestFetchTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := NewRestyFetcher(testConfig(0), nil, nil)
	_, err := f.Fetch(context.Background(), url)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Error(t, fetchErr.Err)
	require.Zero(t, fetchErr.Status)
}
