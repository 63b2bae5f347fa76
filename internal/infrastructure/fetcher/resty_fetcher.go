package fetcher

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"SkillTracker/internal/config"
	"SkillTracker/internal/domain"
	"SkillTracker/internal/ports"
)

// RestyFetcher downloads profile pages over HTTP.
type RestyFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

var _ ports.PageFetcher = (*RestyFetcher)(nil)

// NewRestyFetcher configures timeouts and retries from cfg. A nil httpClient
// uses resty's default transport.
func NewRestyFetcher(cfg config.FetcherConfig, httpClient *http.Client, log *slog.Logger) *RestyFetcher {
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}

	client.
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryWait * 4).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && r.StatusCode() >= http.StatusInternalServerError)
		})

	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}

	return &RestyFetcher{client: client, logger: log}
}

// Fetch returns the page body. Transport failures and non-2xx responses
// come back as *domain.FetchError.
func (f *RestyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: err}
	}

	f.debug("page fetched", "url", url, "status", resp.StatusCode(), "elapsed", time.Since(start))

	if !resp.IsSuccess() {
		return "", &domain.FetchError{URL: url, Status: resp.StatusCode()}
	}
	return resp.String(), nil
}

func (f *RestyFetcher) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
