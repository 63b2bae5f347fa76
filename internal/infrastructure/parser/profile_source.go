package parser

import (
	"context"
	"fmt"
	"log/slog"

	"SkillTracker/internal/domain"
	"SkillTracker/internal/ports"
)

// ProfileSource implements ports.ProfileSource by fetching a page and
// handing the body to an extractor.
type ProfileSource struct {
	fetcher   ports.PageFetcher
	extractor ports.Extractor
	logger    *slog.Logger
}

var _ ports.ProfileSource = (*ProfileSource)(nil)

// NewProfileSource wires a fetcher with an extractor.
func NewProfileSource(fetcher ports.PageFetcher, extractor ports.Extractor, log *slog.Logger) *ProfileSource {
	return &ProfileSource{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    log,
	}
}

// FetchProfile downloads url and extracts its profile record. A url too
// short to carry a profile id fails with a ShapeError before any request.
func (s *ProfileSource) FetchProfile(ctx context.Context, url string) (domain.ProfileRecord, error) {
	if s.fetcher == nil || s.extractor == nil {
		return domain.ProfileRecord{}, fmt.Errorf("profile source is not configured")
	}

	if _, err := profileID(url); err != nil {
		return domain.ProfileRecord{}, err
	}

	s.debug("fetch profile", "url", url)
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return domain.ProfileRecord{}, err
	}

	record, err := s.extractor.Extract(page, url)
	if err != nil {
		return domain.ProfileRecord{}, fmt.Errorf("extract profile: %w", err)
	}

	s.debug("profile ready", "id", record.ID, "bytes", len(page))
	return record, nil
}

func (s *ProfileSource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
