package parser

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"SkillTracker/internal/domain"
	"SkillTracker/internal/ports"
)

const (
	nameBadgeSelector = "div.ui.big.label.black"
	infoPanelSelector = "div.ui.four.wide.center.aligned.column"
	statisticSelector = "div.statistic"
	statLabelSelector = "div.label"
	statValueSelector = "div.value"
)

// The info panel has no markup per field; values sit at fixed line offsets
// of its text content.
const (
	infoPanelMinLines     = 9
	departmentLineIndex   = 4
	institutionLineIndex  = 6
	cohortYearLineIndex   = 8
	cohortYearSuffixRunes = 4
)

// The profile id is the fifth non-empty "/"-separated part of the source URL,
// counting the scheme and host: https:/host/a/b/<id>/...
const idSegmentIndex = 4

// DefaultRequiredPoints applies when the page has no Required Points statistic.
const DefaultRequiredPoints = 5000

type statField int

const (
	fieldTutor statField = iota
	fieldTest
	fieldTrack
	fieldDC
	fieldDT
	fieldPoints
	fieldRequired
	fieldDeadline
	fieldPercentage
)

var statLabels = map[string]statField{
	domain.LabelCodeTutor:      fieldTutor,
	domain.LabelCodeTest:       fieldTest,
	domain.LabelCodeTrack:      fieldTrack,
	domain.LabelDC:             fieldDC,
	domain.LabelDT:             fieldDT,
	domain.LabelPoints:         fieldPoints,
	domain.LabelRequiredPoints: fieldRequired,
	domain.LabelDeadline:       fieldDeadline,
	domain.LabelPercentage:     fieldPercentage,
}

// ProfileExtractor turns profile page HTML into a ProfileRecord.
type ProfileExtractor struct {
	requiredPoints int
	now            func() time.Time
	logger         *slog.Logger
}

var _ ports.Extractor = (*ProfileExtractor)(nil)

// ExtractorOption customizes a ProfileExtractor.
type ExtractorOption func(*ProfileExtractor)

// WithClock overrides the clock used for FetchedAt.
func WithClock(now func() time.Time) ExtractorOption {
	return func(e *ProfileExtractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRequiredPoints sets the default used when the page omits Required Points.
func WithRequiredPoints(points int) ExtractorOption {
	return func(e *ProfileExtractor) {
		if points > 0 {
			e.requiredPoints = points
		}
	}
}

// NewProfileExtractor builds an extractor; log may be nil.
func NewProfileExtractor(log *slog.Logger, opts ...ExtractorOption) *ProfileExtractor {
	e := &ProfileExtractor{
		requiredPoints: DefaultRequiredPoints,
		now:            time.Now,
		logger:         log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract never fails on markup problems; missing fragments leave defaults.
// The only error is a ShapeError for a source URL too short to carry an id.
func (e *ProfileExtractor) Extract(page, sourceURL string) (domain.ProfileRecord, error) {
	record := domain.NewProfileRecord(sourceURL, e.requiredPoints)
	record.FetchedAt = e.now().Format(domain.FetchedAtLayout)

	id, err := profileID(sourceURL)
	if err != nil {
		return domain.ProfileRecord{}, err
	}
	record.ID = id

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		e.debug("unparseable profile page, using defaults", "url", sourceURL, "error", err)
		return record, nil
	}

	if badge := doc.Find(nameBadgeSelector).First(); badge.Length() > 0 {
		record.Name = strings.TrimSpace(badge.Text())
	}

	if panel := doc.Find(infoPanelSelector).First(); panel.Length() > 0 {
		applyInfoPanel(&record, panel.Text())
	}

	doc.Find(statisticSelector).Each(func(_ int, stat *goquery.Selection) {
		labelSel := stat.Find(statLabelSelector).First()
		if labelSel.Length() == 0 {
			return
		}
		field, ok := statLabels[strippedText(labelSel)]
		if !ok {
			return
		}
		valueSel := stat.Find(statValueSelector).First()
		if valueSel.Length() == 0 {
			return
		}
		applyStatistic(&record, field, strippedText(valueSel))
	})

	e.debug("profile extracted", "id", record.ID, "fallbacks", len(record.CoercionFallbacks()))
	return record, nil
}

func applyInfoPanel(record *domain.ProfileRecord, text string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < infoPanelMinLines {
		return
	}
	record.Department = strings.TrimSpace(lines[departmentLineIndex])
	record.Institution = strings.TrimSpace(lines[institutionLineIndex])
	record.CohortYear = lastRunes(strings.TrimSpace(lines[cohortYearLineIndex]), cohortYearSuffixRunes)
}

func applyStatistic(record *domain.ProfileRecord, field statField, value string) {
	switch field {
	case fieldPercentage:
		record.PercentagePublished = parsePercentage(value)
	case fieldDeadline:
		if value == "" {
			record.DeadlineText = nil
			return
		}
		v := value
		record.DeadlineText = &v
	case fieldTutor:
		record.TutorCount = parseStat(value)
	case fieldTest:
		record.TestCount = parseStat(value)
	case fieldTrack:
		record.TrackCount = parseStat(value)
	case fieldDC:
		record.DCCount = parseStat(value)
	case fieldDT:
		record.DTCount = parseStat(value)
	case fieldPoints:
		record.RawPoints = parseStat(value)
	case fieldRequired:
		record.RequiredPoints = parseStat(value)
	}
}

func parsePercentage(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(value, "%")))
	if err != nil {
		return 100
	}
	return n
}

func parseStat(value string) domain.StatValue {
	n, err := strconv.Atoi(value)
	if err != nil {
		return domain.RawStat(value)
	}
	return domain.IntStat(n)
}

func profileID(sourceURL string) (string, error) {
	var parts []string
	for _, p := range strings.Split(sourceURL, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) <= idSegmentIndex {
		return "", &domain.ShapeError{URL: sourceURL, Segments: len(parts), Want: idSegmentIndex + 1}
	}
	return parts[idSegmentIndex], nil
}

// strippedText joins every descendant text node after trimming each one, so
// "<b> 12 </b>\n<i>%</i>" reads as "12%".
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		collectStripped(n, &b)
	}
	return b.String()
}

func collectStripped(node *html.Node, b *strings.Builder) {
	if node.Type == html.TextNode {
		b.WriteString(strings.TrimSpace(node.Data))
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectStripped(child, b)
	}
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func (e *ProfileExtractor) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
