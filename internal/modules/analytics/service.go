package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"leadtracker/internal/analytics"
	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/metrics"
)

type LeadSnapshot interface {
	GetAllLeads(ctx context.Context, includeArchived bool) ([]domain.Lead, error)
}

type ActivitySource interface {
	GetActivities(ctx context.Context) ([]domain.Activity, error)
}

// SummaryCache stores the last computed summary. A miss is (zero, false, nil).
// SetSummary drops the write when the cache was invalidated after gen was read.
type SummaryCache interface {
	GetSummary(ctx context.Context) (analytics.Summary, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetSummary(ctx context.Context, gen int64, s analytics.Summary) error
}

// TrendQuery holds the raw trend parameters. Empty values fall back to
// weekly buckets covering the last twelve periods up to today.
type TrendQuery struct {
	Period string
	From   string
	To     string
}

const defaultTrendPeriods = 12

type Service struct {
	leads      LeadSnapshot
	activities ActivitySource
	cache      SummaryCache
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

func NewService(leads LeadSnapshot, activities ActivitySource, cache SummaryCache, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		leads:      leads,
		activities: activities,
		cache:      cache,
		metrics:    m,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Summary returns the headline metrics and both distributions over every
// record, archived customers included.
func (s *Service) Summary(ctx context.Context) (analytics.Summary, error) {
	cached, ok, err := s.cache.GetSummary(ctx)
	if err != nil {
		s.log.Warn("analytics cache read failed", zap.Error(err))
	}
	if ok {
		s.metrics.RecordCacheHit()
		return cached, nil
	}
	s.metrics.RecordCacheMiss()

	// the generation must be read before the snapshot
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.log.Warn("analytics cache generation read failed", zap.Error(genErr))
	}

	leads, err := s.snapshot(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	summary := analytics.Summarize(leads)
	if genErr == nil {
		if err := s.cache.SetSummary(ctx, gen, summary); err != nil {
			s.log.Warn("analytics cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func (s *Service) Trend(ctx context.Context, q TrendQuery) ([]analytics.TrendPoint, error) {
	b, err := s.bucketing(q)
	if err != nil {
		return nil, err
	}
	leads, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ConversionTrend(leads, b)
}

// Timeline returns the most recent activities across all leads.
func (s *Service) Timeline(ctx context.Context, limit int) ([]domain.Activity, error) {
	acts, err := s.activities.GetActivities(ctx)
	if err != nil {
		return nil, s.storageFailure("list_activities", err)
	}
	return analytics.ActivityTimeline(acts, limit), nil
}

// Report builds the exportable workbook content for the current snapshot.
func (s *Service) Report(ctx context.Context, q TrendQuery) (analytics.Report, error) {
	b, err := s.bucketing(q)
	if err != nil {
		return analytics.Report{}, err
	}
	leads, err := s.snapshot(ctx)
	if err != nil {
		return analytics.Report{}, err
	}
	trend, err := analytics.ConversionTrend(leads, b)
	if err != nil {
		return analytics.Report{}, err
	}
	s.metrics.RecordReportExported()
	return analytics.NewReport(leads, trend, s.now()), nil
}

func (s *Service) bucketing(q TrendQuery) (analytics.Bucketing, error) {
	period := analytics.PeriodWeek
	if v := strings.TrimSpace(q.Period); v != "" {
		p, err := analytics.ParsePeriod(v)
		if err != nil {
			return analytics.Bucketing{}, err
		}
		period = p
	}

	fields := map[string]string{}
	to, err := parseDate(q.To, s.now())
	if err != nil {
		fields["to"] = err.Error()
	}
	from, err := parseDate(q.From, defaultFrom(period, to))
	if err != nil {
		fields["from"] = err.Error()
	}
	if len(fields) > 0 {
		return analytics.Bucketing{}, &domain.ValidationError{Fields: fields}
	}
	return analytics.Bucketing{Period: period, From: from, To: to}, nil
}

func defaultFrom(p analytics.Period, to time.Time) time.Time {
	switch p {
	case analytics.PeriodDay:
		return to.AddDate(0, 0, -(defaultTrendPeriods - 1))
	case analytics.PeriodMonth:
		// step back from the first of the month so the 31st does not spill over
		first := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, -(defaultTrendPeriods - 1), 0)
	default:
		return to.AddDate(0, 0, -7*(defaultTrendPeriods-1))
	}
}

// parseDate accepts a calendar date or an RFC 3339 timestamp.
func parseDate(v string, fallback time.Time) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.New("expected YYYY-MM-DD or an RFC 3339 timestamp")
	}
	return t.UTC(), nil
}

func (s *Service) snapshot(ctx context.Context) ([]domain.Lead, error) {
	leads, err := s.leads.GetAllLeads(ctx, true)
	if err != nil {
		return nil, s.storageFailure("list_leads", err)
	}
	return leads, nil
}

func (s *Service) storageFailure(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		s.log.Warn("record store failure", zap.String("operation", op), zap.Error(err))
		s.metrics.RecordStorageError(op)
	}
	return err
}
