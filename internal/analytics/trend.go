package analytics

import (
	"fmt"
	"time"

	"leadtracker/internal/domain"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// MaxTrendPoints bounds how many buckets a single trend request may produce.
const MaxTrendPoints = 1000

func ParsePeriod(v string) (Period, error) {
	switch p := Period(v); p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return p, nil
	default:
		return "", domain.NewValidationError("period", fmt.Sprintf("unknown period %q", v))
	}
}

// Bucketing selects the period size and the inclusive range of periods. From
// and To may fall anywhere inside their first and last period. Weeks start on
// Monday; bucket boundaries are computed in UTC.
type Bucketing struct {
	Period Period
	From   time.Time
	To     time.Time
}

type TrendPoint struct {
	PeriodStart time.Time `json:"period_start"`
	Label       string    `json:"label"`
	Leads       int       `json:"leads"`
	Won         int       `json:"won"`
	Rate        float64   `json:"rate"`
}

func (p Period) start(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch p {
	case PeriodWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func (p Period) next(t time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return t.AddDate(0, 0, 7)
	case PeriodMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func (p Period) label(t time.Time) string {
	if p == PeriodMonth {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// ConversionTrend buckets leads by creation time and computes the conversion
// rate per bucket with the same formula as CalculateMetrics. Every period in
// the range is present, in ascending order, even when it holds no leads.
func ConversionTrend(leads []domain.Lead, b Bucketing) ([]TrendPoint, error) {
	if _, err := ParsePeriod(string(b.Period)); err != nil {
		return nil, err
	}
	if b.From.IsZero() || b.To.IsZero() {
		return nil, domain.NewValidationError("range", "from and to are required")
	}
	if b.To.Before(b.From) {
		return nil, domain.NewValidationError("range", "to must not be before from")
	}

	first, last := b.Period.start(b.From), b.Period.start(b.To)
	var points []TrendPoint
	index := map[time.Time]int{}
	for t := first; !t.After(last); t = b.Period.next(t) {
		if len(points) == MaxTrendPoints {
			return nil, domain.NewValidationError("range", fmt.Sprintf("more than %d %s periods", MaxTrendPoints, b.Period))
		}
		index[t] = len(points)
		points = append(points, TrendPoint{PeriodStart: t, Label: b.Period.label(t)})
	}

	for _, l := range leads {
		i, ok := index[b.Period.start(l.CreatedAt)]
		if !ok {
			continue
		}
		points[i].Leads++
		if l.Stage == domain.StageClosedWon {
			points[i].Won++
		}
	}
	for i := range points {
		points[i].Rate = rate(points[i].Won, points[i].Leads)
	}
	return points, nil
}
