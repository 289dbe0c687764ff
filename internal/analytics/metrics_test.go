package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtracker/internal/domain"
)

var base = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC) // a Monday

func pipelineLead(id string, stage domain.Stage, source domain.LeadSource, created time.Time) domain.Lead {
	return domain.Lead{
		ID:        id,
		Name:      id,
		Stage:     stage,
		Priority:  domain.PriorityMedium,
		Source:    source,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func wonCustomer(id string, created time.Time, prices ...int64) domain.Lead {
	l := pipelineLead(id, domain.StageClosedWon, domain.SourceReferral, created)
	data := domain.CustomerData{FirstName: "C", LastName: id}
	for _, p := range prices {
		data.LineItems = append(data.LineItems, domain.LineItem{Description: "job", Price: decimal.NewFromInt(p)})
	}
	return l.AsCustomer(domain.Customer{Data: data, ConvertedAt: created})
}

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCalculateMetricsEmpty(t *testing.T) {
	m := CalculateMetrics(nil)

	assert.Equal(t, 0, m.TotalLeads)
	assert.Zero(t, m.ConversionRate)
	assert.True(t, m.AvgDealSize.IsZero())
	assert.True(t, m.TotalRevenue.IsZero())
}

func TestCalculateMetricsTwoWonOneNew(t *testing.T) {
	leads := []domain.Lead{
		wonCustomer("a", base, 400, 600),
		wonCustomer("b", base, 2000),
		pipelineLead("c", domain.StageNewLead, domain.SourceWebsite, base),
	}

	m := CalculateMetrics(leads)

	assert.Equal(t, 1, m.TotalLeads)
	assert.InDelta(t, 2.0/3.0, m.ConversionRate, 1e-9)
	assert.True(t, decimal.NewFromInt(3000).Equal(m.TotalRevenue), m.TotalRevenue.String())
	assert.True(t, decimal.NewFromInt(1500).Equal(m.AvgDealSize), m.AvgDealSize.String())
	assert.Equal(t, 0, m.FlaggedLineItems)
}

func TestCalculateMetricsRevenueFallbacks(t *testing.T) {
	wonLead := pipelineLead("a", domain.StageClosedWon, domain.SourceWebsite, base)
	wonLead.ProjectedValue = money(800)

	noValue := pipelineLead("b", domain.StageClosedWon, domain.SourceWebsite, base)

	openLead := pipelineLead("c", domain.StageNegotiation, domain.SourceWebsite, base)
	openLead.ProjectedValue = money(5000)

	customerNoItems := wonCustomer("d", base)
	customerNoItems.ProjectedValue = money(200)

	m := CalculateMetrics([]domain.Lead{wonLead, noValue, openLead, customerNoItems})

	assert.Equal(t, 3, m.TotalLeads)
	assert.InDelta(t, 0.75, m.ConversionRate, 1e-9)
	assert.True(t, decimal.NewFromInt(1000).Equal(m.TotalRevenue), m.TotalRevenue.String())
	assert.True(t, decimal.NewFromInt(500).Equal(m.AvgDealSize), "deals without revenue are not averaged")
}

func TestCalculateMetricsFlagsNegativePrices(t *testing.T) {
	c := wonCustomer("a", base, 300, -50)

	m := CalculateMetrics([]domain.Lead{c})

	assert.Equal(t, 1, m.FlaggedLineItems)
	assert.True(t, decimal.NewFromInt(300).Equal(m.TotalRevenue))
}

func TestGroupByStageIsComplete(t *testing.T) {
	leads := []domain.Lead{
		pipelineLead("a", domain.StageQualified, domain.SourceWebsite, base),
		pipelineLead("b", domain.StageQualified, domain.SourceWebsite, base),
		pipelineLead("c", domain.StageClosedLost, domain.SourceWebsite, base),
		wonCustomer("d", base, 100),
	}

	got := GroupByStage(leads)

	require.Len(t, got, len(domain.Stages))
	for i, s := range domain.Stages {
		assert.Equal(t, s, got[i].Key)
	}
	assert.Equal(t, 2, got.Get(domain.StageQualified))
	assert.Equal(t, 1, got.Get(domain.StageClosedWon))
	assert.Equal(t, 0, got.Get(domain.StageNegotiation))
	assert.Equal(t, len(leads), got.Total())
}

func TestGroupBySourceIsComplete(t *testing.T) {
	leads := []domain.Lead{
		pipelineLead("a", domain.StageNewLead, domain.SourceYardSign, base),
		pipelineLead("b", domain.StageNewLead, domain.SourceOther, base),
		wonCustomer("c", base, 100),
	}

	got := GroupBySource(leads)

	require.Len(t, got, len(domain.Sources))
	assert.Equal(t, domain.SourceWebsite, got[0].Key)
	assert.Equal(t, domain.SourceOther, got[len(got)-1].Key)
	assert.Equal(t, 1, got.Get(domain.SourceYardSign))
	assert.Equal(t, 1, got.Get(domain.SourceReferral))
	assert.Equal(t, len(leads), got.Total())

	empty := GroupBySource(nil)
	assert.Len(t, empty, len(domain.Sources))
	assert.Equal(t, 0, empty.Total())
}

func TestSummarize(t *testing.T) {
	s := Summarize([]domain.Lead{wonCustomer("a", base, 100)})

	assert.Equal(t, 1, s.Stages.Total())
	assert.Equal(t, 1, s.Sources.Total())
	assert.InDelta(t, 1.0, s.Metrics.ConversionRate, 1e-9)
}
