// Package analytics reduces lead snapshots into the figures and series shown
// on the analytics dashboard. Everything here is a pure function of its input.
package analytics

import (
	"github.com/shopspring/decimal"

	"leadtracker/internal/domain"
)

type Metrics struct {
	TotalLeads     int             `json:"total_leads"`
	ConversionRate float64         `json:"conversion_rate"`
	AvgDealSize    decimal.Decimal `json:"avg_deal_size"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	// FlaggedLineItems counts negative line item prices that were summed as 0.
	FlaggedLineItems int `json:"flagged_line_items"`
}

// RealizedValue is what a won deal brought in: its line items when the record
// has any, else its projected value, else zero. Negative prices count as zero
// and are reported in flagged.
func RealizedValue(l domain.Lead) (value decimal.Decimal, flagged int) {
	if c, ok := l.Customer(); ok && len(c.Data.LineItems) > 0 {
		for _, item := range c.Data.LineItems {
			if item.Price.IsNegative() {
				flagged++
				continue
			}
			value = value.Add(item.Price)
		}
		return value, flagged
	}
	if l.ProjectedValue != nil && l.ProjectedValue.IsPositive() {
		return *l.ProjectedValue, 0
	}
	return decimal.Zero, 0
}

func CalculateMetrics(leads []domain.Lead) Metrics {
	var m Metrics
	won, paying := 0, 0

	for _, l := range leads {
		if !l.ConvertedToCustomer() {
			m.TotalLeads++
		}
		if l.Stage != domain.StageClosedWon {
			continue
		}
		won++

		value, flagged := RealizedValue(l)
		m.FlaggedLineItems += flagged
		if value.IsPositive() {
			paying++
			m.TotalRevenue = m.TotalRevenue.Add(value)
		}
	}

	m.ConversionRate = rate(won, len(leads))
	if paying > 0 {
		m.AvgDealSize = m.TotalRevenue.Div(decimal.NewFromInt(int64(paying)))
	}
	return m
}

func rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
