package analytics

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"leadtracker/internal/domain"
)

// Report is everything written to a pipeline workbook.
type Report struct {
	GeneratedAt time.Time
	Summary     Summary
	Trend       []TrendPoint
	Leads       []domain.Lead
}

func NewReport(leads []domain.Lead, trend []TrendPoint, now time.Time) Report {
	return Report{
		GeneratedAt: now,
		Summary:     Summarize(leads),
		Trend:       trend,
		Leads:       leads,
	}
}

var leadHeaders = []string{
	"ID", "Name", "Email", "Phone", "Stage", "Priority", "Source",
	"Projected Value", "Realized Value", "Customer", "Archived", "Created At",
}

// WriteReport renders r as an xlsx workbook with one sheet per chart.
func WriteReport(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	m := r.Summary.Metrics
	summary := [][]interface{}{
		{"Metric", "Value"},
		{"Generated At", r.GeneratedAt.Format(time.RFC3339)},
		{"Active Leads", m.TotalLeads},
		{"Conversion Rate", m.ConversionRate},
		{"Total Revenue", m.TotalRevenue.InexactFloat64()},
		{"Average Deal Size", m.AvgDealSize.InexactFloat64()},
		{"Flagged Line Items", m.FlaggedLineItems},
	}
	if err := writeSheet(f, "Summary", summary, headerStyle); err != nil {
		return err
	}

	stages := [][]interface{}{{"Stage", "Leads"}}
	for _, b := range r.Summary.Stages {
		stages = append(stages, []interface{}{string(b.Key), b.Count})
	}
	if err := writeSheet(f, "Stages", stages, headerStyle); err != nil {
		return err
	}

	sources := [][]interface{}{{"Source", "Leads"}}
	for _, b := range r.Summary.Sources {
		sources = append(sources, []interface{}{string(b.Key), b.Count})
	}
	if err := writeSheet(f, "Sources", sources, headerStyle); err != nil {
		return err
	}

	trend := [][]interface{}{{"Period", "Leads", "Won", "Conversion Rate"}}
	for _, p := range r.Trend {
		trend = append(trend, []interface{}{p.Label, p.Leads, p.Won, p.Rate})
	}
	if err := writeSheet(f, "Trend", trend, headerStyle); err != nil {
		return err
	}

	leads := [][]interface{}{toRow(leadHeaders)}
	for _, l := range r.Leads {
		leads = append(leads, leadRow(l))
	}
	if err := writeSheet(f, "Leads", leads, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 18)
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func leadRow(l domain.Lead) []interface{} {
	projected := ""
	if l.ProjectedValue != nil {
		projected = l.ProjectedValue.String()
	}
	var realized interface{} = ""
	if l.Stage == domain.StageClosedWon {
		v, _ := RealizedValue(l)
		realized = v.InexactFloat64()
	}
	return []interface{}{
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		string(l.Stage),
		string(l.Priority),
		string(l.Source),
		projected,
		realized,
		l.ConvertedToCustomer(),
		l.Archived(),
		l.CreatedAt.Format(time.RFC3339),
	}
}
