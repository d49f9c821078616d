// Package report writes the stored analysis out as a spreadsheet.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"carbonwise/internal"
	"carbonwise/internal/analysis"
)

const (
	SheetSummary    = "Summary"
	SheetBreakdown  = "Breakdown"
	SheetActivities = "Activities"
	SheetUploads    = "Uploads"
)

func ExportXLSX(snap internal.AnalysisSnapshot, sum analysis.Summary, outputPath string) error {
	f, err := build(snap, sum)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func WriteXLSX(w io.Writer, snap internal.AnalysisSnapshot, sum analysis.Summary) error {
	f, err := build(snap, sum)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

func build(snap internal.AnalysisSnapshot, sum analysis.Summary) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetBreakdown, SheetActivities, SheetUploads} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("add sheet %s: %w", name, err)
		}
	}

	summary := [][]any{
		{"metric", "value"},
		{"total_kg_co2", sum.TotalEmissions},
		{"eco_score", sum.EcoScore},
		{"vs_target_kg", sum.VsTarget},
		{"vs_average_kg", sum.VsAverage},
		{"analysed_at", snap.Timestamp},
		{"files", len(snap.Files)},
		{"activities", len(snap.Activities)},
	}
	writeRows(f, SheetSummary, summary)

	breakdown := [][]any{{"category", "emissions_kg", "percentage"}}
	for _, b := range sum.Breakdown {
		breakdown = append(breakdown, []any{string(b.Category), b.Emissions, b.Percentage})
	}
	writeRows(f, SheetBreakdown, breakdown)

	activities := [][]any{{"source", "category", "description", "amount", "unit", "period", "emissions_kg"}}
	for _, a := range sum.Activities {
		activities = append(activities, []any{a.Source, string(a.Type), a.Description, a.Amount, a.Unit, a.Period, a.CarbonEmissions})
	}
	writeRows(f, SheetActivities, activities)

	uploads := [][]any{{"id", "name", "category", "amount", "period", "emissions_kg"}}
	for _, u := range snap.Files {
		row := []any{u.ID, u.File.Name, "", "", "", ""}
		if d := u.ExtractedData; d != nil {
			row[2], row[3], row[4], row[5] = string(d.Type), d.Amount, d.Period, d.CarbonEmissions
		}
		uploads = append(uploads, row)
	}
	writeRows(f, SheetUploads, uploads)

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) {
	for i, row := range rows {
		for j, value := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}
}
