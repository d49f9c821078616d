package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"carbonwise/internal"
	"carbonwise/internal/analysis"
)

func sample() internal.AnalysisSnapshot {
	return internal.AnalysisSnapshot{
		Files: []internal.UploadedFile{{
			ID:       "f1",
			File:     internal.FileRef{Name: "electricity-march.pdf"},
			Status:   internal.StatusCompleted,
			Progress: 100,
			ExtractedData: &internal.ExtractedData{
				Type: internal.CategoryEnergy, Amount: 320, Period: "monthly", CarbonEmissions: 41,
			},
		}},
		Activities: []internal.ManualActivity{{Type: "food", Description: "dinners", Value: "2"}},
		Timestamp:  "2026-03-01T09:00:03Z",
	}
}

func TestExportXLSX(t *testing.T) {
	snap := sample()
	out := filepath.Join(t.TempDir(), "reports", "carbon.xlsx")
	if err := ExportXLSX(snap, analysis.Summarize(snap), out); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := []string{SheetSummary, SheetBreakdown, SheetActivities, SheetUploads}
	if len(sheets) != len(want) {
		t.Fatalf("sheets=%v", sheets)
	}
	for i := range want {
		if sheets[i] != want[i] {
			t.Fatalf("sheet %d=%s want %s", i, sheets[i], want[i])
		}
	}

	total, _ := f.GetCellValue(SheetSummary, "B2")
	if total != "52" {
		t.Fatalf("total=%q", total)
	}
	ts, _ := f.GetCellValue(SheetSummary, "B6")
	if ts != snap.Timestamp {
		t.Fatalf("timestamp=%q", ts)
	}

	rows, err := f.GetRows(SheetActivities)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("activity rows=%d", len(rows))
	}
	if rows[1][0] != analysis.SourceUpload || rows[2][0] != analysis.SourceManual {
		t.Fatalf("sources=%s,%s", rows[1][0], rows[2][0])
	}

	name, _ := f.GetCellValue(SheetUploads, "B2")
	if name != "electricity-march.pdf" {
		t.Fatalf("upload name=%q", name)
	}
}

func TestWriteXLSXStreamsWorkbook(t *testing.T) {
	snap := sample()
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, snap, analysis.Summarize(snap)); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	defer f.Close()

	cat, _ := f.GetCellValue(SheetBreakdown, "A2")
	if cat != string(internal.CategoryTransport) {
		t.Fatalf("first breakdown row=%q", cat)
	}
}
