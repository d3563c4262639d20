package sink

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteWorkbook(t *testing.T) {
	tab, sums, res := sinkFixture()
	path := filepath.Join(t.TempDir(), "analysis.xlsx")
	if err := WriteWorkbook(path, tab, sums, res); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{
		sheetRaw, sheetTopModels, sheetRegions, sheetFuel,
		sheetYearly, sheetTransmissions, sheetDescribe, sheetCorrelation,
	}
	have := map[string]bool{}
	for _, name := range f.GetSheetList() {
		have[name] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("workbook missing sheet %s (have %v)", name, f.GetSheetList())
		}
	}

	raw, err := f.GetRows(sheetRaw)
	if err != nil {
		t.Fatalf("read raw sheet: %v", err)
	}
	if len(raw) != len(tab.Records)+1 {
		t.Fatalf("raw sheet rows = %d, want %d", len(raw), len(tab.Records)+1)
	}
	if raw[0][0] != "Model" || raw[1][0] != "X5" {
		t.Fatalf("raw sheet content = %v / %v", raw[0], raw[1])
	}

	top, err := f.GetRows(sheetTopModels)
	if err != nil {
		t.Fatalf("read top models sheet: %v", err)
	}
	if len(top) != len(sums.TopModels)+1 {
		t.Fatalf("top models rows = %d, want %d", len(top), len(sums.TopModels)+1)
	}
	if top[1][0] != sums.TopModels[0].Model {
		t.Fatalf("top model = %q, want %q", top[1][0], sums.TopModels[0].Model)
	}

	corr, err := f.GetRows(sheetCorrelation)
	if err != nil {
		t.Fatalf("read correlation sheet: %v", err)
	}
	wantRows := len(res.Correlation.Columns) + 1
	if len(corr) != wantRows {
		t.Fatalf("correlation rows = %d, want %d", len(corr), wantRows)
	}
}
