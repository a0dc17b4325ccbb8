package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func sampleTable() Table {
	return Table{
		Title:    "Trainers",
		Location: "/trainers?kyc_status=done&limit=10&page=1",
		Headers:  []string{"S.NO", "NAME", "EMAIL", "KYC STATUS"},
		Rows: [][]string{
			{"1", "Ravi Kumar", "ravi@fit.in", "done"},
			{"2", `Asha "Coach" Rao`, "asha@fit.in, asha@alt.in", "done"},
			{"3", "Short"},
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleTable(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}
	if records[0][1] != "NAME" {
		t.Fatalf("header = %v", records[0])
	}
	if records[2][1] != `Asha "Coach" Rao` || records[2][2] != "asha@fit.in, asha@alt.in" {
		t.Fatalf("special characters not preserved: %v", records[2])
	}
	if len(records[3]) != 4 || records[3][3] != "" {
		t.Fatalf("short row should be padded: %v", records[3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	tbl := sampleTable()
	tbl.Rows = nil
	if err := ToCSV(tbl, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(sampleTable(), "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleTable(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out jsonExport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 3 || out.Title != "Trainers" || out.Location == "" {
		t.Fatalf("export = %+v", out)
	}
	if out.Rows[0]["NAME"] != "Ravi Kumar" || out.Rows[2]["KYC STATUS"] != "" {
		t.Fatalf("rows = %v", out.Rows)
	}
	if _, err := time.Parse(time.RFC3339, out.ExportedAt); err != nil {
		t.Fatalf("exported_at not RFC3339: %v", err)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(Table{Headers: []string{"A"}}, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	var out map[string]any
	json.Unmarshal(data, &out)
	if rows, ok := out["rows"].([]any); !ok || len(rows) != 0 {
		t.Fatalf("rows should be an empty array, got %v", out["rows"])
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(sampleTable(), "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Files
// ============================================================

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	if got := FileName("users", CSV, now); got != "fitadmin-users-2026-10-14.csv" {
		t.Fatalf("FileName = %q", got)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(sampleTable(), "trainers", JSON, dir, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("path = %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("CSV"); err != nil || f != CSV {
		t.Fatalf("ParseFormat = %v %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Fatal("expected error")
	}
}
