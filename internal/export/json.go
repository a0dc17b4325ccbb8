package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type jsonExport struct {
	ExportedAt string              `json:"exported_at"`
	Title      string              `json:"title"`
	Location   string              `json:"location,omitempty"`
	Count      int                 `json:"count"`
	Rows       []map[string]string `json:"rows"`
}

func ToJSON(t Table, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Title:      t.Title,
		Location:   t.Location,
		Count:      len(t.Rows),
		Rows:       make([]map[string]string, 0, len(t.Rows)),
	}

	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for i, h := range t.Headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}
		export.Rows = append(export.Rows, rec)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
