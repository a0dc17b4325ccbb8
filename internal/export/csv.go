package export

import (
	"encoding/csv"
	"fmt"
	"os"
)

func ToCSV(t Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(pad(row, len(t.Headers))); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// pad fits row to n cells so every record has the header's width.
func pad(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}
