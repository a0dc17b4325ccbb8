// Package export writes the rows of a list screen to CSV or JSON files.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Table is a rendered listing: one header row and string cells.
type Table struct {
	Title    string
	Location string
	Headers  []string
	Rows     [][]string
}

// Format is an output file format.
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case CSV:
		return CSV, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// FileName is fitadmin-<screen>-YYYY-MM-DD.<ext>.
func FileName(screen string, f Format, now time.Time) string {
	return fmt.Sprintf("fitadmin-%s-%s.%s", screen, now.Format("2006-01-02"), f)
}

// Write exports t into dir under FileName and returns the path.
func Write(t Table, screen string, f Format, dir string, now time.Time) (string, error) {
	path := filepath.Join(dir, FileName(screen, f, now))
	var err error
	switch f {
	case CSV:
		err = ToCSV(t, path)
	case JSON:
		err = ToJSON(t, path)
	default:
		err = fmt.Errorf("unknown export format %q", f)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}
