package store

import (
	"fmt"
	"strconv"
	"time"
)

// Setting keys seeded by the v1 migration.
const (
	SettingWeekStart       = "week_start"
	SettingDefaultPageSize = "default_page_size"
	SettingSearchDebounce  = "search_debounce_ms"
	SettingExportDir       = "export_dir"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// WeekStart returns the configured first day of the week (Monday unless
// the setting says "sunday").
func (s *Store) WeekStart() time.Weekday {
	v, err := s.GetSetting(SettingWeekStart)
	if err == nil && v == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// IntSetting reads an integer setting, returning fallback when it is
// missing or malformed.
func (s *Store) IntSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
