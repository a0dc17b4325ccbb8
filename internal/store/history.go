package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PushLocation records loc as the newest entry of screen's history,
// dropping any entries after cursor (the entry currently displayed)
// the way a browser discards its forward stack. A cursor of 0 means
// "at the end". Pushing the location already at the cursor is a no-op
// and returns that entry.
func (s *Store) PushLocation(screen, loc string, cursor int64) (*Location, error) {
	if cursor > 0 {
		cur, err := s.getLocation(cursor)
		if err != nil {
			return nil, err
		}
		if cur != nil && cur.Screen == screen && cur.Location == loc {
			return cur, nil
		}
		if _, err := s.db.Exec(`DELETE FROM location_history WHERE screen = ? AND id > ?`, screen, cursor); err != nil {
			return nil, fmt.Errorf("truncate history: %w", err)
		}
	} else {
		latest, err := s.LatestLocation(screen)
		if err != nil {
			return nil, err
		}
		if latest != nil && latest.Location == loc {
			return latest, nil
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO location_history (screen, location, created_at) VALUES (?, ?, ?)`,
		screen, loc, now,
	)
	if err != nil {
		return nil, fmt.Errorf("push location: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getLocation(id)
}

// LatestLocation returns the newest entry for screen, or nil.
func (s *Store) LatestLocation(screen string) (*Location, error) {
	return s.scanLocation(s.db.QueryRow(
		`SELECT id, screen, location, created_at FROM location_history
		 WHERE screen = ? ORDER BY id DESC LIMIT 1`, screen,
	))
}

// PreviousLocation returns the entry before id, or nil at the start.
func (s *Store) PreviousLocation(screen string, id int64) (*Location, error) {
	return s.scanLocation(s.db.QueryRow(
		`SELECT id, screen, location, created_at FROM location_history
		 WHERE screen = ? AND id < ? ORDER BY id DESC LIMIT 1`, screen, id,
	))
}

// NextLocation returns the entry after id, or nil at the end.
func (s *Store) NextLocation(screen string, id int64) (*Location, error) {
	return s.scanLocation(s.db.QueryRow(
		`SELECT id, screen, location, created_at FROM location_history
		 WHERE screen = ? AND id > ? ORDER BY id ASC LIMIT 1`, screen, id,
	))
}

func (s *Store) getLocation(id int64) (*Location, error) {
	return s.scanLocation(s.db.QueryRow(
		`SELECT id, screen, location, created_at FROM location_history WHERE id = ?`, id,
	))
}

func (s *Store) scanLocation(row *sql.Row) (*Location, error) {
	l := &Location{}
	var createdAt string
	err := row.Scan(&l.ID, &l.Screen, &l.Location, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan location: %w", err)
	}
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return l, nil
}
