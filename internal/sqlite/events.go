package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// eventOrder sorts by time ascending with no-time events last, then by
// title for stability.
const eventOrder = `CASE WHEN time = '' THEN 1 ELSE 0 END, time, title`

// EventCreate inserts an event if the (title, date, time) triple is
// absent. Re-issuing the same create is harmless: the duplicate is a
// silent no-op and still reports success.
func (s *Store) EventCreate(title, date, tm string) error {
	if title == "" {
		return types.ErrInvalidTitle
	}
	if date == "" {
		return types.ErrInvalidDate
	}
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT OR IGNORE INTO events (title, date, time, completed) VALUES (?, ?, ?, 0)`,
		title, date, tm,
	)
	if err != nil {
		return fmt.Errorf("creating event: %w", err)
	}
	return nil
}

// EventListDay returns events on the exact date, ordered by time with
// no-time events last, then by title.
func (s *Store) EventListDay(date string) ([]types.Event, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT id, title, date, time, completed FROM events WHERE date = ? ORDER BY `+eventOrder,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events for %s: %w", date, err)
	}
	return hydrateEvents(rows)
}

// EventListRange returns events in the inclusive date range, ordered by
// date first, then time (no-time last), then title.
func (s *Store) EventListRange(startDate, endDate string) ([]types.Event, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(
		`SELECT id, title, date, time, completed FROM events WHERE date BETWEEN ? AND ? ORDER BY date, `+eventOrder,
		startDate, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("listing events %s..%s: %w", startDate, endDate, err)
	}
	return hydrateEvents(rows)
}

// EventToggleComplete updates the completed flag on the exact matching
// rows. Matching zero rows is not an error; "no event found" is a UI
// concern, not a storage one.
func (s *Store) EventToggleComplete(title, date, tm string, completed bool) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	val := 0
	if completed {
		val = 1
	}
	_, err = db.Exec(
		`UPDATE events SET completed = ? WHERE title = ? AND date = ? AND time = ?`,
		val, title, date, tm,
	)
	if err != nil {
		return fmt.Errorf("toggling event: %w", err)
	}
	return nil
}

// EventDelete removes the exact matching rows and returns the count, so
// callers can report "not found" when it is zero.
func (s *Store) EventDelete(title, date, tm string) (int64, error) {
	db, err := s.conn()
	if err != nil {
		return 0, err
	}
	res, err := db.Exec(
		`DELETE FROM events WHERE title = ? AND date = ? AND time = ?`,
		title, date, tm,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted events: %w", err)
	}
	return n, nil
}

// hydrateEvents converts query rows into events.
func hydrateEvents(rows *sql.Rows) ([]types.Event, error) {
	defer rows.Close()

	var events []types.Event
	for rows.Next() {
		var e types.Event
		var completed int
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Time, &completed); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Completed = completed != 0
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}
