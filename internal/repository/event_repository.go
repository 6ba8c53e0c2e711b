package repository

import (
	"context"
	"database/sql"
	"errors"
)

// EventRepo provides read and plain-CRUD access to events. Anything that
// touches the participant counters or cascades to slots and reservations
// goes through the capacity service instead; this repository only serves
// metadata reads and writes.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers that open transactions.
func (r *EventRepo) DB() *sql.DB { return r.db }

// EventRecord mirrors the events table.
type EventRecord struct {
	ID                  uint64  `json:"id"`
	Title               string  `json:"title"`
	Venue               string  `json:"venue"`
	EventDate           string  `json:"event_date"`
	CostYen             uint32  `json:"cost_yen"`
	Description         *string `json:"description,omitempty"`
	ImageURL            *string `json:"image_url,omitempty"`
	MaxParticipants     uint32  `json:"max_participants"`
	CurrentParticipants uint32  `json:"current_participants"`
	IsActive            bool    `json:"is_active"`
	Version             uint32  `json:"version"`
}

const eventColumns = `id, title, venue, event_date, cost_yen, description, image_url,
       max_participants, current_participants, is_active, version`

func scanEvent(row interface{ Scan(...any) error }) (*EventRecord, error) {
	var (
		e    EventRecord
		desc sql.NullString
		img  sql.NullString
	)
	err := row.Scan(&e.ID, &e.Title, &e.Venue, &e.EventDate, &e.CostYen, &desc, &img,
		&e.MaxParticipants, &e.CurrentParticipants, &e.IsActive, &e.Version)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		e.Description = &d
	}
	if img.Valid {
		u := img.String
		e.ImageURL = &u
	}
	return &e, nil
}

// Create inserts a new event with zeroed counters and returns its ID.
// Counters stay at zero until slots are added and seats are booked.
func (r *EventRepo) Create(ctx context.Context, e *EventRecord) (uint64, error) {
	const q = `INSERT INTO events (title, venue, event_date, cost_yen, description, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Venue, e.EventDate, e.CostYen, e.Description, e.IsActive)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	e.ID = uint64(id)
	return e.ID, nil
}

// GetByID fetches one event. Returns ErrEventNotFound when missing.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*EventRecord, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

// List returns events ordered newest first. When activeOnly is set,
// hidden events are filtered out; the public catalog uses that form.
func (r *EventRepo) List(ctx context.Context, activeOnly bool) ([]EventRecord, error) {
	q := `SELECT ` + eventColumns + ` FROM events`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EventRecord, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Update rewrites the event's metadata fields. The caller supplies the
// version it last read; a stale version fails with ErrVersionConflict
// and nothing is written. Counters are never touched here, only the
// capacity ledger moves them.
func (r *EventRepo) Update(ctx context.Context, e *EventRecord) error {
	const q = `UPDATE events
	           SET title = ?, venue = ?, event_date = ?, cost_yen = ?, description = ?,
	               is_active = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Venue, e.EventDate, e.CostYen,
		e.Description, e.IsActive, e.ID, e.Version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a missing row from a stale version.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = ?)`, e.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}
		return ErrVersionConflict
	}
	e.Version++
	return nil
}

// SetImageURL stores the uploaded image URL verbatim on the event. The
// image path is keyed by filename, so re-uploading the same name simply
// points at the overwritten object.
func (r *EventRepo) SetImageURL(ctx context.Context, id uint64, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET image_url = ? WHERE id = ?`, url, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = ?)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrEventNotFound
		}
	}
	return nil
}
