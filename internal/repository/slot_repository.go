package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SlotRepo provides read access to time slots. Creation, resizing and
// removal cascade into the counters and therefore live in the capacity
// service.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// SlotRecord mirrors the time_slots table.
type SlotRecord struct {
	ID                  uint64 `json:"id"`
	EventID             uint64 `json:"event_id"`
	Label               string `json:"label"`
	MaxParticipants     uint32 `json:"max_participants"`
	CurrentParticipants uint32 `json:"current_participants"`
	Version             uint32 `json:"version"`
}

const slotColumns = `id, event_id, label, max_participants, current_participants, version`

// GetByID fetches one slot. Returns ErrSlotNotFound when missing.
func (r *SlotRepo) GetByID(ctx context.Context, id uint64) (*SlotRecord, error) {
	var s SlotRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM time_slots WHERE id = ?`, id).
		Scan(&s.ID, &s.EventID, &s.Label, &s.MaxParticipants, &s.CurrentParticipants, &s.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByEvent returns the event's slots in label order, which matches
// how the booking screens present them.
func (r *SlotRepo) ListByEvent(ctx context.Context, eventID uint64) ([]SlotRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM time_slots WHERE event_id = ? ORDER BY label, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]SlotRecord, 0)
	for rows.Next() {
		var s SlotRecord
		if err := rows.Scan(&s.ID, &s.EventID, &s.Label, &s.MaxParticipants,
			&s.CurrentParticipants, &s.Version); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
