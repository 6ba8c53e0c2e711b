package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chakai/reservation-api/internal/capacity"
	"github.com/chakai/reservation-api/internal/model"
)

// CapacityStore is the production capacity.Store. Every accounting
// operation runs against one *sql.Tx so the reservation row and both
// counters commit or roll back together.
type CapacityStore struct {
	db *sql.DB
}

// NewCapacityStore returns a CapacityStore bound to the given database.
func NewCapacityStore(db *sql.DB) *CapacityStore { return &CapacityStore{db: db} }

// WithTx opens a transaction, runs fn against it and commits when fn
// returns nil. Any error rolls the whole mutation back.
func (s *CapacityStore) WithTx(ctx context.Context, fn func(tx capacity.Ledger) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&ledgerTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ledgerTx implements capacity.Ledger on top of a single transaction.
type ledgerTx struct {
	tx *sql.Tx
}

func (l *ledgerTx) EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, error) {
	const q = `SELECT id, title, venue, event_date, cost_yen, description, image_url,
	                  max_participants, current_participants, is_active, version,
	                  created_at, updated_at
	           FROM events WHERE id = ? FOR UPDATE`
	var (
		e    model.Event
		desc sql.NullString
		img  sql.NullString
	)
	err := l.tx.QueryRowContext(ctx, q, eventID).Scan(
		&e.ID, &e.Title, &e.Venue, &e.EventDate, &e.CostYen, &desc, &img,
		&e.MaxParticipants, &e.CurrentParticipants, &e.IsActive, &e.Version,
		&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
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

func (l *ledgerTx) SlotForUpdate(ctx context.Context, slotID uint64) (*model.TimeSlot, error) {
	const q = `SELECT id, event_id, label, max_participants, current_participants, version,
	                  created_at, updated_at
	           FROM time_slots WHERE id = ? FOR UPDATE`
	var s model.TimeSlot
	err := l.tx.QueryRowContext(ctx, q, slotID).Scan(
		&s.ID, &s.EventID, &s.Label, &s.MaxParticipants, &s.CurrentParticipants,
		&s.Version, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (l *ledgerTx) ReservationForUpdate(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	res, err := scanReservation(l.tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r WHERE r.id = ? FOR UPDATE`,
		reservationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

func (l *ledgerTx) ReservationByNumberForUpdate(ctx context.Context, eventID uint64, number string) (*model.Reservation, error) {
	res, err := scanReservation(l.tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r
		 WHERE r.event_id = ? AND r.number = ? FOR UPDATE`,
		eventID, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

func (l *ledgerTx) ReservationByKey(ctx context.Context, key string) (*model.Reservation, error) {
	res, err := scanReservation(l.tx.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r WHERE r.idempotency_key = ?`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return res, err
}

func (l *ledgerTx) NumberTaken(ctx context.Context, eventID uint64, number string) (bool, error) {
	var taken bool
	err := l.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM reservations WHERE event_id = ? AND number = ?)`,
		eventID, number).Scan(&taken)
	return taken, err
}

func (l *ledgerTx) InsertReservation(ctx context.Context, res *model.Reservation, idempotencyKey string) error {
	const q = `INSERT INTO reservations
	           (event_id, slot_id, number, participants, name, email, phone,
	            companion1, companion2, companion3, notes, total_cost_yen, idempotency_key)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var comp [3]*string
	for i := range res.Companions {
		if i >= len(comp) {
			break
		}
		comp[i] = &res.Companions[i]
	}
	var key *string
	if idempotencyKey != "" {
		key = &idempotencyKey
	}
	result, err := l.tx.ExecContext(ctx, q, res.EventID, res.SlotID, res.Number,
		res.Participants, res.Name, res.Email, res.Phone,
		comp[0], comp[1], comp[2], res.Notes, res.TotalCostYen, key)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	res.Version = 1
	return nil
}

func (l *ledgerTx) UpdateReservation(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET slot_id = ?, participants = ?, name = ?, email = ?, phone = ?,
	               companion1 = ?, companion2 = ?, companion3 = ?, notes = ?,
	               total_cost_yen = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	var comp [3]*string
	for i := range res.Companions {
		if i >= len(comp) {
			break
		}
		comp[i] = &res.Companions[i]
	}
	result, err := l.tx.ExecContext(ctx, q, res.SlotID, res.Participants, res.Name,
		res.Email, res.Phone, comp[0], comp[1], comp[2], res.Notes,
		res.TotalCostYen, res.ID, res.Version)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	res.Version++
	return nil
}

func (l *ledgerTx) DeleteReservation(ctx context.Context, reservationID uint64) error {
	_, err := l.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, reservationID)
	return err
}

func (l *ledgerTx) DeleteReservationsBySlot(ctx context.Context, slotID uint64) error {
	_, err := l.tx.ExecContext(ctx, `DELETE FROM reservations WHERE slot_id = ?`, slotID)
	return err
}

// Counter deltas are applied in SQL with a floor of zero. The column is
// unsigned, so the arithmetic is done signed and clamped before the
// value is written back.
func (l *ledgerTx) AddSlotSeats(ctx context.Context, slotID uint64, delta int64) error {
	_, err := l.tx.ExecContext(ctx,
		`UPDATE time_slots
		 SET current_participants = GREATEST(0, CAST(current_participants AS SIGNED) + ?)
		 WHERE id = ?`, delta, slotID)
	return err
}

func (l *ledgerTx) AddEventSeats(ctx context.Context, eventID uint64, delta int64) error {
	_, err := l.tx.ExecContext(ctx,
		`UPDATE events
		 SET current_participants = GREATEST(0, CAST(current_participants AS SIGNED) + ?)
		 WHERE id = ?`, delta, eventID)
	return err
}

func (l *ledgerTx) InsertSlot(ctx context.Context, slot *model.TimeSlot) error {
	result, err := l.tx.ExecContext(ctx,
		`INSERT INTO time_slots (event_id, label, max_participants) VALUES (?, ?, ?)`,
		slot.EventID, slot.Label, slot.MaxParticipants)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	slot.ID = uint64(id)
	slot.Version = 1
	return nil
}

func (l *ledgerTx) UpdateSlot(ctx context.Context, slot *model.TimeSlot) error {
	const q = `UPDATE time_slots
	           SET label = ?, max_participants = ?, version = version + 1
	           WHERE id = ? AND version = ?`
	result, err := l.tx.ExecContext(ctx, q, slot.Label, slot.MaxParticipants, slot.ID, slot.Version)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	slot.Version++
	return nil
}

func (l *ledgerTx) DeleteSlot(ctx context.Context, slotID uint64) error {
	_, err := l.tx.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, slotID)
	return err
}

func (l *ledgerTx) SyncEventCapacity(ctx context.Context, eventID uint64) error {
	_, err := l.tx.ExecContext(ctx,
		`UPDATE events
		 SET max_participants = (SELECT COALESCE(SUM(max_participants), 0)
		                         FROM time_slots WHERE event_id = ?)
		 WHERE id = ?`, eventID, eventID)
	return err
}

func (l *ledgerTx) DeleteEventCascade(ctx context.Context, eventID uint64) error {
	if _, err := l.tx.ExecContext(ctx,
		`DELETE FROM reservations WHERE event_id = ?`, eventID); err != nil {
		return err
	}
	if _, err := l.tx.ExecContext(ctx,
		`DELETE FROM time_slots WHERE event_id = ?`, eventID); err != nil {
		return err
	}
	_, err := l.tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	return err
}
