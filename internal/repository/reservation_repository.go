package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/chakai/reservation-api/internal/model"
)

// ReservationRepo provides read access to reservations. All mutations
// run through the capacity service so that the slot and event counters
// move together with the rows.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `r.id, r.event_id, r.slot_id, r.number, r.participants,
       r.name, r.email, r.phone, r.companion1, r.companion2, r.companion3,
       r.notes, r.total_cost_yen, r.version, r.created_at, r.updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var (
		res        model.Reservation
		c1, c2, c3 sql.NullString
		notes      sql.NullString
	)
	err := row.Scan(&res.ID, &res.EventID, &res.SlotID, &res.Number, &res.Participants,
		&res.Name, &res.Email, &res.Phone, &c1, &c2, &c3,
		&notes, &res.TotalCostYen, &res.Version, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, c := range []sql.NullString{c1, c2, c3} {
		if c.Valid && c.String != "" {
			res.Companions = append(res.Companions, c.String)
		}
	}
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return &res, nil
}

// GetByID fetches one reservation. Returns ErrReservationNotFound when
// missing.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r WHERE r.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// GetByEventAndNumber resolves the guest lookup flow: event selection
// plus the 6-digit reservation number.
func (r *ReservationRepo) GetByEventAndNumber(ctx context.Context, eventID uint64, number string) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r WHERE r.event_id = ? AND r.number = ?`,
		eventID, number))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// SlotReservations groups an event's reservations under one time slot,
// matching the admin list screen's expand/collapse-by-slot layout.
type SlotReservations struct {
	Slot         SlotRecord          `json:"slot"`
	Reservations []model.Reservation `json:"reservations"`
}

// ListByEventGrouped returns every reservation of the event grouped by
// its time slot. Slots without reservations are included with an empty
// list so the admin screen still shows them.
func (r *ReservationRepo) ListByEventGrouped(ctx context.Context, eventID uint64) ([]SlotReservations, error) {
	slotRows, err := r.db.QueryContext(ctx,
		`SELECT `+slotColumns+` FROM time_slots WHERE event_id = ? ORDER BY label, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer slotRows.Close()
	groups := make([]SlotReservations, 0)
	index := make(map[uint64]int)
	for slotRows.Next() {
		var s SlotRecord
		if err := slotRows.Scan(&s.ID, &s.EventID, &s.Label, &s.MaxParticipants,
			&s.CurrentParticipants, &s.Version); err != nil {
			return nil, err
		}
		index[s.ID] = len(groups)
		groups = append(groups, SlotReservations{Slot: s, Reservations: []model.Reservation{}})
	}
	if err := slotRows.Err(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r
		 WHERE r.event_id = ? ORDER BY r.slot_id, r.created_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		idx, ok := index[res.SlotID]
		if !ok {
			continue
		}
		groups[idx].Reservations = append(groups[idx].Reservations, *res)
	}
	return groups, rows.Err()
}

// AggregateGuests returns reservation holders across all events grouped
// by email, with their reservation count and total booked seats. The
// name shown is the one from the most recent reservation.
func (r *ReservationRepo) AggregateGuests(ctx context.Context) ([]model.GuestSummary, error) {
	const q = `SELECT r.email,
	                  SUBSTRING_INDEX(GROUP_CONCAT(r.name ORDER BY r.created_at DESC SEPARATOR 0x1f), 0x1f, 1),
	                  COUNT(*),
	                  COALESCE(SUM(r.participants), 0)
	           FROM reservations r
	           GROUP BY r.email
	           ORDER BY r.email`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.GuestSummary, 0)
	for rows.Next() {
		var g model.GuestSummary
		if err := rows.Scan(&g.Email, &g.Name, &g.Reservations, &g.TotalSeats); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
