package capacity

import (
	"context"

	"github.com/chakai/reservation-api/internal/model"
)

// Ledger is the set of row-level operations the accounting service needs
// inside one transaction. The production implementation lives in the
// repository package and wraps *sql.Tx; tests supply an in-memory fake.
//
// ForUpdate variants take a row lock so that two concurrent bookings for
// the same slot serialize on the slot row. All counter mutations clamp at
// zero so that pre-existing drift never produces negative counts.
type Ledger interface {
	EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, error)
	SlotForUpdate(ctx context.Context, slotID uint64) (*model.TimeSlot, error)
	ReservationForUpdate(ctx context.Context, reservationID uint64) (*model.Reservation, error)
	ReservationByNumberForUpdate(ctx context.Context, eventID uint64, number string) (*model.Reservation, error)

	// ReservationByKey returns the reservation previously created with the
	// given idempotency key, or nil when the key has not been seen.
	ReservationByKey(ctx context.Context, key string) (*model.Reservation, error)
	NumberTaken(ctx context.Context, eventID uint64, number string) (bool, error)

	InsertReservation(ctx context.Context, res *model.Reservation, idempotencyKey string) error
	// UpdateReservation persists the given state. res.Version holds the
	// version the caller read; the implementation bumps it by one and must
	// fail with ErrVersionConflict on a stale write.
	UpdateReservation(ctx context.Context, res *model.Reservation) error
	DeleteReservation(ctx context.Context, reservationID uint64) error
	DeleteReservationsBySlot(ctx context.Context, slotID uint64) error

	// AddSlotSeats / AddEventSeats apply a signed delta to the
	// current_participants counter, clamped at a floor of zero.
	AddSlotSeats(ctx context.Context, slotID uint64, delta int64) error
	AddEventSeats(ctx context.Context, eventID uint64, delta int64) error

	InsertSlot(ctx context.Context, slot *model.TimeSlot) error
	UpdateSlot(ctx context.Context, slot *model.TimeSlot) error
	DeleteSlot(ctx context.Context, slotID uint64) error

	// SyncEventCapacity recomputes event.max_participants as the sum of
	// its slots' maximums. Called after every slot mutation.
	SyncEventCapacity(ctx context.Context, eventID uint64) error

	// DeleteEventCascade removes the event together with all of its slots
	// and reservations.
	DeleteEventCascade(ctx context.Context, eventID uint64) error
}

// Store opens a transaction and runs fn against it, committing when fn
// returns nil and rolling back otherwise.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Ledger) error) error
}
