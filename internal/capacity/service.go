// Package capacity holds the accounting logic that keeps the derived
// participant counters on events and time slots consistent with the set
// of live reservations. Earlier revisions of this system re-implemented
// the counter arithmetic at every call site with independent writes and
// no transaction, which is exactly how the counters drifted; every
// mutation now flows through this one service and commits atomically.
package capacity

import (
	"context"
	"fmt"
	"strings"

	"github.com/chakai/reservation-api/internal/model"
	"github.com/chakai/reservation-api/internal/utils"
)

// numberAttempts bounds the retry loop when allocating a reservation
// number. Collisions are rare until an event is nearly sold out of the
// 6-digit space.
const numberAttempts = 20

// Service applies reservation, slot and event mutations while keeping
// the capacity counters in sync. All operations run inside a single
// transaction supplied by the Store.
type Service struct {
	store Store

	// newNumber generates candidate reservation numbers; overridable in
	// tests to force collisions.
	newNumber func() (string, error)
}

// NewService returns a Service bound to the given transactional store.
func NewService(store Store) *Service {
	return &Service{store: store, newNumber: utils.ReservationNumber}
}

// ReserveInput carries everything needed to book seats into a slot.
// IdempotencyKey is optional; when set, replaying the same key returns
// the reservation created by the first attempt instead of booking twice.
type ReserveInput struct {
	EventID        uint64
	SlotID         uint64
	Participants   uint32
	Name           string
	Email          string
	Phone          string
	Companions     []string
	Notes          *string
	IdempotencyKey string

	// AdminOverride books into inactive events, used by the admin screens
	// to register phone reservations for events not yet published.
	AdminOverride bool
}

// maxPartySize caps the seats a single reservation may carry. It bounds
// the counter and cost arithmetic below well inside the uint32 range.
const maxPartySize = 100

func (in *ReserveInput) validate() error {
	if in.Participants < 1 {
		return fmt.Errorf("%w: participants must be at least 1", ErrValidation)
	}
	if in.Participants > maxPartySize {
		return fmt.Errorf("%w: at most %d participants", ErrValidation, maxPartySize)
	}
	if len(in.Companions) > model.MaxCompanions {
		return fmt.Errorf("%w: at most %d companions", ErrValidation, model.MaxCompanions)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	return nil
}

// ReserveSeats books in.Participants seats against one time slot. It
// allocates the reservation number, computes the total cost from the
// event's current price and increments both counters, all in one
// transaction. Booking past the slot's maximum fails with
// ErrCapacityExceeded.
func (s *Service) ReserveSeats(ctx context.Context, in ReserveInput) (*model.Reservation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var out *model.Reservation
	err := s.store.WithTx(ctx, func(tx Ledger) error {
		if in.IdempotencyKey != "" {
			existing, err := tx.ReservationByKey(ctx, in.IdempotencyKey)
			if err != nil {
				return err
			}
			if existing != nil {
				out = existing
				return nil
			}
		}
		event, err := tx.EventForUpdate(ctx, in.EventID)
		if err != nil {
			return err
		}
		if !event.IsActive && !in.AdminOverride {
			return ErrEventInactive
		}
		slot, err := tx.SlotForUpdate(ctx, in.SlotID)
		if err != nil {
			return err
		}
		if slot.EventID != in.EventID {
			return ErrSlotMismatch
		}
		// Signed arithmetic so a counter near the uint32 ceiling cannot
		// wrap past the check.
		if int64(slot.CurrentParticipants)+int64(in.Participants) > int64(slot.MaxParticipants) {
			return ErrCapacityExceeded
		}
		number, err := s.allocateNumber(ctx, tx, in.EventID)
		if err != nil {
			return err
		}
		res := &model.Reservation{
			EventID:      in.EventID,
			SlotID:       in.SlotID,
			Number:       number,
			Participants: in.Participants,
			Name:         strings.TrimSpace(in.Name),
			Email:        strings.ToLower(strings.TrimSpace(in.Email)),
			Phone:        strings.TrimSpace(in.Phone),
			Companions:   trimCompanions(in.Companions),
			Notes:        in.Notes,
			TotalCostYen: event.CostYen * in.Participants,
		}
		if err := tx.InsertReservation(ctx, res, in.IdempotencyKey); err != nil {
			return err
		}
		if err := tx.AddSlotSeats(ctx, slot.ID, int64(in.Participants)); err != nil {
			return err
		}
		if err := tx.AddEventSeats(ctx, event.ID, int64(in.Participants)); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReviseInput describes an edit to an existing reservation. Version is
// the revision the caller last read; a stale value is rejected.
type ReviseInput struct {
	ReservationID uint64
	Version       uint32
	SlotID        uint64
	Participants  uint32
	Name          string
	Email         string
	Phone         string
	Companions    []string
	Notes         *string
}

// ReviseReservation adjusts the counters by the party-size delta and,
// when the reservation moved to a different slot, debits the old slot by
// the old party size and credits the new slot by the new one. The total
// cost is recomputed from the event's current price.
func (s *Service) ReviseReservation(ctx context.Context, in ReviseInput) (*model.Reservation, error) {
	reserve := ReserveInput{
		Participants: in.Participants,
		Name:         in.Name,
		Email:        in.Email,
		Companions:   in.Companions,
	}
	if err := reserve.validate(); err != nil {
		return nil, err
	}
	var out *model.Reservation
	err := s.store.WithTx(ctx, func(tx Ledger) error {
		res, err := tx.ReservationForUpdate(ctx, in.ReservationID)
		if err != nil {
			return err
		}
		event, err := tx.EventForUpdate(ctx, res.EventID)
		if err != nil {
			return err
		}
		oldSlotID, oldN := res.SlotID, res.Participants

		if in.SlotID == oldSlotID {
			slot, err := tx.SlotForUpdate(ctx, oldSlotID)
			if err != nil {
				return err
			}
			// The party's own old seats are released first, so only the
			// delta counts against the cap. Signed arithmetic: drift may
			// have left the counter below the old party size.
			if int64(slot.CurrentParticipants)-int64(oldN)+int64(in.Participants) > int64(slot.MaxParticipants) {
				return ErrCapacityExceeded
			}
			if err := tx.AddSlotSeats(ctx, oldSlotID, int64(in.Participants)-int64(oldN)); err != nil {
				return err
			}
		} else {
			target, err := tx.SlotForUpdate(ctx, in.SlotID)
			if err != nil {
				return err
			}
			if target.EventID != res.EventID {
				return ErrSlotMismatch
			}
			if int64(target.CurrentParticipants)+int64(in.Participants) > int64(target.MaxParticipants) {
				return ErrCapacityExceeded
			}
			if err := tx.AddSlotSeats(ctx, oldSlotID, -int64(oldN)); err != nil {
				return err
			}
			if err := tx.AddSlotSeats(ctx, in.SlotID, int64(in.Participants)); err != nil {
				return err
			}
		}
		if err := tx.AddEventSeats(ctx, res.EventID, int64(in.Participants)-int64(oldN)); err != nil {
			return err
		}

		res.SlotID = in.SlotID
		res.Participants = in.Participants
		res.Name = strings.TrimSpace(in.Name)
		res.Email = strings.ToLower(strings.TrimSpace(in.Email))
		res.Phone = strings.TrimSpace(in.Phone)
		res.Companions = trimCompanions(in.Companions)
		res.Notes = in.Notes
		res.TotalCostYen = event.CostYen * in.Participants
		res.Version = in.Version
		if err := tx.UpdateReservation(ctx, res); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CancelReservation deletes a reservation by id and releases its seats.
// Counter decrements clamp at zero so a cancellation still succeeds when
// earlier drift left the counters low.
func (s *Service) CancelReservation(ctx context.Context, reservationID uint64) error {
	return s.store.WithTx(ctx, func(tx Ledger) error {
		res, err := tx.ReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}
		return s.cancelLocked(ctx, tx, res)
	})
}

// CancelByNumber is the guest-facing cancellation path: the booking is
// addressed by event and 6-digit reservation number.
func (s *Service) CancelByNumber(ctx context.Context, eventID uint64, number string) error {
	return s.store.WithTx(ctx, func(tx Ledger) error {
		res, err := tx.ReservationByNumberForUpdate(ctx, eventID, number)
		if err != nil {
			return err
		}
		return s.cancelLocked(ctx, tx, res)
	})
}

func (s *Service) cancelLocked(ctx context.Context, tx Ledger, res *model.Reservation) error {
	if err := tx.DeleteReservation(ctx, res.ID); err != nil {
		return err
	}
	if err := tx.AddSlotSeats(ctx, res.SlotID, -int64(res.Participants)); err != nil {
		return err
	}
	return tx.AddEventSeats(ctx, res.EventID, -int64(res.Participants))
}

// AddSlot creates a new time slot under an event and recomputes the
// event's maximum capacity.
func (s *Service) AddSlot(ctx context.Context, eventID uint64, label string, maxParticipants uint32) (*model.TimeSlot, error) {
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: label is required", ErrValidation)
	}
	if maxParticipants < 1 {
		return nil, fmt.Errorf("%w: max participants must be at least 1", ErrValidation)
	}
	var out *model.TimeSlot
	err := s.store.WithTx(ctx, func(tx Ledger) error {
		if _, err := tx.EventForUpdate(ctx, eventID); err != nil {
			return err
		}
		slot := &model.TimeSlot{
			EventID:         eventID,
			Label:           strings.TrimSpace(label),
			MaxParticipants: maxParticipants,
		}
		if err := tx.InsertSlot(ctx, slot); err != nil {
			return err
		}
		if err := tx.SyncEventCapacity(ctx, eventID); err != nil {
			return err
		}
		out = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReviseSlot renames a slot and/or resizes its capacity. Shrinking below
// the seats already booked is rejected rather than stranding reservations.
func (s *Service) ReviseSlot(ctx context.Context, slotID uint64, version uint32, label string, maxParticipants uint32) (*model.TimeSlot, error) {
	if strings.TrimSpace(label) == "" {
		return nil, fmt.Errorf("%w: label is required", ErrValidation)
	}
	var out *model.TimeSlot
	err := s.store.WithTx(ctx, func(tx Ledger) error {
		slot, err := tx.SlotForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if maxParticipants < slot.CurrentParticipants {
			return ErrCapacityExceeded
		}
		slot.Label = strings.TrimSpace(label)
		slot.MaxParticipants = maxParticipants
		slot.Version = version
		if err := tx.UpdateSlot(ctx, slot); err != nil {
			return err
		}
		if err := tx.SyncEventCapacity(ctx, slot.EventID); err != nil {
			return err
		}
		out = slot
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveSlot deletes a slot together with every reservation booked into
// it, debits the event counter by the slot's live seats and recomputes
// the event maximum.
func (s *Service) RemoveSlot(ctx context.Context, slotID uint64) error {
	return s.store.WithTx(ctx, func(tx Ledger) error {
		slot, err := tx.SlotForUpdate(ctx, slotID)
		if err != nil {
			return err
		}
		if err := tx.DeleteReservationsBySlot(ctx, slot.ID); err != nil {
			return err
		}
		if err := tx.AddEventSeats(ctx, slot.EventID, -int64(slot.CurrentParticipants)); err != nil {
			return err
		}
		if err := tx.DeleteSlot(ctx, slot.ID); err != nil {
			return err
		}
		return tx.SyncEventCapacity(ctx, slot.EventID)
	})
}

// RemoveEvent deletes an event and cascades to its slots and
// reservations in the same transaction. Earlier revisions deleted only
// the event row and left orphans behind.
func (s *Service) RemoveEvent(ctx context.Context, eventID uint64) error {
	return s.store.WithTx(ctx, func(tx Ledger) error {
		if _, err := tx.EventForUpdate(ctx, eventID); err != nil {
			return err
		}
		return tx.DeleteEventCascade(ctx, eventID)
	})
}

func (s *Service) allocateNumber(ctx context.Context, tx Ledger, eventID uint64) (string, error) {
	for i := 0; i < numberAttempts; i++ {
		n, err := s.newNumber()
		if err != nil {
			return "", err
		}
		taken, err := tx.NumberTaken(ctx, eventID, n)
		if err != nil {
			return "", err
		}
		if !taken {
			return n, nil
		}
	}
	return "", ErrNumberExhausted
}

func trimCompanions(in []string) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
