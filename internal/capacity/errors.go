package capacity

import "errors"

// ErrValidation marks input errors detected before any write happens.
// Callers can match it with errors.Is and surface a 400 response; the
// wrapped message carries the specific field problem.
var ErrValidation = errors.New("validation")

// ErrEventInactive is returned when a guest tries to book into an event
// whose is_active flag is off. Admin flows bypass this check.
var ErrEventInactive = errors.New("event is not open for booking")

// ErrSlotMismatch is returned when the referenced time slot does not
// belong to the referenced event.
var ErrSlotMismatch = errors.New("time slot does not belong to event")

// ErrCapacityExceeded is returned when a booking or slot edit would push
// a slot past its maximum participant count. Overbooking was silently
// accepted by earlier revisions of this system; it is now a hard cap.
var ErrCapacityExceeded = errors.New("slot capacity exceeded")

// ErrNumberExhausted is returned when a free 6-digit reservation number
// could not be allocated after repeated attempts. In practice this only
// happens when an event approaches a million reservations.
var ErrNumberExhausted = errors.New("reservation number space exhausted")

// ErrVersionConflict is returned when an update carries a stale version
// number, meaning another session modified the row after the caller read
// it. Handlers should translate this into an HTTP 409 response and let
// the client re-read and retry.
var ErrVersionConflict = errors.New("stale version")

// ErrEventNotFound is returned when an event id does not resolve to a
// row. It exists separately from sql.ErrNoRows so that joined queries
// can distinguish a missing event from an empty result set.
var ErrEventNotFound = errors.New("event not found")

// ErrSlotNotFound is the time-slot counterpart of ErrEventNotFound.
var ErrSlotNotFound = errors.New("time slot not found")

// ErrReservationNotFound is returned for missing reservations, whether
// addressed by id or by event + reservation number.
var ErrReservationNotFound = errors.New("reservation not found")
