package model

import "time"

// MaxCompanions is the number of named accompanying guests a single
// reservation may carry in addition to the holder.
const MaxCompanions = 3

// Reservation is a booking of Participants seats by one party against one
// time slot of an event.  TotalCostYen is derived (event cost × party size)
// and recomputed on every write.  Number is the human-facing 6-digit code,
// zero-padded, unique within the owning event; holders use it together with
// the event to look up or cancel their booking.
//
// Fields:
//  ID           – primary key identifier.
//  EventID      – owning event.
//  SlotID       – time slot the seats are booked into.
//  Number       – 6-digit reservation code, unique per event.
//  Participants – party size (holder included).
//  Name         – holder name.
//  Email        – holder email address.
//  Phone        – holder phone number.
//  Companions   – up to MaxCompanions accompanying-guest names.
//  Notes        – optional free-text notes.
//  TotalCostYen – event.CostYen × Participants at time of write.
//  Version      – optimistic-lock revision.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64    // reservations.id
	EventID      uint64    // reservations.event_id
	SlotID       uint64    // reservations.slot_id
	Number       string    // reservations.number
	Participants uint32    // reservations.participants
	Name         string    // reservations.name
	Email        string    // reservations.email
	Phone        string    // reservations.phone
	Companions   []string  // reservations.companion1..3
	Notes        *string   // reservations.notes (nullable)
	TotalCostYen uint32    // reservations.total_cost_yen
	Version      uint32    // reservations.version
	CreatedAt    time.Time // reservations.created_at
	UpdatedAt    time.Time // reservations.updated_at
}
