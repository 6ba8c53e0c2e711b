package model

import "time"

// Event represents a single tea-ceremony gathering that guests can book
// into.  Capacity is subdivided into time slots; the event-level counters
// are derived aggregates maintained by the capacity ledger, never written
// directly by handlers.
//
// Fields:
//  ID                  – primary key identifier.
//  Title               – display title of the gathering.
//  Venue               – where the gathering takes place.
//  EventDate           – display date string (e.g. "2026年4月12日").
//  CostYen             – whole-yen price per participant.
//  Description         – optional free-text description.
//  ImageURL            – stored object URL of the event image (nullable).
//  MaxParticipants     – Σ slot.MaxParticipants, recomputed on slot edits.
//  CurrentParticipants – Σ participants across live reservations.
//  IsActive            – whether the event is visible to guests.
//  Version             – optimistic-lock revision, bumped on every update.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Event struct {
	ID                  uint64    // events.id
	Title               string    // events.title
	Venue               string    // events.venue
	EventDate           string    // events.event_date
	CostYen             uint32    // events.cost_yen
	Description         *string   // events.description (nullable)
	ImageURL            *string   // events.image_url (nullable)
	MaxParticipants     uint32    // events.max_participants
	CurrentParticipants uint32    // events.current_participants
	IsActive            bool      // events.is_active
	Version             uint32    // events.version
	CreatedAt           time.Time // events.created_at
	UpdatedAt           time.Time // events.updated_at
}
