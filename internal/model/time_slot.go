package model

import "time"

// TimeSlot is a bookable sub-capacity window within an Event.  Each slot
// carries its own maximum and current participant counts; reservations
// always reference a slot by its identifier, never by label.
//
// Fields:
//  ID                  – primary key identifier.
//  EventID             – owning event.
//  Label               – human-facing time label (e.g. "10:00").
//  MaxParticipants     – seat capacity of this slot.
//  CurrentParticipants – Σ participants of reservations bound to the slot.
//  Version             – optimistic-lock revision.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type TimeSlot struct {
	ID                  uint64    // time_slots.id
	EventID             uint64    // time_slots.event_id
	Label               string    // time_slots.label
	MaxParticipants     uint32    // time_slots.max_participants
	CurrentParticipants uint32    // time_slots.current_participants
	Version             uint32    // time_slots.version
	CreatedAt           time.Time // time_slots.created_at
	UpdatedAt           time.Time // time_slots.updated_at
}
