// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings. For example, ErrForbidden indicates that the
// current caller may not touch a resource, while ErrConflict signals that
// an operation cannot proceed due to dependent records.
package repository

import (
	"errors"

	"github.com/chakai/reservation-api/internal/capacity"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// The not-found and stale-version sentinels are owned by the capacity
// package so that the accounting service can raise them without a
// dependency on this package. They are re-exported here because most
// call sites reach them through a repository.
var (
	ErrVersionConflict     = capacity.ErrVersionConflict
	ErrEventNotFound       = capacity.ErrEventNotFound
	ErrSlotNotFound        = capacity.ErrSlotNotFound
	ErrReservationNotFound = capacity.ErrReservationNotFound
)
