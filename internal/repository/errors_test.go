package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chakai/reservation-api/internal/capacity"
)

// Handlers branch on these sentinels with errors.Is; the aliases and
// wraps below are what keep the HTTP status mapping stable.
func TestSentinelWiring(t *testing.T) {
	assert.ErrorIs(t, ErrEmailExists, ErrConflict)
	assert.ErrorIs(t, fmt.Errorf("create admin: %w", ErrEmailExists), ErrConflict)

	assert.True(t, errors.Is(ErrVersionConflict, capacity.ErrVersionConflict))
	assert.True(t, errors.Is(ErrEventNotFound, capacity.ErrEventNotFound))
	assert.True(t, errors.Is(ErrSlotNotFound, capacity.ErrSlotNotFound))
	assert.True(t, errors.Is(ErrReservationNotFound, capacity.ErrReservationNotFound))
}
