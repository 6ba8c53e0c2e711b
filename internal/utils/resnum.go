package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// reservationNumberSpace is the size of the 6-digit code space.
var reservationNumberSpace = big.NewInt(1_000_000)

// ReservationNumber returns a random zero-padded 6-digit code, the
// human-facing handle guests quote to look up or cancel a booking.
// Uniqueness per event is enforced by the caller against the database;
// this function only draws the candidate.
func ReservationNumber() (string, error) {
	n, err := rand.Int(rand.Reader, reservationNumberSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
