package services

import (
	"testing"

	"reservo/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestReservationTransitions(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.ReservationStatusPending, models.ReservationStatusConfirmed, true},
		{models.ReservationStatusPending, models.ReservationStatusCancelled, true},
		{models.ReservationStatusPending, models.ReservationStatusCompleted, false},
		{models.ReservationStatusConfirmed, models.ReservationStatusCompleted, true},
		{models.ReservationStatusConfirmed, models.ReservationStatusCancelled, true},
		{models.ReservationStatusConfirmed, models.ReservationStatusPending, false},
		{models.ReservationStatusCancelled, models.ReservationStatusConfirmed, false},
		{models.ReservationStatusCompleted, models.ReservationStatusCancelled, false},
	}

	for _, tt := range tests {
		allowed := false
		for _, next := range reservationTransitions[tt.from] {
			if next == tt.to {
				allowed = true
				break
			}
		}
		assert.Equal(t, tt.allowed, allowed, "%s -> %s", tt.from, tt.to)
	}
}
