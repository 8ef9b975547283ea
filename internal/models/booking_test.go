package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, BookingConfirmed, NormalizeStatus("waiting_service"))
	assert.Equal(t, BookingConfirmed, NormalizeStatus("on_service"))
	assert.Equal(t, BookingDone, NormalizeStatus("finished"))
	assert.Equal(t, BookingPending, NormalizeStatus("pending"))
	assert.Equal(t, "nonsense", NormalizeStatus("nonsense"))
}

func TestStatusLabels(t *testing.T) {
	assert.ElementsMatch(t, []string{BookingConfirmed, "waiting_service", "on_service"}, StatusLabels(BookingConfirmed))
	assert.ElementsMatch(t, []string{BookingDone, "finished"}, StatusLabels(BookingDone))
	assert.Equal(t, []string{BookingPending}, StatusLabels(BookingPending))
	assert.Equal(t, []string{BookingCancelled}, StatusLabels(BookingCancelled))

	// every alias folds back onto its canonical status
	for _, canonical := range []string{BookingPending, BookingConfirmed, BookingDone, BookingCancelled} {
		for _, label := range StatusLabels(canonical) {
			assert.Equal(t, canonical, NormalizeStatus(label))
		}
	}
}

func TestValidTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingDone, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingPending, BookingDone, false},
		{BookingDone, BookingConfirmed, false},
		{BookingDone, BookingCancelled, false},
		{BookingCancelled, BookingPending, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingPending, BookingPending, false},
		// legacy labels normalize before the check
		{"waiting_service", BookingDone, true},
		{"finished", BookingCancelled, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCanCancel(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingPending, CancellationCount: 0}).CanCancel())
	assert.True(t, (&Booking{Status: BookingConfirmed, CancellationCount: 1}).CanCancel())
	assert.True(t, (&Booking{Status: "waiting_service", CancellationCount: 1}).CanCancel())

	// two cancellations burn the booking for good
	assert.False(t, (&Booking{Status: BookingPending, CancellationCount: MaxCancellations}).CanCancel())
	assert.False(t, (&Booking{Status: BookingPending, CancellationCount: 3}).CanCancel())

	assert.False(t, (&Booking{Status: BookingDone, CancellationCount: 0}).CanCancel())
	assert.False(t, (&Booking{Status: BookingCancelled, CancellationCount: 0}).CanCancel())
}

func TestCanRebook(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingCancelled, CancellationCount: 1}).CanRebook())
	assert.False(t, (&Booking{Status: BookingCancelled, CancellationCount: MaxCancellations}).CanRebook())
	assert.False(t, (&Booking{Status: BookingPending, CancellationCount: 0}).CanRebook())
	assert.False(t, (&Booking{Status: BookingDone, CancellationCount: 1}).CanRebook())
}
