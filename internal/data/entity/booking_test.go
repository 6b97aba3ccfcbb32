package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBookingStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected BookingStatus
		ok       bool
	}{
		{"lower case", "pending", BookingStatusPending, true},
		{"upper case", "COMPLETED", BookingStatusCompleted, true},
		{"mixed case", "In_Progress", BookingStatusInProgress, true},
		{"surrounding whitespace", " confirmed ", BookingStatusConfirmed, true},
		{"unknown value", "archived", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := ParseBookingStatus(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to accepted", BookingStatusPending, BookingStatusAccepted, true},
		{"accepted to confirmed", BookingStatusAccepted, BookingStatusConfirmed, true},
		{"confirmed to in_progress", BookingStatusConfirmed, BookingStatusInProgress, true},
		{"in_progress to completed", BookingStatusInProgress, BookingStatusCompleted, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, true},
		{"accepted to cancelled", BookingStatusAccepted, BookingStatusCancelled, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"in_progress to cancelled", BookingStatusInProgress, BookingStatusCancelled, true},
		{"skip pending to completed", BookingStatusPending, BookingStatusCompleted, false},
		{"skip pending to confirmed", BookingStatusPending, BookingStatusConfirmed, false},
		{"skip accepted to in_progress", BookingStatusAccepted, BookingStatusInProgress, false},
		{"backwards accepted to pending", BookingStatusAccepted, BookingStatusPending, false},
		{"out of completed", BookingStatusCompleted, BookingStatusCancelled, false},
		{"out of cancelled", BookingStatusCancelled, BookingStatusPending, false},
		{"self transition", BookingStatusPending, BookingStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())

	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusAccepted.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.False(t, BookingStatusInProgress.IsTerminal())
}
