package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// legalTransitions is the closed set of allowed status edges. Skipped
// states are rejected, terminal states have no outgoing edges.
var legalTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAccepted, BookingStatusCancelled},
	BookingStatusAccepted:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// ParseBookingStatus normalizes arbitrary casing to the canonical
// lower-case form. The second return is false for unknown values.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := legalTransitions[status]; !ok {
		return "", false
	}
	return status, true
}

// IsTerminal reports whether no further transition is possible. Terminal
// bookings do not hold their slot.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// CanTransitionTo reports whether the edge s -> next is legal
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

type Booking struct {
	Base
	BookingNumber       string        `db:"booking_number"`
	CustomerID          uuid.UUID     `db:"customer_id"`
	ProviderID          uuid.UUID     `db:"provider_id"`
	ServiceID           uuid.UUID     `db:"service_id"`
	ScheduledDate       time.Time     `db:"scheduled_date"`
	ScheduledTime       string        `db:"scheduled_time"`
	CustomerAddress     string        `db:"customer_address"`
	PaymentMethodID     uuid.UUID     `db:"payment_method_id"`
	Amount              float64       `db:"amount"`
	PaymentStatus       PaymentStatus `db:"payment_status"`
	Status              BookingStatus `db:"status"`
	SpecialInstructions string        `db:"special_instructions"`
	CompletedAt         *time.Time    `db:"completed_at"`
}
