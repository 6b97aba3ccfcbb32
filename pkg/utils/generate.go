package utils

import (
	"math/rand"
	"strings"
)

const bookingNumberPrefix = "AME"

const bookingNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateBookingNumber creates a human-readable booking code.
// Format: AME + 6 random upper-case alphanumerics. Uniqueness is enforced
// by the storage layer; callers regenerate on collision.
func GenerateBookingNumber() string {
	var sb strings.Builder
	sb.WriteString(bookingNumberPrefix)
	for i := 0; i < 6; i++ {
		sb.WriteByte(bookingNumberAlphabet[rand.Intn(len(bookingNumberAlphabet))])
	}
	return sb.String()
}
