package entity

// Provider carries the derived aggregates Rating, TotalReviews and
// CompletedBookings. Those three fields are written only by the rating
// recompute path, never by generic updates.
type Provider struct {
	Base
	Name              string  `db:"name"`
	BusinessName      string  `db:"business_name"`
	Email             string  `db:"email"`
	Rating            float64 `db:"rating"`
	TotalReviews      int64   `db:"total_reviews"`
	CompletedBookings int64   `db:"completed_bookings"`
}
