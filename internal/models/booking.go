package models

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// BookingStatuses is the closed set of statuses the API may return.
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
	BookingStatusNoShow,
}

func (s BookingStatus) Known() bool {
	for _, status := range BookingStatuses {
		if status == s {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              string        `json:"id"`
	BusinessID      string        `json:"business_id"`
	Reference       string        `json:"booking_reference"`
	GuestName       *string       `json:"guest_name"`
	GuestPhone      *string       `json:"guest_phone"`
	GuestEmail      *string       `json:"guest_email"`
	ServiceName     *string       `json:"service_name"`
	BookingDate     string        `json:"booking_date"`
	BookingTime     *string       `json:"booking_time"`
	CheckInDate     *string       `json:"check_in_date"`
	CheckOutDate    *string       `json:"check_out_date"`
	NumGuests       *int          `json:"num_guests"`
	NumNights       *int          `json:"num_nights"`
	PartySize       *int          `json:"party_size"`
	TotalPrice      *Amount       `json:"total_price"`
	Status          BookingStatus `json:"status"`
	SpecialRequests *string       `json:"special_requests"`
}

// Guests prefers the stay guest count over the table party size.
func (b Booking) Guests() *int {
	if b.NumGuests != nil {
		return b.NumGuests
	}
	return b.PartySize
}

func CountBookingsWithStatus(bookings []Booking, status BookingStatus) int {
	count := 0
	for _, booking := range bookings {
		if booking.Status == status {
			count++
		}
	}
	return count
}
