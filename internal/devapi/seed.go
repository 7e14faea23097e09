package devapi

import (
	"context"
	"fmt"
	"time"

	"github.com/frontdesk-hq/frontdesk/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

// Seed fills an empty store with one hotel and one restaurant so the
// dashboard has something to show. It does nothing when businesses exist.
func Seed(ctx context.Context, store *Store, newID func() string, today time.Time) error {
	existing, err := store.ListBusinesses(ctx)
	if err != nil {
		return fmt.Errorf("list businesses: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	hotel := models.Business{
		ID:                  newID(),
		Name:                "Labadi Bay Hotel",
		Type:                models.BusinessTypeHotel,
		ActiveChannel:       models.DefaultChannel,
		IsActive:            true,
		WorkingHours:        models.DefaultWorkingHours("06:00", "23:00"),
		SlotDurationMinutes: models.DefaultSlotDurationMinutes,
		Timezone:            models.DefaultTimezone,
		Location:            ptr("La Beach Road, Accra"),
		Phone:               ptr("+233302123456"),
	}
	restaurant := models.Business{
		ID:                  newID(),
		Name:                "Osu Kitchen",
		Type:                models.BusinessTypeRestaurant,
		ActiveChannel:       models.DefaultChannel,
		IsActive:            true,
		WorkingHours:        models.DefaultWorkingHours("09:00", "21:00"),
		SlotDurationMinutes: models.DefaultSlotDurationMinutes,
		Timezone:            models.DefaultTimezone,
		Location:            ptr("Oxford Street, Osu"),
		Phone:               ptr("+233241234567"),
	}
	for _, b := range []models.Business{hotel, restaurant} {
		if err := store.CreateBusiness(ctx, b); err != nil {
			return fmt.Errorf("create business %s: %w", b.Name, err)
		}
	}

	rooms := []models.Service{
		{
			Name:              "Standard Room",
			Description:       ptr("Comfortable room with a work desk, WiFi and a flat-screen TV."),
			BedType:           ptr("Queen"),
			MaxOccupancy:      ptr(2),
			BasePricePerNight: models.AmountPtr(450),
			RoomCount:         ptr(30),
			Amenities:         []string{"WiFi", "TV", "Air Conditioning", "Safe", "Room Service"},
		},
		{
			Name:              "Deluxe Room",
			Description:       ptr("City views, premium bedding and breakfast included."),
			BedType:           ptr("King"),
			MaxOccupancy:      ptr(2),
			BasePricePerNight: models.AmountPtr(750),
			RoomCount:         ptr(20),
			Amenities:         []string{"WiFi", "TV", "Air Conditioning", "Mini Bar", "Breakfast", "City View"},
		},
		{
			Name:              "Executive Suite",
			Description:       ptr("Separate living area, lounge access and airport shuttle."),
			BedType:           ptr("King"),
			MaxOccupancy:      ptr(3),
			BasePricePerNight: models.AmountPtr(1200),
			RoomCount:         ptr(10),
			Amenities:         []string{"WiFi", "TV", "Mini Bar", "Balcony", "Spa Access", "Airport Shuttle"},
		},
	}
	tables := []models.Service{
		{Name: "Table for two", Capacity: ptr(2)},
		{Name: "Family table", Capacity: ptr(6)},
		{Name: "Private dining", Capacity: ptr(12), Price: models.AmountPtr(500)},
	}
	for businessID, services := range map[string][]models.Service{hotel.ID: rooms, restaurant.ID: tables} {
		for _, svc := range services {
			svc.ID = newID()
			svc.BusinessID = businessID
			svc.DurationMinutes = models.DefaultServiceDurationMinutes
			svc.IsActive = true
			if err := store.CreateService(ctx, svc); err != nil {
				return fmt.Errorf("create service %s: %w", svc.Name, err)
			}
		}
	}

	faqs := []models.FAQ{
		{BusinessID: hotel.ID, Question: "What are the check-in and check-out times?", Answer: "Check-in is from 2:00 PM and check-out is by 12:00 PM.", Keywords: []string{"check-in", "check-out", "time"}},
		{BusinessID: hotel.ID, Question: "Do you have airport shuttle service?", Answer: "Yes, from Kotoka International Airport. Book 24 hours in advance.", Keywords: []string{"airport", "shuttle"}},
		{BusinessID: restaurant.ID, Question: "What are your opening hours?", Answer: "We are open 9am to 9pm every day.", Keywords: []string{"hours", "opening", "time"}},
	}
	for i := range faqs {
		faqs[i].ID = newID()
	}
	if err := store.CreateFAQs(ctx, faqs); err != nil {
		return fmt.Errorf("create faqs: %w", err)
	}

	date := func(days int) string {
		return today.AddDate(0, 0, days).Format("2006-01-02")
	}
	bookings := []models.Booking{
		{BusinessID: hotel.ID, GuestName: ptr("Ama Mensah"), GuestPhone: ptr("+233201112233"), ServiceName: ptr("Deluxe Room"), BookingDate: date(0), CheckInDate: ptr(date(2)), CheckOutDate: ptr(date(5)), NumGuests: ptr(2), NumNights: ptr(3), TotalPrice: models.AmountPtr(2250), Status: models.BookingStatusConfirmed},
		{BusinessID: hotel.ID, GuestName: ptr("Kwame Boateng"), ServiceName: ptr("Standard Room"), BookingDate: date(-1), CheckInDate: ptr(date(1)), CheckOutDate: ptr(date(2)), NumGuests: ptr(1), NumNights: ptr(1), TotalPrice: models.AmountPtr(450), Status: models.BookingStatusPending},
		{BusinessID: hotel.ID, GuestName: ptr("Efua Owusu"), ServiceName: ptr("Executive Suite"), BookingDate: date(-10), CheckInDate: ptr(date(-8)), CheckOutDate: ptr(date(-6)), NumGuests: ptr(3), NumNights: ptr(2), TotalPrice: models.AmountPtr(2400), Status: models.BookingStatusCompleted},
		{BusinessID: restaurant.ID, GuestName: ptr("Yaw Asante"), ServiceName: ptr("Family table"), BookingDate: date(0), BookingTime: ptr("19:30"), PartySize: ptr(5), Status: models.BookingStatusConfirmed},
		{BusinessID: restaurant.ID, GuestName: ptr("Akosua Darko"), ServiceName: ptr("Table for two"), BookingDate: date(-2), BookingTime: ptr("12:00"), PartySize: ptr(2), Status: models.BookingStatusNoShow},
		{BusinessID: restaurant.ID, GuestName: ptr("Kofi Annan"), ServiceName: ptr("Private dining"), BookingDate: date(3), BookingTime: ptr("20:00"), PartySize: ptr(10), TotalPrice: models.AmountPtr(500), Status: models.BookingStatusCancelled},
	}
	for _, b := range bookings {
		b.ID = newID()
		b.Reference = referenceFor(b.ID)
		if err := store.CreateBooking(ctx, b); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
	}
	return nil
}
