package devapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/frontdesk-hq/frontdesk/internal/db"
	"github.com/frontdesk-hq/frontdesk/internal/models"
)

var ErrNotFound = errors.New("devapi: record not found")

var (
	businessColumns = []string{
		"id", "name", "type", "telegram_group_id", "telegram_bot_token", "active_channel",
		"is_active", "working_hours", "slot_duration_minutes", "timezone", "location", "phone",
	}
	serviceColumns = []string{
		"id", "business_id", "name", "description", "duration_minutes", "price", "capacity",
		"is_active", "image_url", "max_occupancy", "bed_type", "amenities",
		"base_price_per_night", "room_count",
	}
	faqColumns     = []string{"id", "business_id", "question", "answer", "keywords"}
	bookingColumns = []string{
		"id", "business_id", "booking_reference", "guest_name", "guest_phone", "guest_email",
		"service_name", "booking_date", "booking_time", "check_in_date", "check_out_date",
		"num_guests", "num_nights", "party_size", "total_price", "status", "special_requests",
	}
)

// Store persists the stand-in API's records.
type Store struct {
	db *db.DB
}

func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) ListBusinesses(ctx context.Context) ([]models.Business, error) {
	query, args, err := sq.Select(businessColumns...).From("businesses").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list businesses: %w", err)
	}
	return queryAll(ctx, s.db, query, args, scanBusiness)
}

func (s *Store) GetBusiness(ctx context.Context, id string) (models.Business, error) {
	query, args, err := sq.Select(businessColumns...).From("businesses").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Business{}, fmt.Errorf("build get business: %w", err)
	}
	return queryOne(ctx, s.db, query, args, scanBusiness)
}

func (s *Store) CreateBusiness(ctx context.Context, b models.Business) error {
	hours, err := json.Marshal(b.WorkingHours)
	if err != nil {
		return fmt.Errorf("encode working hours: %w", err)
	}
	query, args, err := sq.Insert("businesses").
		Columns(businessColumns...).
		Values(b.ID, b.Name, string(b.Type), b.TelegramGroupID, b.TelegramBotToken, b.ActiveChannel,
			b.IsActive, string(hours), b.SlotDurationMinutes, b.Timezone, b.Location, b.Phone).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create business: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// SaveBusiness overwrites every mutable column of an existing business.
func (s *Store) SaveBusiness(ctx context.Context, b models.Business) error {
	hours, err := json.Marshal(b.WorkingHours)
	if err != nil {
		return fmt.Errorf("encode working hours: %w", err)
	}
	query, args, err := sq.Update("businesses").
		SetMap(map[string]any{
			"name":                  b.Name,
			"telegram_group_id":     b.TelegramGroupID,
			"telegram_bot_token":    b.TelegramBotToken,
			"active_channel":        b.ActiveChannel,
			"is_active":             b.IsActive,
			"working_hours":         string(hours),
			"slot_duration_minutes": b.SlotDurationMinutes,
			"timezone":              b.Timezone,
			"location":              b.Location,
			"phone":                 b.Phone,
			"updated_at":            sq.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(sq.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save business: %w", err)
	}
	return execAffectingOne(ctx, s.db, query, args)
}

func (s *Store) ListServices(ctx context.Context, businessID string) ([]models.Service, error) {
	query, args, err := sq.Select(serviceColumns...).From("services").
		Where(sq.Eq{"business_id": businessID}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services: %w", err)
	}
	return queryAll(ctx, s.db, query, args, scanService)
}

func (s *Store) GetService(ctx context.Context, businessID, id string) (models.Service, error) {
	query, args, err := sq.Select(serviceColumns...).From("services").
		Where(sq.Eq{"id": id, "business_id": businessID}).
		ToSql()
	if err != nil {
		return models.Service{}, fmt.Errorf("build get service: %w", err)
	}
	return queryOne(ctx, s.db, query, args, scanService)
}

func (s *Store) CreateService(ctx context.Context, svc models.Service) error {
	amenities, err := json.Marshal(nonNil(svc.Amenities))
	if err != nil {
		return fmt.Errorf("encode amenities: %w", err)
	}
	query, args, err := sq.Insert("services").
		Columns(serviceColumns...).
		Values(svc.ID, svc.BusinessID, svc.Name, svc.Description, svc.DurationMinutes, svc.Price,
			svc.Capacity, svc.IsActive, svc.ImageURL, svc.MaxOccupancy, svc.BedType, string(amenities),
			svc.BasePricePerNight, svc.RoomCount).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *Store) SaveService(ctx context.Context, svc models.Service) error {
	amenities, err := json.Marshal(nonNil(svc.Amenities))
	if err != nil {
		return fmt.Errorf("encode amenities: %w", err)
	}
	query, args, err := sq.Update("services").
		SetMap(map[string]any{
			"name":                 svc.Name,
			"description":          svc.Description,
			"duration_minutes":     svc.DurationMinutes,
			"price":                svc.Price,
			"capacity":             svc.Capacity,
			"is_active":            svc.IsActive,
			"image_url":            svc.ImageURL,
			"max_occupancy":        svc.MaxOccupancy,
			"bed_type":             svc.BedType,
			"amenities":            string(amenities),
			"base_price_per_night": svc.BasePricePerNight,
			"room_count":           svc.RoomCount,
			"updated_at":           sq.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(sq.Eq{"id": svc.ID, "business_id": svc.BusinessID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save service: %w", err)
	}
	return execAffectingOne(ctx, s.db, query, args)
}

func (s *Store) DeleteService(ctx context.Context, businessID, id string) error {
	query, args, err := sq.Delete("services").Where(sq.Eq{"id": id, "business_id": businessID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete service: %w", err)
	}
	return execAffectingOne(ctx, s.db, query, args)
}

func (s *Store) ListFAQs(ctx context.Context, businessID string) ([]models.FAQ, error) {
	query, args, err := sq.Select(faqColumns...).From("faqs").
		Where(sq.Eq{"business_id": businessID}).
		OrderBy("question").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list faqs: %w", err)
	}
	return queryAll(ctx, s.db, query, args, scanFAQ)
}

// CreateFAQs inserts all faqs or none of them.
func (s *Store) CreateFAQs(ctx context.Context, faqs []models.FAQ) error {
	return s.db.RunInTx(ctx, func(tx db.Executor) error {
		for _, faq := range faqs {
			keywords, err := json.Marshal(nonNil(faq.Keywords))
			if err != nil {
				return fmt.Errorf("encode keywords: %w", err)
			}
			query, args, err := sq.Insert("faqs").
				Columns(faqColumns...).
				Values(faq.ID, faq.BusinessID, faq.Question, faq.Answer, string(keywords)).
				ToSql()
			if err != nil {
				return fmt.Errorf("build create faq: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert faq: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) DeleteFAQ(ctx context.Context, id string) error {
	query, args, err := sq.Delete("faqs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete faq: %w", err)
	}
	return execAffectingOne(ctx, s.db, query, args)
}

// ListBookings returns the most recent bookings first.
func (s *Store) ListBookings(ctx context.Context, businessID string) ([]models.Booking, error) {
	query, args, err := sq.Select(bookingColumns...).From("bookings").
		Where(sq.Eq{"business_id": businessID}).
		OrderBy("booking_date DESC", "COALESCE(booking_time, '') DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings: %w", err)
	}
	return queryAll(ctx, s.db, query, args, scanBooking)
}

func (s *Store) CreateBooking(ctx context.Context, b models.Booking) error {
	query, args, err := sq.Insert("bookings").
		Columns(bookingColumns...).
		Values(b.ID, b.BusinessID, b.Reference, b.GuestName, b.GuestPhone, b.GuestEmail,
			b.ServiceName, b.BookingDate, b.BookingTime, b.CheckInDate, b.CheckOutDate,
			b.NumGuests, b.NumNights, b.PartySize, b.TotalPrice, string(b.Status), b.SpecialRequests).
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking: %w", err)
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func queryAll[T any](ctx context.Context, exec db.Executor, query string, args []any, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func queryOne[T any](ctx context.Context, exec db.Executor, query string, args []any, scan func(scanner) (T, error)) (T, error) {
	item, err := scan(exec.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return item, ErrNotFound
	}
	return item, err
}

func execAffectingOne(ctx context.Context, exec db.Executor, query string, args []any) error {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBusiness(row scanner) (models.Business, error) {
	var (
		b                                  models.Business
		businessType, hours                string
		groupID, botToken, location, phone sql.NullString
	)
	err := row.Scan(&b.ID, &b.Name, &businessType, &groupID, &botToken, &b.ActiveChannel,
		&b.IsActive, &hours, &b.SlotDurationMinutes, &b.Timezone, &location, &phone)
	if err != nil {
		return b, err
	}
	b.Type = models.BusinessType(businessType)
	b.TelegramGroupID = stringPtr(groupID)
	b.TelegramBotToken = stringPtr(botToken)
	b.Location = stringPtr(location)
	b.Phone = stringPtr(phone)
	if err := json.Unmarshal([]byte(hours), &b.WorkingHours); err != nil {
		return b, fmt.Errorf("decode working hours: %w", err)
	}
	return b, nil
}

func scanService(row scanner) (models.Service, error) {
	var (
		svc                               models.Service
		description, imageURL, bedType    sql.NullString
		capacity, maxOccupancy, roomCount sql.NullInt64
		price, basePrice                  sql.NullFloat64
		amenities                         string
	)
	err := row.Scan(&svc.ID, &svc.BusinessID, &svc.Name, &description, &svc.DurationMinutes, &price,
		&capacity, &svc.IsActive, &imageURL, &maxOccupancy, &bedType, &amenities, &basePrice, &roomCount)
	if err != nil {
		return svc, err
	}
	svc.Description = stringPtr(description)
	svc.Price = amountPtr(price)
	svc.Capacity = intPtr(capacity)
	svc.ImageURL = stringPtr(imageURL)
	svc.MaxOccupancy = intPtr(maxOccupancy)
	svc.BedType = stringPtr(bedType)
	svc.BasePricePerNight = amountPtr(basePrice)
	svc.RoomCount = intPtr(roomCount)
	if err := json.Unmarshal([]byte(amenities), &svc.Amenities); err != nil {
		return svc, fmt.Errorf("decode amenities: %w", err)
	}
	return svc, nil
}

func scanFAQ(row scanner) (models.FAQ, error) {
	var (
		faq      models.FAQ
		keywords string
	)
	if err := row.Scan(&faq.ID, &faq.BusinessID, &faq.Question, &faq.Answer, &keywords); err != nil {
		return faq, err
	}
	if err := json.Unmarshal([]byte(keywords), &faq.Keywords); err != nil {
		return faq, fmt.Errorf("decode keywords: %w", err)
	}
	return faq, nil
}

func scanBooking(row scanner) (models.Booking, error) {
	var (
		b                                               models.Booking
		guestName, guestPhone, guestEmail, serviceName  sql.NullString
		bookingTime, checkIn, checkOut, specialRequests sql.NullString
		numGuests, numNights, partySize                 sql.NullInt64
		totalPrice                                      sql.NullFloat64
		status                                          string
	)
	err := row.Scan(&b.ID, &b.BusinessID, &b.Reference, &guestName, &guestPhone, &guestEmail,
		&serviceName, &b.BookingDate, &bookingTime, &checkIn, &checkOut,
		&numGuests, &numNights, &partySize, &totalPrice, &status, &specialRequests)
	if err != nil {
		return b, err
	}
	b.GuestName = stringPtr(guestName)
	b.GuestPhone = stringPtr(guestPhone)
	b.GuestEmail = stringPtr(guestEmail)
	b.ServiceName = stringPtr(serviceName)
	b.BookingTime = stringPtr(bookingTime)
	b.CheckInDate = stringPtr(checkIn)
	b.CheckOutDate = stringPtr(checkOut)
	b.NumGuests = intPtr(numGuests)
	b.NumNights = intPtr(numNights)
	b.PartySize = intPtr(partySize)
	b.TotalPrice = amountPtr(totalPrice)
	b.Status = models.BookingStatus(status)
	b.SpecialRequests = stringPtr(specialRequests)
	return b, nil
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	n := int(value.Int64)
	return &n
}

func amountPtr(value sql.NullFloat64) *models.Amount {
	if !value.Valid {
		return nil
	}
	return models.AmountPtr(value.Float64)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
