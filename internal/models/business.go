// internal/models/business.go
package models

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

type BusinessType string

const (
	BusinessTypeHotel      BusinessType = "hotel"
	BusinessTypeRestaurant BusinessType = "restaurant"
	BusinessTypeHostel     BusinessType = "hostel"
)

// BusinessTypes lists the accepted types in display order.
var BusinessTypes = []BusinessType{BusinessTypeHotel, BusinessTypeRestaurant, BusinessTypeHostel}

func (t BusinessType) Valid() bool {
	switch t {
	case BusinessTypeHotel, BusinessTypeRestaurant, BusinessTypeHostel:
		return true
	default:
		return false
	}
}

func ParseBusinessType(raw string) (BusinessType, error) {
	t := BusinessType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("type must be one of hotel, restaurant or hostel")
	}
	return t, nil
}

const (
	DefaultTimezone            = "Africa/Accra"
	DefaultSlotDurationMinutes = 30
	DefaultChannel             = "telegram"
)

type Business struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Type                BusinessType `json:"type"`
	TelegramGroupID     *string      `json:"telegram_group_id"`
	TelegramBotToken    *string      `json:"telegram_bot_token,omitempty"`
	ActiveChannel       string       `json:"active_channel,omitempty"`
	IsActive            bool         `json:"is_active"`
	WorkingHours        WorkingHours `json:"working_hours,omitempty"`
	SlotDurationMinutes int          `json:"slot_duration_minutes,omitempty"`
	Timezone            string       `json:"timezone,omitempty"`
	Location            *string      `json:"location"`
	Phone               *string      `json:"phone"`
}

// BusinessCreate is the payload for registering a new business.
type BusinessCreate struct {
	Name                string       `json:"name"`
	Type                BusinessType `json:"type"`
	TelegramGroupID     *string      `json:"telegram_group_id"`
	WorkingHours        WorkingHours `json:"working_hours"`
	SlotDurationMinutes int          `json:"slot_duration_minutes"`
	Timezone            string       `json:"timezone"`
	Location            *string      `json:"location"`
	Phone               *string      `json:"phone"`
}

// BusinessUpdate is a partial update. Fields tagged omitempty are left
// untouched when nil; the others are always sent and nil clears them.
type BusinessUpdate struct {
	Name                *string      `json:"name,omitempty"`
	TelegramGroupID     *string      `json:"telegram_group_id"`
	TelegramBotToken    *string      `json:"telegram_bot_token"`
	WorkingHours        WorkingHours `json:"working_hours,omitempty"`
	SlotDurationMinutes *int         `json:"slot_duration_minutes,omitempty"`
	Timezone            *string      `json:"timezone,omitempty"`
	Location            *string      `json:"location"`
	Phone               *string      `json:"phone"`
}

func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// ValidTimezone reports whether name is an IANA time zone such as
// "Africa/Accra".
func ValidTimezone(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
