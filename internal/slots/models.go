package slots

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidArgument is returned for non-positive steps/units and out of range values.
var ErrInvalidArgument = errors.New("invalid argument")

// AvailabilitySlot is one atomic bookable unit for one employee and booking type.
// Datetime is kept as the wire string; use Time to parse it.
type AvailabilitySlot struct {
	ID         int32  `json:"availability_slot_id"`
	EmployeeID int32  `json:"employee_id"`
	Datetime   string `json:"datetime"`
	TypeID     int32  `json:"type_id"`
	CreatedAt  string `json:"created_at,omitempty"`
	LastEdited string `json:"last_edited,omitempty"`
}

type BookingType struct {
	ID          int32  `json:"type_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Fixed       bool   `json:"fixed"`
	Cost        int32  `json:"cost"`
	Duration    int32  `json:"duration"`
}

// Units returns the number of slot units a booking of this type consumes.
func (b BookingType) Units() int {
	if b.Duration <= 0 {
		return 1
	}
	return int(b.Duration)
}

type Booking struct {
	ID         int32  `json:"id"`
	UserID     int32  `json:"user_id"`
	UserEmail  string `json:"user_email"`
	EmployeeID int32  `json:"employee_id"`
	TypeID     int32  `json:"type_id"`
	TypeTitle  string `json:"type_title,omitempty"`
	Paid       bool   `json:"paid"`
	Cost       int32  `json:"cost"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// Event is the calendar render model: merged availability or a booking.
type Event struct {
	ID           string    `json:"id"`
	EmployeeID   int32     `json:"employee_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	TypeID       int32     `json:"type_id"`
	IsBooking    bool      `json:"is_booking"`
	BookingID    *int32    `json:"booking_id"`
	BookingEmail string    `json:"booking_email,omitempty"`
	SlotIDs      []int32   `json:"availability_slot_ids"`
	Source       string    `json:"source,omitempty"`
	Title        string    `json:"title,omitempty"`
}

const (
	SourceAvailability = "availability"
	SourceBooking      = "booking"
	SourceGoogle       = "google"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts RFC 3339 and the zone-less layouts postgres timestamps
// serialise to. Zone-less values are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time parses Datetime. ok is false for unparseable values.
func (s AvailabilitySlot) Time() (time.Time, bool) {
	return ParseTimestamp(s.Datetime)
}
