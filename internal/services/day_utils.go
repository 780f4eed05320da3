package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/labcheck/internal/models"
)

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// ParseDay validates a YYYY-MM-DD calendar day and returns it unchanged.
func ParseDay(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	parsed, err := time.Parse(models.DayLayout, value)
	if err != nil || parsed.Format(models.DayLayout) != value {
		return "", withDetail(ErrInvalidDay, value)
	}
	return value, nil
}

// Clock resolves "today" for the store in its configured location.
type Clock struct {
	now      func() time.Time
	location *time.Location
}

func NewClock(location *time.Location) Clock {
	return Clock{now: time.Now, location: location}
}

// FixedClock always reports at as the current time.
func FixedClock(at time.Time, location *time.Location) Clock {
	return Clock{now: func() time.Time { return at }, location: location}
}

func (clock Clock) Today() string {
	now := time.Now
	if clock.now != nil {
		now = clock.now
	}
	return models.FormatDay(DateAtLocation(now(), clock.location))
}

// dayOrToday parses raw, falling back to today when it is blank.
func (clock Clock) dayOrToday(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return clock.Today(), nil
	}
	return ParseDay(raw)
}
