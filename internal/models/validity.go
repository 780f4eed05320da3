package models

import "time"

// DayLayout is the storage and wire format of calendar days.
const DayLayout = "2006-01-02"

// Validity is the effective-dating pair shared by catalog rows. ValidTo is
// inclusive; nil means the version is still open.
type Validity struct {
	ValidFrom string  `gorm:"column:valid_from;type:text;not null" json:"valid_from"`
	ValidTo   *string `gorm:"column:valid_to;type:text" json:"valid_to"`
}

func (validity Validity) ActiveOn(day string) bool {
	if validity.ValidFrom > day {
		return false
	}
	return validity.ValidTo == nil || *validity.ValidTo >= day
}

func (validity Validity) IsClosed() bool {
	return validity.ValidTo != nil
}

func FormatDay(value time.Time) string {
	return value.Format(DayLayout)
}

func ShiftDay(day string, offset int) (string, error) {
	parsed, err := time.Parse(DayLayout, day)
	if err != nil {
		return "", err
	}
	return parsed.AddDate(0, 0, offset).Format(DayLayout), nil
}
