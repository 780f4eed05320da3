package db

import (
	"database/sql"
	"fmt"

	"github.com/terraincognita07/labcheck/internal/models"
	"gorm.io/gorm"
)

// activeOn restricts a query on table to rows whose validity interval
// contains day.
func activeOn(table string, day string) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		return query.Where(
			fmt.Sprintf("%[1]s.valid_from <= ? AND (%[1]s.valid_to IS NULL OR %[1]s.valid_to >= ?)", table),
			day, day,
		)
	}
}

// closeVersion sets valid_to on an open row. Closing an already closed row
// on the same day is a no-op and reports changed=false.
func closeVersion(tx *gorm.DB, table string, id uint, current models.Validity, validTo string) (bool, error) {
	if current.ValidTo != nil {
		if *current.ValidTo == validTo {
			return false, nil
		}
		return false, ErrVersionClosed
	}
	if validTo < current.ValidFrom {
		return false, ErrBeforeVersionStart
	}

	result := tx.Table(table).Where("id = ? AND valid_to IS NULL", id).Update("valid_to", validTo)
	if result.Error != nil {
		return false, classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, ErrVersionClosed
	}
	return true, nil
}

// prepareReversion checks that a version can be replaced from effective on.
// inPlace is true when the version starts on effective itself, in which case
// the caller corrects the row instead of closing it.
func prepareReversion(current models.Validity, effective string) (inPlace bool, closeOn string, err error) {
	if current.ValidTo != nil && *current.ValidTo < effective {
		return false, "", ErrVersionClosed
	}
	if effective < current.ValidFrom {
		return false, "", ErrBeforeVersionStart
	}
	if effective == current.ValidFrom {
		return true, "", nil
	}
	closeOn, err = models.ShiftDay(effective, -1)
	if err != nil {
		return false, "", err
	}
	return false, closeOn, nil
}

func doctorReportedFrom(tx *gorm.DB, doctorID uint, day string) (bool, error) {
	var count int64
	if err := tx.Model(&models.Report{}).
		Where("doctor_id = ? AND report_date >= ?", doctorID, day).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func tasksReportedFrom(tx *gorm.DB, taskIDs []uint, day string) (bool, error) {
	if len(taskIDs) == 0 {
		return false, nil
	}
	var count int64
	if err := tx.Table("report_tasks").
		Joins("JOIN reports ON reports.id = report_tasks.report_id").
		Where("report_tasks.task_id IN ? AND reports.report_date >= ?", taskIDs, day).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func dayAfter(day string) (string, error) {
	return models.ShiftDay(day, 1)
}

// boundBeforeNext returns the last day before the earliest version matching
// where that starts after day, or nil when there is none.
func boundBeforeNext(tx *gorm.DB, table string, day string, where string, args ...any) (*string, error) {
	var next sql.NullString
	row := tx.Table(table).Select("MIN(valid_from)").Where("valid_from > ?", day).Where(where, args...).Row()
	if err := row.Scan(&next); err != nil {
		return nil, err
	}
	if !next.Valid || next.String == "" {
		return nil, nil
	}
	bound, err := models.ShiftDay(next.String, -1)
	if err != nil {
		return nil, err
	}
	return &bound, nil
}

func earlierEnd(first *string, second *string) *string {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	case *second < *first:
		return second
	default:
		return first
	}
}
