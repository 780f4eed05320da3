package db

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrDuplicate      = errors.New("duplicate key")
	ErrForeignKey     = errors.New("referenced row missing")
	ErrCheckViolation = errors.New("check constraint failed")

	// ErrVersionClosed is returned when a closed version is closed again on
	// a different day or re-versioned.
	ErrVersionClosed = errors.New("version already closed")
	// ErrBeforeVersionStart is returned when a close or change date does
	// not leave at least one day for the current version.
	ErrBeforeVersionStart = errors.New("date precedes version start")
	// ErrScheduledVersions is returned when dependent rows start after the
	// date a block version would be closed on.
	ErrScheduledVersions = errors.New("dependent versions scheduled after date")
	// ErrReferencedAfter is returned when reports dated on or after the
	// change date already point at the version.
	ErrReferencedAfter = errors.New("version referenced by later reports")
	// ErrTemporalGuard matches every *GuardError.
	ErrTemporalGuard = errors.New("temporal guard")
)

const guardMessagePrefix = "temporal_guard:"

const (
	GuardDoctorNameOverlap        = "doctor_name_overlap"
	GuardBlockInactiveOnTaskStart = "block_inactive_on_task_start"
	GuardDoctorInactiveOnReport   = "doctor_inactive_on_report_date"
	GuardTaskInactiveOnReportDate = "task_inactive_on_report_date"
	GuardTaskNumberOverlap        = "task_number_overlap"
)

// GuardError reports a rejection raised by one of the temporal guard
// triggers installed by the migrations.
type GuardError struct {
	Guard string
	cause error
}

func (err *GuardError) Error() string {
	return fmt.Sprintf("temporal guard %s", err.Guard)
}

func (err *GuardError) Unwrap() error {
	return err.cause
}

func (err *GuardError) Is(target error) bool {
	return target == ErrTemporalGuard
}

// IsGuard reports whether err was raised by the named trigger guard.
func IsGuard(err error, guard string) bool {
	var guardErr *GuardError
	return errors.As(err, &guardErr) && guardErr.Guard == guard
}

// classify maps SQLite constraint failures onto package sentinels. Errors
// that are not constraint failures are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	message := err.Error()
	if index := strings.Index(message, guardMessagePrefix); index >= 0 {
		guard := message[index+len(guardMessagePrefix):]
		if end := strings.IndexAny(guard, " \t\n'\")("); end >= 0 {
			guard = guard[:end]
		}
		return &GuardError{Guard: guard, cause: err}
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(message, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), strings.Contains(message, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrForeignKey, err)
	case strings.Contains(message, "CHECK constraint failed"):
		return fmt.Errorf("%w: %v", ErrCheckViolation, err)
	}
	return err
}
