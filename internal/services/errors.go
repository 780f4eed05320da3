package services

import (
	"errors"

	"github.com/terraincognita07/labcheck/internal/db"
	"gorm.io/gorm"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

const (
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindInvalidInput       = "invalid_input"
	KindStorageUnavailable = "storage_unavailable"
)

var (
	ErrDoctorNotFound = newKindError(ErrNotFound, "doctor not found")
	ErrBlockNotFound  = newKindError(ErrNotFound, "block not found")
	ErrTaskNotFound   = newKindError(ErrNotFound, "task not found")
	ErrReportNotFound = newKindError(ErrNotFound, "report not found")
	ErrAdminNotFound  = newKindError(ErrNotFound, "admin not found")

	ErrDoctorNameOverlap   = newKindError(ErrConflict, "doctor name already active in this period")
	ErrTaskNumberTaken     = newKindError(ErrConflict, "task number already used in this block")
	ErrDuplicateEntry      = newKindError(ErrConflict, "duplicate entry")
	ErrVersionClosed       = newKindError(ErrConflict, "version already closed")
	ErrScheduledVersions   = newKindError(ErrConflict, "block has tasks scheduled after this date")
	ErrReferencedByReports = newKindError(ErrConflict, "version is used by reports on or after this date")

	ErrInvalidDay             = newKindError(ErrInvalidInput, "invalid day")
	ErrInvalidID              = newKindError(ErrInvalidInput, "invalid id")
	ErrFutureReportDate       = newKindError(ErrInvalidInput, "report date is in the future")
	ErrDoctorNameRequired     = newKindError(ErrInvalidInput, "doctor name is required")
	ErrBlockLabelRequired     = newKindError(ErrInvalidInput, "block label is required")
	ErrTaskLabelRequired      = newKindError(ErrInvalidInput, "task label is required")
	ErrDateBeforeVersionStart = newKindError(ErrInvalidInput, "date precedes version start")
	ErrBlockInactive          = newKindError(ErrInvalidInput, "block is not active on task start")
	ErrDoctorInactive         = newKindError(ErrInvalidInput, "doctor is not active on report date")
	ErrTaskInactive           = newKindError(ErrInvalidInput, "task is not active on report date")
	ErrInvalidStatus          = newKindError(ErrInvalidInput, "task cannot be complete and not complete")
	ErrInvalidDocument        = newKindError(ErrInvalidInput, "invalid catalog document")
	ErrSettingKeyRequired     = newKindError(ErrInvalidInput, "setting key is required")
	ErrConstraintViolation    = newKindError(ErrInvalidInput, "value violates a storage constraint")
)

type kindError struct {
	kind    error
	message string
}

func newKindError(kind error, message string) error {
	return &kindError{kind: kind, message: message}
}

func (err *kindError) Error() string {
	return err.message
}

func (err *kindError) Unwrap() error {
	return err.kind
}

// detailError adds context to a kinded error without changing its kind.
type detailError struct {
	base   error
	detail string
}

func withDetail(base error, detail string) error {
	return &detailError{base: base, detail: detail}
}

func (err *detailError) Error() string {
	return err.base.Error() + ": " + err.detail
}

func (err *detailError) Unwrap() error {
	return err.base
}

type storageError struct {
	cause error
}

func (err *storageError) Error() string {
	return "storage unavailable: " + err.cause.Error()
}

func (err *storageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, err.cause}
}

// KindOf names the kind of err for callers outside the process.
func KindOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindStorageUnavailable
	}
}

func hasKind(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrStorageUnavailable)
}

// fromStorage maps a repository error onto the package kinds. missing is
// returned for absent rows and dangling references.
func fromStorage(err error, missing error) error {
	if err == nil {
		return nil
	}
	if hasKind(err) {
		return err
	}
	if missing == nil {
		missing = ErrNotFound
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, db.ErrForeignKey):
		return missing
	case db.IsGuard(err, db.GuardDoctorNameOverlap):
		return ErrDoctorNameOverlap
	case db.IsGuard(err, db.GuardTaskNumberOverlap):
		return ErrTaskNumberTaken
	case db.IsGuard(err, db.GuardBlockInactiveOnTaskStart):
		return ErrBlockInactive
	case db.IsGuard(err, db.GuardDoctorInactiveOnReport):
		return ErrDoctorInactive
	case db.IsGuard(err, db.GuardTaskInactiveOnReportDate):
		return ErrTaskInactive
	case errors.Is(err, db.ErrDuplicate):
		return ErrDuplicateEntry
	case errors.Is(err, db.ErrCheckViolation):
		return ErrConstraintViolation
	case errors.Is(err, db.ErrVersionClosed):
		return ErrVersionClosed
	case errors.Is(err, db.ErrBeforeVersionStart):
		return ErrDateBeforeVersionStart
	case errors.Is(err, db.ErrScheduledVersions):
		return ErrScheduledVersions
	case errors.Is(err, db.ErrReferencedAfter):
		return ErrReferencedByReports
	}
	return &storageError{cause: err}
}
