package api

import (
	"errors"

	"github.com/terraincognita07/labcheck/internal/services"
)

// errorCodes is checked in order; the first match names the message.
var errorCodes = []struct {
	err  error
	code string
}{
	{errInvalidPayload, "invalid_payload"},
	{services.ErrDoctorNotFound, "doctor_not_found"},
	{services.ErrBlockNotFound, "block_not_found"},
	{services.ErrTaskNotFound, "task_not_found"},
	{services.ErrReportNotFound, "report_not_found"},
	{services.ErrAdminNotFound, "admin_not_found"},
	{services.ErrDoctorNameOverlap, "doctor_name_overlap"},
	{services.ErrTaskNumberTaken, "task_number_taken"},
	{services.ErrDuplicateEntry, "duplicate_entry"},
	{services.ErrVersionClosed, "version_closed"},
	{services.ErrScheduledVersions, "scheduled_versions"},
	{services.ErrReferencedByReports, "referenced_by_reports"},
	{services.ErrInvalidDay, "invalid_day"},
	{services.ErrInvalidID, "invalid_id"},
	{services.ErrFutureReportDate, "future_report_date"},
	{services.ErrDoctorNameRequired, "doctor_name_required"},
	{services.ErrBlockLabelRequired, "block_label_required"},
	{services.ErrTaskLabelRequired, "task_label_required"},
	{services.ErrDateBeforeVersionStart, "date_before_version_start"},
	{services.ErrBlockInactive, "block_inactive"},
	{services.ErrDoctorInactive, "doctor_inactive"},
	{services.ErrTaskInactive, "task_inactive"},
	{services.ErrInvalidStatus, "invalid_status"},
	{services.ErrInvalidDocument, "invalid_document"},
	{services.ErrSettingKeyRequired, "setting_key_required"},
	{services.ErrConstraintViolation, "constraint_violation"},
	{services.ErrWeakPassword, "weak_password"},
	{services.ErrPasswordChangeInvalid, "password_change_invalid"},
	{services.ErrPasswordMismatch, "password_mismatch"},
	{services.ErrInvalidCurrentPassword, "invalid_current_password"},
	{services.ErrNewPasswordMustDiffer, "new_password_must_differ"},
	{services.ErrAuthCredentialsInvalid, "invalid_credentials"},
	{services.ErrAdminLoginRequired, "admin_login_required"},
}

func errorCode(err error) string {
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	switch services.KindOf(err) {
	case services.KindNotFound:
		return "not_found"
	case services.KindConflict:
		return "conflict"
	case services.KindInvalidInput:
		return "invalid_input"
	default:
		return "storage_unavailable"
	}
}
