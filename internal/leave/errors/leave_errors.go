package leaveerrors

import (
	"net/http"

	"go-campus/internal/shared/apperror"
)

var (
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidApplicationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave application id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave type",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of PENDING, APPROVED, REJECTED, CANCELLED",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidRange,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrRangeSpansAcademicYears = apperror.New(
		apperror.CodeInvalidRange,
		"start_date and end_date must fall in the same academic year",
		http.StatusBadRequest,
	)
	ErrNoCountableDays = apperror.New(
		apperror.CodeInvalidRange,
		"the date range contains no countable leave days",
		http.StatusBadRequest,
	)
	ErrLeaveTypeNotEntitled = apperror.New(
		apperror.CodeNotFound,
		"leave type is not part of your balance",
		http.StatusNotFound,
	)
	ErrApplicationNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave application not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already exists in overlapping period",
		http.StatusConflict,
	)
	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusConflict,
	)
	ErrNotApplicant = apperror.New(
		apperror.CodeForbidden,
		"only the applicant can cancel a pending application",
		http.StatusForbidden,
	)
	ErrNotReviewer = apperror.New(
		apperror.CodeForbidden,
		"you are not allowed to review applications of this department",
		http.StatusForbidden,
	)
)

// InvalidTransition is ErrInvalidState carrying both ends of the attempted
// transition.
func InvalidTransition(from, to string) error {
	return ErrInvalidState.WithDetails(map[string]string{"from": from, "to": to})
}
