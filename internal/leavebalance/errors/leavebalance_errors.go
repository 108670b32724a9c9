package leavebalanceerrors

import (
	"net/http"

	"go-campus/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not initialised for this academic year",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave type is not part of this balance",
		http.StatusNotFound,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidUserType = apperror.New(
		apperror.CodeInvalidInput,
		"user_type must be one of student, teacher, staff",
		http.StatusBadRequest,
	)
	ErrInvalidAcademicYear = apperror.New(
		apperror.CodeInvalidInput,
		"academic_year must be two consecutive years, e.g. 2025-2026",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidResetValue = apperror.New(
		apperror.CodeInvalidInput,
		"reset value must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidThreshold = apperror.New(
		apperror.CodeInvalidInput,
		"threshold must not be negative",
		http.StatusBadRequest,
	)
	ErrDepartmentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"department is required",
		http.StatusBadRequest,
	)
)

// InsufficientDetails is attached to ErrInsufficientBalance.
type InsufficientDetails struct {
	LeaveType string `json:"leave_type"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
	Shortfall int    `json:"shortfall"`
}

func Insufficient(leaveType string, available, requested int) error {
	return ErrInsufficientBalance.WithDetails(InsufficientDetails{
		LeaveType: leaveType,
		Available: available,
		Requested: requested,
		Shortfall: requested - available,
	})
}
