package leavepolicyerrors

import (
	"net/http"

	"go-campus/internal/shared/apperror"
)

var (
	ErrPolicyNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave policy not found",
		http.StatusNotFound,
	)
	ErrPolicyAlreadyExists = apperror.New(
		apperror.CodeAlreadyExists,
		"an active leave policy already exists for this user type, department and academic year",
		http.StatusConflict,
	)
	ErrInvalidPolicyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid policy id",
		http.StatusBadRequest,
	)
	ErrInvalidUserType = apperror.New(
		apperror.CodeInvalidInput,
		"user_type must be one of student, teacher, staff",
		http.StatusBadRequest,
	)
	ErrInvalidDepartment = apperror.New(
		apperror.CodeInvalidInput,
		"department is required",
		http.StatusBadRequest,
	)
	ErrInvalidAcademicYear = apperror.New(
		apperror.CodeInvalidInput,
		"academic_year must be two consecutive years, e.g. 2025-2026",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type must be an upper-case identifier such as CASUAL",
		http.StatusBadRequest,
	)
	ErrDuplicateLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"leave_type appears more than once in entitlements",
		http.StatusBadRequest,
	)
	ErrInvalidEntitlementDays = apperror.New(
		apperror.CodeInvalidInput,
		"entitlement days must not be negative",
		http.StatusBadRequest,
	)
	ErrNoEntitlements = apperror.New(
		apperror.CodeInvalidInput,
		"at least one entitlement is required",
		http.StatusBadRequest,
	)
	ErrInvalidCarryForward = apperror.New(
		apperror.CodeInvalidInput,
		"carry_forward_max_days must not be negative",
		http.StatusBadRequest,
	)
)
