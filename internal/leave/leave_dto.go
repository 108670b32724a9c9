package leave

import "github.com/shopspring/decimal"

// ApplyRequest never carries a day count; it is always derived from the
// dates.
type ApplyRequest struct {
	LeaveType string `json:"leave_type" binding:"required,max=30"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type DecisionRequest struct {
	Comments string `json:"comments" binding:"max=1000"`
}

// ListFilter narrows application queries. Empty fields match everything.
type ListFilter struct {
	UserID       string `form:"-"`
	Status       string `form:"status"`
	Department   string `form:"department"`
	AcademicYear string `form:"academic_year"`
}

type StatisticsFilter struct {
	Department   string `form:"department"`
	AcademicYear string `form:"academic_year"`
}

type ApplicationResponse struct {
	ID               string  `json:"id"`
	ReferenceNo      string  `json:"reference_no"`
	UserID           string  `json:"user_id"`
	Department       string  `json:"department"`
	UserType         string  `json:"user_type"`
	AcademicYear     string  `json:"academic_year"`
	LeaveType        string  `json:"leave_type"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	DayCount         int     `json:"day_count"`
	Reason           string  `json:"reason"`
	Status           string  `json:"status"`
	ApproverID       *string `json:"approver_id,omitempty"`
	ApproverComments *string `json:"approver_comments,omitempty"`
	CancelledBy      *string `json:"cancelled_by,omitempty"`
	SubmittedAt      string  `json:"submitted_at"`
	DecidedAt        *string `json:"decided_at,omitempty"`
	CancelledAt      *string `json:"cancelled_at,omitempty"`
}

type StatisticsResponse struct {
	Department           string           `json:"department"`
	AcademicYear         string           `json:"academic_year"`
	Total                int64            `json:"total"`
	ByStatus             map[string]int64 `json:"by_status"`
	ByLeaveType          map[string]int64 `json:"by_leave_type"`
	AverageApprovalHours decimal.Decimal  `json:"average_approval_hours"`
}
