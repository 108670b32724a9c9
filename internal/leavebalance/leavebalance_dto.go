package leavebalance

// InitializeRequest creates the ledger of one user. UserType and Department
// are looked up in the user directory when omitted.
type InitializeRequest struct {
	UserID       string `json:"user_id" binding:"required,uuid"`
	UserType     string `json:"user_type" binding:"omitempty,oneof=student teacher staff"`
	Department   string `json:"department" binding:"omitempty,max=50"`
	AcademicYear string `json:"academic_year"`
	Force        bool   `json:"force"`
}

type BulkInitializeRequest struct {
	UserType     string `json:"user_type" binding:"required,oneof=student teacher staff"`
	Department   string `json:"department" binding:"required,max=50"`
	AcademicYear string `json:"academic_year"`
	Force        bool   `json:"force"`
}

// ResetRequest sets used back to ToValue, for one leave type or all of them.
type ResetRequest struct {
	AcademicYear string `json:"academic_year"`
	ToValue      int    `json:"to_value" binding:"gte=0"`
	LeaveType    string `json:"leave_type" binding:"omitempty,max=30"`
}

type ListLowFilter struct {
	Threshold    *int   `form:"threshold" binding:"omitempty,gte=0"`
	UserType     string `form:"user_type" binding:"omitempty,oneof=student teacher staff"`
	Department   string `form:"department"`
	AcademicYear string `form:"academic_year"`
}

type EntryResponse struct {
	LeaveType      string `json:"leave_type"`
	Allocated      int    `json:"allocated"`
	Used           int    `json:"used"`
	Remaining      int    `json:"remaining"`
	CarriedForward int    `json:"carried_forward"`
}

type BalanceResponse struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	AcademicYear    string          `json:"academic_year"`
	UserType        string          `json:"user_type"`
	Department      string          `json:"department"`
	PolicyID        string          `json:"policy_id"`
	ExcludeWeekends bool            `json:"exclude_weekends"`
	Entries         []EntryResponse `json:"entries"`
	UpdatedAt       string          `json:"updated_at"`
}

// Remaining returns the remaining days of leaveType.
func (b BalanceResponse) Remaining(leaveType string) (int, bool) {
	for _, e := range b.Entries {
		if e.LeaveType == leaveType {
			return e.Remaining, true
		}
	}
	return 0, false
}

type InitializeResult struct {
	Balance BalanceResponse `json:"balance"`
	Created bool            `json:"created"`
}

type BulkFailure struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type BulkInitializeResult struct {
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Failures []BulkFailure `json:"failures,omitempty"`
}

type LeaveTypeSummary struct {
	LeaveType string `json:"leave_type"`
	Allocated int64  `json:"allocated"`
	Used      int64  `json:"used"`
	Remaining int64  `json:"remaining"`
	Users     int64  `json:"users"`
}

type SummaryResponse struct {
	AcademicYear string             `json:"academic_year"`
	Department   string             `json:"department"`
	Users        int64              `json:"users"`
	LeaveTypes   []LeaveTypeSummary `json:"leave_types"`
}
