package leavepolicy

type EntitlementRequest struct {
	LeaveType string `json:"leave_type" binding:"required,max=30"`
	Days      int    `json:"days" binding:"gte=0,lte=366"`
}

type CreatePolicyRequest struct {
	UserType            string               `json:"user_type" binding:"required,oneof=student teacher staff"`
	Department          string               `json:"department" binding:"required,max=50"`
	AcademicYear        string               `json:"academic_year" binding:"required"`
	Entitlements        []EntitlementRequest `json:"entitlements" binding:"required,min=1,dive"`
	CarryForwardEnabled bool                 `json:"carry_forward_enabled"`
	CarryForwardMaxDays int                  `json:"carry_forward_max_days" binding:"gte=0"`
	ExcludeWeekends     bool                 `json:"exclude_weekends"`
}

type CreateDefaultPolicyRequest struct {
	UserType     string `json:"user_type" binding:"required,oneof=student teacher staff"`
	Department   string `json:"department" binding:"required,max=50"`
	AcademicYear string `json:"academic_year" binding:"required"`
}

// UpdatePolicyRequest replaces the rules of a policy. Its scope cannot
// change.
type UpdatePolicyRequest struct {
	Entitlements        []EntitlementRequest `json:"entitlements" binding:"required,min=1,dive"`
	CarryForwardEnabled bool                 `json:"carry_forward_enabled"`
	CarryForwardMaxDays int                  `json:"carry_forward_max_days" binding:"gte=0"`
	ExcludeWeekends     bool                 `json:"exclude_weekends"`
}

type ListPoliciesFilter struct {
	UserType     string `form:"user_type" binding:"omitempty,oneof=student teacher staff"`
	Department   string `form:"department"`
	AcademicYear string `form:"academic_year"`
	Active       *bool  `form:"active"`
}

type EntitlementResponse struct {
	LeaveType string `json:"leave_type"`
	Days      int    `json:"days"`
}

type PolicyResponse struct {
	ID                  string                `json:"id"`
	UserType            string                `json:"user_type"`
	Department          string                `json:"department"`
	AcademicYear        string                `json:"academic_year"`
	Entitlements        []EntitlementResponse `json:"entitlements"`
	CarryForwardEnabled bool                  `json:"carry_forward_enabled"`
	CarryForwardMaxDays int                   `json:"carry_forward_max_days"`
	ExcludeWeekends     bool                  `json:"exclude_weekends"`
	IsActive            bool                  `json:"is_active"`
	CreatedBy           *string               `json:"created_by,omitempty"`
	CreatedAt           string                `json:"created_at"`
	UpdatedAt           string                `json:"updated_at"`
}
