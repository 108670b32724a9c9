package leavepolicy

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Entitlement is the number of days of one leave type granted per academic
// year.
type Entitlement struct {
	LeaveType string `json:"leave_type"`
	Days      int    `json:"days"`
}

// LeavePolicy defines the entitlements of a cohort: one user type in one
// department (or every department) for one academic year. Policies are
// deactivated when superseded, never deleted.
type LeavePolicy struct {
	ID           uuid.UUID                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserType     string                           `gorm:"type:varchar(20);not null;index:idx_leave_policies_scope"`
	Department   string                           `gorm:"type:varchar(50);not null;index:idx_leave_policies_scope"`
	AcademicYear string                           `gorm:"type:varchar(9);not null;index:idx_leave_policies_scope"`
	Entitlements datatypes.JSONSlice[Entitlement] `gorm:"type:jsonb;not null"`

	CarryForwardEnabled bool `gorm:"not null;default:false"`
	CarryForwardMaxDays int  `gorm:"not null;default:0"`
	ExcludeWeekends     bool `gorm:"not null;default:false"`
	IsActive            bool `gorm:"not null;default:true"`

	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeavePolicy) TableName() string {
	return "leave_policies"
}

// EntitlementFor returns the annual days for leaveType.
func (p LeavePolicy) EntitlementFor(leaveType string) (int, bool) {
	for _, e := range p.Entitlements {
		if e.LeaveType == leaveType {
			return e.Days, true
		}
	}
	return 0, false
}

// DefaultEntitlements is the baseline table installed by CreateDefault.
func DefaultEntitlements() []Entitlement {
	return []Entitlement{
		{LeaveType: "CASUAL", Days: 12},
		{LeaveType: "SICK", Days: 10},
		{LeaveType: "EARNED", Days: 15},
	}
}
