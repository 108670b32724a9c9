package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is one user's ledger for one academic year. The policy rules
// the workflow needs are snapshotted here at initialisation.
type LeaveBalance struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_user_year,priority:1"`
	AcademicYear    string              `gorm:"type:varchar(9);not null;uniqueIndex:uq_leave_balances_user_year,priority:2;index"`
	UserType        string              `gorm:"type:varchar(20);not null"`
	Department      string              `gorm:"type:varchar(50);not null;index"`
	PolicyID        uuid.UUID           `gorm:"type:uuid;not null"`
	ExcludeWeekends bool                `gorm:"not null;default:false"`
	Entries         []LeaveBalanceEntry `gorm:"foreignKey:BalanceID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}

// LeaveBalanceEntry holds the counters of one leave type. Remaining is
// always allocated minus used; every mutation bumps Version.
type LeaveBalanceEntry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	BalanceID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balance_entries_type,priority:1"`
	LeaveType      string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balance_entries_type,priority:2"`
	Position       int       `gorm:"not null;default:0"`
	Allocated      int       `gorm:"not null"`
	Used           int       `gorm:"not null;default:0"`
	Remaining      int       `gorm:"not null"`
	CarriedForward int       `gorm:"not null;default:0"`
	Version        int64     `gorm:"not null;default:1"`
	UpdatedAt      time.Time
}

func (LeaveBalanceEntry) TableName() string {
	return "leave_balance_entries"
}

// Entry returns the entry for leaveType, if the balance has one.
func (b *LeaveBalance) Entry(leaveType string) (*LeaveBalanceEntry, bool) {
	for i := range b.Entries {
		if b.Entries[i].LeaveType == leaveType {
			return &b.Entries[i], true
		}
	}
	return nil, false
}

// LeaveTypeTotals is one row of the summary aggregate.
type LeaveTypeTotals struct {
	LeaveType string
	Allocated int64
	Used      int64
	Remaining int64
	Users     int64
}
