package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveApplication struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ReferenceNo string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_applications_reference"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_applications_user_dates"`
	Department  string    `gorm:"type:varchar(50);not null;index:idx_leave_applications_department_status"`
	UserType    string    `gorm:"type:varchar(20);not null"`

	AcademicYear string    `gorm:"type:varchar(9);not null;index"`
	LeaveType    string    `gorm:"type:varchar(30);not null"`
	StartDate    time.Time `gorm:"type:date;not null;index:idx_leave_applications_user_dates"`
	EndDate      time.Time `gorm:"type:date;not null;index:idx_leave_applications_user_dates"`
	DayCount     int       `gorm:"not null"`
	Reason       string    `gorm:"type:text"`

	Status           Status     `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_leave_applications_department_status"`
	ApproverID       *uuid.UUID `gorm:"type:uuid"`
	ApproverComments *string    `gorm:"type:text"`
	CancelledBy      *uuid.UUID `gorm:"type:uuid"`

	SubmittedAt time.Time `gorm:"not null"`
	DecidedAt   *time.Time
	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}

type StatusCount struct {
	Status Status
	Total  int64
}

type LeaveTypeCount struct {
	LeaveType string
	Total     int64
}

// ApprovalLatency sums decided_at - submitted_at over approved applications.
type ApprovalLatency struct {
	Seconds int64
	Count   int64
}
