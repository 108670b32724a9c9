package events

import "time"

const LeaveApplicationTopic = "campus.leave.application.v1"

const (
	LeaveApplicationSubmitted = "leave_application.submitted"
	LeaveApplicationApproved  = "leave_application.approved"
	LeaveApplicationRejected  = "leave_application.rejected"
	LeaveApplicationCancelled = "leave_application.cancelled"
)

// LeaveApplicationEvent is published on every state change of an
// application. The notification layer fans it out to the applicant and
// the reviewers of Department.
type LeaveApplicationEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	ApplicationID string    `json:"application_id"`
	ReferenceNo   string    `json:"reference_no"`
	UserID        string    `json:"user_id"`
	Department    string    `json:"department"`
	LeaveType     string    `json:"leave_type"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	DayCount      int       `json:"day_count"`
	Status        string    `json:"status"`
	ActorID       string    `json:"actor_id"`
	Comments      string    `json:"comments,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
