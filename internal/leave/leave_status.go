package leave

import (
	"strings"

	leaveerrors "go-campus/internal/leave/errors"
)

// Status is the closed set of application states.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return st, nil
	default:
		return "", leaveerrors.ErrInvalidStatus
	}
}

// CanTransitionTo reports whether next is reachable from s in one step.
// An approved application may still be cancelled once.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected || next == StatusCancelled
	case StatusApproved:
		return next == StatusCancelled
	default:
		return false
	}
}

func (s Status) String() string {
	return string(s)
}
