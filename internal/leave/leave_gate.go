package leave

import (
	"go-campus/internal/domain"
	"go-campus/internal/rbac"
)

// Gate decides whether an actor may perform a guarded transition on an
// application of department.
type Gate interface {
	Allowed(actor domain.Actor, department, action string) (bool, error)
}

type Enforcer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type rbacGate struct {
	enforcer Enforcer
}

// NewGate answers transition checks from the role permissions of the
// leave_application resource.
func NewGate(enforcer Enforcer) Gate {
	return &rbacGate{enforcer: enforcer}
}

func (g *rbacGate) Allowed(actor domain.Actor, department, action string) (bool, error) {
	return g.enforcer.Enforce(domain.EnforceRequest{
		Role:             actor.Role,
		Department:       actor.Department,
		TargetDepartment: department,
		Resource:         rbac.ResourceLeaveApplication,
		Action:           action,
	})
}
