package rbac

import "go-campus/internal/domain"

// Resources and actions checked by routes and by the leave workflow.
const (
	ResourceLeaveApplication = "leave_application"
	ResourceLeaveBalance     = "leave_balance"
	ResourceLeavePolicy      = "leave_policy"
	ResourceUser             = "user"

	ActionCreate         = "create"
	ActionRead           = "read"
	ActionReadAll        = "read_all"
	ActionManage         = "manage"
	ActionApprove        = "approve"
	ActionCancelApproved = "cancel_approved"
)

// DefaultPermissions is the permission set installed on first start.
func DefaultPermissions() []RolePermissionRow {
	own, all := domain.ScopeOwn, domain.ScopeAny
	return []RolePermissionRow{
		{Role: domain.RoleStudent, Resource: ResourceLeaveApplication, Action: ActionCreate, Scope: own},

		{Role: domain.RoleHOD, Resource: ResourceLeaveApplication, Action: ActionApprove, Scope: own},
		{Role: domain.RoleHOD, Resource: ResourceLeaveApplication, Action: ActionCancelApproved, Scope: own},
		{Role: domain.RoleHOD, Resource: ResourceLeaveApplication, Action: ActionReadAll, Scope: own},
		{Role: domain.RoleHOD, Resource: ResourceLeaveBalance, Action: ActionRead, Scope: own},
		{Role: domain.RoleHOD, Resource: ResourceLeavePolicy, Action: ActionRead, Scope: all},
		{Role: domain.RoleHOD, Resource: ResourceUser, Action: ActionRead, Scope: own},

		{Role: domain.RoleSuperAdmin, Resource: ResourceLeaveApplication, Action: ActionApprove, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceLeaveApplication, Action: ActionCancelApproved, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceLeaveApplication, Action: ActionReadAll, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceLeaveBalance, Action: ActionRead, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceLeaveBalance, Action: ActionManage, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceLeavePolicy, Action: ActionManage, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceUser, Action: ActionRead, Scope: all},
		{Role: domain.RoleSuperAdmin, Resource: ResourceUser, Action: ActionManage, Scope: all},
	}
}

func DefaultInheritance() []RoleInheritanceRow {
	return []RoleInheritanceRow{
		{Role: domain.RoleTeacher, Inherits: domain.RoleStudent},
		{Role: domain.RoleStaff, Inherits: domain.RoleStudent},
		{Role: domain.RoleHOD, Inherits: domain.RoleTeacher},
		{Role: domain.RoleSuperAdmin, Inherits: domain.RoleHOD},
	}
}
