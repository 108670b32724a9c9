package domain

// Roles carried in the access token.
const (
	RoleSuperAdmin = "super_admin"
	RoleHOD        = "hod"
	RoleTeacher    = "teacher"
	RoleStaff      = "staff"
	RoleStudent    = "student"
)

// User types a leave policy can be scoped to.
const (
	UserTypeStudent = "student"
	UserTypeTeacher = "teacher"
	UserTypeStaff   = "staff"
)

// Permission scopes. "own" grants access inside the caller's department,
// "any" across departments.
const (
	ScopeOwn = "own"
	ScopeAny = "any"
)

// Actor is the already authenticated caller of an operation.
type Actor struct {
	UserID     string
	Role       string
	UserType   string
	Department string
}

type EnforceRequest struct {
	Role             string `json:"role" binding:"required"`
	Department       string `json:"department"`
	TargetDepartment string `json:"target_department"`
	Resource         string `json:"resource" binding:"required"`
	Action           string `json:"action" binding:"required"`
}

// Scope reports which permission scope the request needs.
func (r EnforceRequest) Scope() string {
	if r.TargetDepartment == "" || r.TargetDepartment == r.Department {
		return ScopeOwn
	}
	return ScopeAny
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

func ValidUserType(t string) bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeStaff:
		return true
	default:
		return false
	}
}

func ValidRole(r string) bool {
	switch r {
	case RoleSuperAdmin, RoleHOD, RoleTeacher, RoleStaff, RoleStudent:
		return true
	default:
		return false
	}
}
