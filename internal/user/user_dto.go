package user

type CreateUserRequest struct {
	Name       string `json:"name" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email"`
	UserType   string `json:"user_type" binding:"required,oneof=student teacher staff"`
	Role       string `json:"role" binding:"omitempty,oneof=super_admin hod teacher staff student"`
	Department string `json:"department" binding:"required,max=50"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type ListUsersFilter struct {
	UserType   string `form:"user_type" binding:"omitempty,oneof=student teacher staff"`
	Department string `form:"department"`
	Q          string `form:"q"`
}

type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	UserType   string `json:"user_type"`
	Role       string `json:"role"`
	Department string `json:"department"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}
