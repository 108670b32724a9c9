package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a member of the university directory: a student, teacher or
// staff member. Credentials live with the login service.
type User struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string         `gorm:"column:name;type:varchar(255);not null"`
	Email      string         `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	UserType   string         `gorm:"column:user_type;type:varchar(20);not null;index:idx_users_scope"`
	Role       string         `gorm:"column:role;type:varchar(30);not null;default:student"`
	Department string         `gorm:"column:department;type:varchar(50);not null;index:idx_users_scope"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
