package rbac

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetRolePermissions() ([]RolePermissionRow, error)
	GetRoleInheritance() ([]RoleInheritanceRow, error)
	SeedDefaults(perms []RolePermissionRow, inheritance []RoleInheritanceRow) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type RolePermissionRow struct {
	Role     string `gorm:"primaryKey;type:varchar(30)"`
	Resource string `gorm:"primaryKey;type:varchar(50)"`
	Action   string `gorm:"primaryKey;type:varchar(50)"`
	Scope    string `gorm:"type:varchar(10);not null;default:'own'"`
}

func (RolePermissionRow) TableName() string {
	return "role_permissions"
}

// RoleInheritanceRow grants Role every permission of Inherits.
type RoleInheritanceRow struct {
	Role     string `gorm:"primaryKey;type:varchar(30)"`
	Inherits string `gorm:"primaryKey;type:varchar(30)"`
}

func (RoleInheritanceRow) TableName() string {
	return "role_inheritance"
}

func (r *repository) GetRolePermissions() ([]RolePermissionRow, error) {
	var result []RolePermissionRow
	err := r.db.Order("role, resource, action").Find(&result).Error
	return result, err
}

func (r *repository) GetRoleInheritance() ([]RoleInheritanceRow, error) {
	var result []RoleInheritanceRow
	err := r.db.Order("role, inherits").Find(&result).Error
	return result, err
}

// SeedDefaults inserts the given rows, leaving rows an administrator already
// edited untouched.
func (r *repository) SeedDefaults(perms []RolePermissionRow, inheritance []RoleInheritanceRow) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(perms) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&perms).Error; err != nil {
				return err
			}
		}
		if len(inheritance) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&inheritance).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
