package user

import (
	"context"
	"database/sql"
	"strings"

	"go-campus/internal/shared/dbtx"
	"go-campus/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context, filter ListUsersFilter, page, pageSize int) ([]User, int64, error)
	FindActiveByScope(ctx context.Context, userType, department string) ([]User, error)
	UpdateStatus(ctx context.Context, id string, isActive bool) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.conn(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, filter ListUsersFilter, page, pageSize int) ([]User, int64, error) {
	db := r.conn(ctx).
		Model(&User{}).
		Scopes(scope.Department(filter.Department))

	if filter.UserType != "" {
		db = db.Where("user_type = ?", filter.UserType)
	}
	if q := strings.TrimSpace(filter.Q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	err := db.
		Scopes(scope.Paginate(page, pageSize)).
		Order("name ASC").
		Find(&users).Error
	return users, total, err
}

// FindActiveByScope lists active users of a type; department "ALL" or empty
// matches every department.
func (r *repository) FindActiveByScope(ctx context.Context, userType, department string) ([]User, error) {
	var users []User
	err := r.conn(ctx).
		Scopes(scope.Department(department)).
		Where("user_type = ?", userType).
		Where("is_active = ?", true).
		Order("department ASC, name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, isActive bool) (int64, error) {
	res := r.conn(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Update("is_active", isActive)
	return res.RowsAffected, res.Error
}
