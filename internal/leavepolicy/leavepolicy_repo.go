package leavepolicy

import (
	"context"
	"database/sql"

	"go-campus/internal/shared/dbtx"
	"go-campus/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveScopeIndex backs the one-active-policy-per-scope rule.
const ActiveScopeIndex = "uq_leave_policies_active_scope"

//go:generate mockgen -source=leavepolicy_repo.go -destination=mock/leavepolicy_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *LeavePolicy) error
	FindByID(ctx context.Context, id string) (*LeavePolicy, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeavePolicy, error)
	FindActiveCandidates(ctx context.Context, userType, department, academicYear string) ([]LeavePolicy, error)
	ExistsActive(ctx context.Context, userType, department, academicYear, excludeID string) (bool, error)
	FindAll(ctx context.Context, filter ListPoliciesFilter, page, pageSize int) ([]LeavePolicy, int64, error)
	Update(ctx context.Context, p *LeavePolicy) error
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

func (r *repository) Create(ctx context.Context, p *LeavePolicy) error {
	return r.conn(ctx).Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.conn(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeavePolicy, error) {
	var p LeavePolicy
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	return &p, err
}

// FindActiveCandidates returns the active policies for the user type and
// year whose department is department or the wildcard.
func (r *repository) FindActiveCandidates(ctx context.Context, userType, department, academicYear string) ([]LeavePolicy, error) {
	var policies []LeavePolicy
	err := r.conn(ctx).
		Where("is_active = ?", true).
		Where("user_type = ?", userType).
		Where("academic_year = ?", academicYear).
		Where("department IN ?", []string{department, scope.AllDepartments}).
		Find(&policies).Error
	return policies, err
}

func (r *repository) ExistsActive(ctx context.Context, userType, department, academicYear, excludeID string) (bool, error) {
	db := r.conn(ctx).
		Model(&LeavePolicy{}).
		Where("is_active = ?", true).
		Where("user_type = ?", userType).
		Where("department = ?", department).
		Where("academic_year = ?", academicYear)
	if excludeID != "" {
		db = db.Where("id <> ?", excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) FindAll(ctx context.Context, filter ListPoliciesFilter, page, pageSize int) ([]LeavePolicy, int64, error) {
	db := r.conn(ctx).Model(&LeavePolicy{}).Scopes(scope.AcademicYear(filter.AcademicYear))

	if filter.UserType != "" {
		db = db.Where("user_type = ?", filter.UserType)
	}
	if filter.Department != "" {
		db = db.Where("department = ?", filter.Department)
	}
	if filter.Active != nil {
		db = db.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var policies []LeavePolicy
	err := db.
		Scopes(scope.Paginate(page, pageSize)).
		Order("academic_year DESC, user_type ASC, department ASC").
		Find(&policies).Error
	return policies, total, err
}

func (r *repository) Update(ctx context.Context, p *LeavePolicy) error {
	return r.conn(ctx).Save(p).Error
}
