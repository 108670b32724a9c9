package leavebalance

import (
	"context"
	"database/sql"

	"go-campus/internal/shared/dbtx"
	"go-campus/internal/shared/scope"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavebalance_repo.go -destination=mock/leavebalance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *LeaveBalance) error
	FindByUserYear(ctx context.Context, userID, academicYear string) (*LeaveBalance, error)
	ReplaceEntries(ctx context.Context, b *LeaveBalance) error
	Debit(ctx context.Context, userID, academicYear, leaveType string, days int) (int64, error)
	Credit(ctx context.Context, userID, academicYear, leaveType string, days int) (int64, error)
	Reset(ctx context.Context, balanceID, leaveType string, toValue int) (int64, error)
	FindByDepartment(ctx context.Context, department, academicYear string, page, pageSize int) ([]LeaveBalance, int64, error)
	FindLow(ctx context.Context, threshold int, filter ListLowFilter) ([]LeaveBalance, error)
	Summary(ctx context.Context, academicYear, department string) ([]LeaveTypeTotals, int64, error)
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

func orderedEntries(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, leave_type ASC")
}

// balanceOf selects the header id of (user, year) for entry updates.
const balanceOf = "balance_id = (SELECT id FROM leave_balances WHERE user_id = ? AND academic_year = ?)"

func (r *repository) Create(ctx context.Context, b *LeaveBalance) error {
	return r.conn(ctx).Create(b).Error
}

func (r *repository) FindByUserYear(ctx context.Context, userID, academicYear string) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Preload("Entries", orderedEntries).
		Where("user_id = ? AND academic_year = ?", userID, academicYear).
		First(&b).Error
	return &b, err
}

// ReplaceEntries rewrites the header snapshot and swaps every entry of b.
func (r *repository) ReplaceEntries(ctx context.Context, b *LeaveBalance) error {
	db := r.conn(ctx)

	err := db.Model(&LeaveBalance{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"user_type":        b.UserType,
			"department":       b.Department,
			"policy_id":        b.PolicyID,
			"exclude_weekends": b.ExcludeWeekends,
			"updated_at":       gorm.Expr("now()"),
		}).Error
	if err != nil {
		return err
	}

	if err := db.Where("balance_id = ?", b.ID).Delete(&LeaveBalanceEntry{}).Error; err != nil {
		return err
	}
	if len(b.Entries) == 0 {
		return nil
	}
	return db.Create(&b.Entries).Error
}

// Debit moves days from remaining to used only while remaining covers them.
// Zero rows affected means the entry is missing or too small.
func (r *repository) Debit(ctx context.Context, userID, academicYear, leaveType string, days int) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveBalanceEntry{}).
		Where(balanceOf, userID, academicYear).
		Where("leave_type = ?", leaveType).
		Where("remaining >= ?", days).
		Updates(map[string]any{
			"used":       gorm.Expr("used + ?", days),
			"remaining":  gorm.Expr("remaining - ?", days),
			"version":    gorm.Expr("version + 1"),
			"updated_at": gorm.Expr("now()"),
		})
	return res.RowsAffected, res.Error
}

// Credit gives back days, never letting used drop below zero.
func (r *repository) Credit(ctx context.Context, userID, academicYear, leaveType string, days int) (int64, error) {
	res := r.conn(ctx).
		Model(&LeaveBalanceEntry{}).
		Where(balanceOf, userID, academicYear).
		Where("leave_type = ?", leaveType).
		Updates(map[string]any{
			"used":       gorm.Expr("GREATEST(used - ?, 0)", days),
			"remaining":  gorm.Expr("allocated - GREATEST(used - ?, 0)", days),
			"version":    gorm.Expr("version + 1"),
			"updated_at": gorm.Expr("now()"),
		})
	return res.RowsAffected, res.Error
}

// Reset sets used to toValue capped at allocated. An empty leaveType resets
// every entry of the balance.
func (r *repository) Reset(ctx context.Context, balanceID, leaveType string, toValue int) (int64, error) {
	db := r.conn(ctx).
		Model(&LeaveBalanceEntry{}).
		Where("balance_id = ?", balanceID)
	if leaveType != "" {
		db = db.Where("leave_type = ?", leaveType)
	}

	res := db.Updates(map[string]any{
		"used":       gorm.Expr("LEAST(?, allocated)", toValue),
		"remaining":  gorm.Expr("allocated - LEAST(?, allocated)", toValue),
		"version":    gorm.Expr("version + 1"),
		"updated_at": gorm.Expr("now()"),
	})
	return res.RowsAffected, res.Error
}

func (r *repository) FindByDepartment(ctx context.Context, department, academicYear string, page, pageSize int) ([]LeaveBalance, int64, error) {
	db := r.conn(ctx).
		Model(&LeaveBalance{}).
		Scopes(scope.Department(department), scope.AcademicYear(academicYear))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var balances []LeaveBalance
	err := db.
		Preload("Entries", orderedEntries).
		Scopes(scope.Paginate(page, pageSize)).
		Order("department ASC, user_id ASC").
		Find(&balances).Error
	return balances, total, err
}

// FindLow returns balances having at least one entry at or below threshold.
func (r *repository) FindLow(ctx context.Context, threshold int, filter ListLowFilter) ([]LeaveBalance, error) {
	db := r.conn(ctx).
		Model(&LeaveBalance{}).
		Scopes(scope.Department(filter.Department), scope.AcademicYear(filter.AcademicYear)).
		Where("EXISTS (SELECT 1 FROM leave_balance_entries e WHERE e.balance_id = leave_balances.id AND e.remaining <= ?)", threshold)
	if filter.UserType != "" {
		db = db.Where("user_type = ?", filter.UserType)
	}

	var balances []LeaveBalance
	err := db.
		Preload("Entries", orderedEntries).
		Order("academic_year DESC, department ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) Summary(ctx context.Context, academicYear, department string) ([]LeaveTypeTotals, int64, error) {
	var users int64
	err := r.conn(ctx).
		Model(&LeaveBalance{}).
		Scopes(scope.Department(department), scope.AcademicYear(academicYear)).
		Count(&users).Error
	if err != nil {
		return nil, 0, err
	}

	db := r.conn(ctx).
		Table("leave_balance_entries AS e").
		Select(`e.leave_type AS leave_type,
			SUM(e.allocated) AS allocated,
			SUM(e.used) AS used,
			SUM(e.remaining) AS remaining,
			COUNT(DISTINCT b.user_id) AS users`).
		Joins("JOIN leave_balances AS b ON b.id = e.balance_id").
		Where("b.academic_year = ?", academicYear)
	if department != "" && department != scope.AllDepartments {
		db = db.Where("b.department = ?", department)
	}

	var rows []LeaveTypeTotals
	err = db.Group("e.leave_type").Order("e.leave_type ASC").Scan(&rows).Error
	return rows, users, err
}
