package leave

import (
	"context"
	"database/sql"
	"time"

	"go-campus/internal/shared/dbtx"
	"go-campus/internal/shared/scope"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *LeaveApplication) error
	FindByID(ctx context.Context, id string) (*LeaveApplication, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveApplication, error)
	Update(ctx context.Context, a *LeaveApplication) error
	HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error)
	FindAll(ctx context.Context, filter ListFilter, page, pageSize int) ([]LeaveApplication, int64, error)
	CountByStatus(ctx context.Context, filter StatisticsFilter) ([]StatusCount, error)
	CountByLeaveType(ctx context.Context, filter StatisticsFilter) ([]LeaveTypeCount, error)
	ApprovalLatency(ctx context.Context, filter StatisticsFilter) (ApprovalLatency, error)
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

func (r *repository) Create(ctx context.Context, a *LeaveApplication) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveApplication, error) {
	var a LeaveApplication
	err := r.conn(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

// FindByIDForUpdate locks the row so concurrent transitions of one
// application run one after the other.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveApplication, error) {
	var a LeaveApplication
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) Update(ctx context.Context, a *LeaveApplication) error {
	return r.conn(ctx).Save(a).Error
}

// HasOverlappingPeriod checks the live (pending or approved) applications
// of the user.
func (r *repository) HasOverlappingPeriod(ctx context.Context, userID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveApplication{}).
		Where("user_id = ?", userID).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) filtered(ctx context.Context, filter ListFilter) *gorm.DB {
	db := r.conn(ctx).
		Model(&LeaveApplication{}).
		Scopes(scope.Department(filter.Department), scope.AcademicYear(filter.AcademicYear))
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	return db
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter, page, pageSize int) ([]LeaveApplication, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []LeaveApplication
	err := r.filtered(ctx, filter).
		Scopes(scope.Paginate(page, pageSize)).
		Order("submitted_at DESC").
		Find(&apps).Error
	return apps, total, err
}

func (r *repository) stats(ctx context.Context, filter StatisticsFilter) *gorm.DB {
	return r.conn(ctx).
		Model(&LeaveApplication{}).
		Scopes(scope.Department(filter.Department), scope.AcademicYear(filter.AcademicYear))
}

func (r *repository) CountByStatus(ctx context.Context, filter StatisticsFilter) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.stats(ctx, filter).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountByLeaveType(ctx context.Context, filter StatisticsFilter) ([]LeaveTypeCount, error) {
	var rows []LeaveTypeCount
	err := r.stats(ctx, filter).
		Select("leave_type, COUNT(*) AS total").
		Group("leave_type").
		Order("leave_type ASC").
		Scan(&rows).Error
	return rows, err
}

// ApprovalLatency covers applications that were approved, including those
// cancelled afterwards.
func (r *repository) ApprovalLatency(ctx context.Context, filter StatisticsFilter) (ApprovalLatency, error) {
	var out ApprovalLatency
	err := r.stats(ctx, filter).
		Select(`COALESCE(SUM(EXTRACT(EPOCH FROM (decided_at - submitted_at)))::bigint, 0) AS seconds,
			COUNT(*) AS count`).
		Where("approver_id IS NOT NULL AND decided_at IS NOT NULL").
		Where("status IN ?", []Status{StatusApproved, StatusCancelled}).
		Scan(&out).Error
	return out, err
}
