package leavebalance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-campus/internal/bootstrap"
	"go-campus/internal/domain"
	leavebalanceerrors "go-campus/internal/leavebalance/errors"
	"go-campus/internal/leavepolicy"
	"go-campus/internal/shared/academicyear"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/shared/contextutil"
	"go-campus/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const userYearIndex = "uq_leave_balances_user_year"

type PolicyResolver interface {
	Resolve(ctx context.Context, userType, department, academicYear string) (leavepolicy.LeavePolicy, error)
}

type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.UserResponse, error)
	ListActiveByScope(ctx context.Context, userType, department string) ([]user.UserResponse, error)
}

//go:generate mockgen -source=leavebalance_service.go -destination=mock/leavebalance_service_mock.go -package=mock
type Service interface {
	Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	InitializeBulk(ctx context.Context, actorID string, req BulkInitializeRequest) (BulkInitializeResult, error)
	GetBalance(ctx context.Context, userID, academicYear string) (BalanceResponse, error)
	ListByDepartment(ctx context.Context, department, academicYear string, page, pageSize int) ([]BalanceResponse, int64, error)
	ListLow(ctx context.Context, filter ListLowFilter) ([]BalanceResponse, error)
	Reset(ctx context.Context, actorID, userID string, req ResetRequest) (BalanceResponse, error)
	Summary(ctx context.Context, academicYear, department string) (SummaryResponse, error)
	Debit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error
	Credit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error
}

// Settings carries the configured ledger defaults.
type Settings struct {
	AcademicYearStartMonth int
	LowBalanceThreshold    int
}

type service struct {
	db       *sql.DB
	repo     Repository
	policies PolicyResolver
	users    UserDirectory
	audit    bootstrap.AuditLogger
	settings Settings
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	policies PolicyResolver,
	users UserDirectory,
	audit bootstrap.AuditLogger,
	settings Settings,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leavebalance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		policies: policies,
		users:    users,
		audit:    audit,
		settings: settings,
		now:      time.Now,
		logger:   l,
	}
}

// Initialize creates the ledger of one user from the resolved policy. An
// existing ledger is returned unchanged unless req.Force is set.
func (s *service) Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error) {
	if _, err := uuid.Parse(req.UserID); err != nil {
		return InitializeResult{}, leavebalanceerrors.ErrInvalidUserID
	}
	year, err := s.academicYear(req.AcademicYear)
	if err != nil {
		return InitializeResult{}, err
	}

	userType, department := req.UserType, req.Department
	if userType == "" || department == "" {
		u, err := s.users.GetByID(ctx, req.UserID)
		if err != nil {
			return InitializeResult{}, err
		}
		if userType == "" {
			userType = u.UserType
		}
		if department == "" {
			department = u.Department
		}
	}
	if !domain.ValidUserType(userType) {
		return InitializeResult{}, leavebalanceerrors.ErrInvalidUserType
	}

	return s.initialize(ctx, req.UserID, userType, normalizeDepartment(department), year, req.Force)
}

func (s *service) initialize(ctx context.Context, userID, userType, department, year string, force bool) (InitializeResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("initialize balance begin tx failed", zap.Error(err))
		return InitializeResult{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindByUserYear(ctx, userID, year)
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("initialize balance lookup failed", zap.String("user_id", userID), zap.Error(err))
		return InitializeResult{}, apperror.MapPersistence(err)
	}
	if found && !force {
		return InitializeResult{Balance: mapToResponse(*existing)}, nil
	}

	policy, err := s.policies.Resolve(ctx, userType, department, year)
	if err != nil {
		l.Warn("initialize balance policy not resolved",
			zap.String("user_id", userID),
			zap.String("user_type", userType),
			zap.String("department", department),
			zap.String("academic_year", year),
			zap.Error(err),
		)
		return InitializeResult{}, err
	}

	carried, err := s.carryForward(ctx, qtx, userID, year, policy)
	if err != nil {
		return InitializeResult{}, err
	}

	b := buildBalance(userID, userType, department, year, policy, carried)
	if found {
		b.ID = existing.ID
		b.CreatedAt = existing.CreatedAt
		for i := range b.Entries {
			b.Entries[i].BalanceID = existing.ID
		}
		err = qtx.ReplaceEntries(ctx, b)
	} else {
		err = qtx.Create(ctx, b)
	}
	if err != nil {
		if apperror.IsUniqueViolation(err, userYearIndex) {
			return s.concurrentInitialize(ctx, userID, year)
		}
		l.Error("initialize balance persist failed", zap.String("user_id", userID), zap.Error(err))
		return InitializeResult{}, apperror.MapPersistence(err)
	}

	if err := tx.Commit(); err != nil {
		l.Error("initialize balance commit failed", zap.Error(err))
		return InitializeResult{}, apperror.MapPersistence(err)
	}

	l.Info("initialize balance success",
		zap.String("user_id", userID),
		zap.String("academic_year", year),
		zap.String("policy_id", policy.ID.String()),
		zap.Bool("replaced", found),
	)
	return InitializeResult{Balance: mapToResponse(*b), Created: true}, nil
}

// concurrentInitialize returns the ledger another request created first.
func (s *service) concurrentInitialize(ctx context.Context, userID, year string) (InitializeResult, error) {
	b, err := s.repo.FindByUserYear(ctx, userID, year)
	if err != nil {
		return InitializeResult{}, apperror.MapPersistence(err)
	}
	return InitializeResult{Balance: mapToResponse(*b)}, nil
}

// carryForward returns the days each leave type brings over from the
// previous academic year, capped by the policy.
func (s *service) carryForward(ctx context.Context, repo Repository, userID, year string, policy leavepolicy.LeavePolicy) (map[string]int, error) {
	if !policy.CarryForwardEnabled || policy.CarryForwardMaxDays <= 0 {
		return nil, nil
	}

	prevYear, err := academicyear.Previous(year)
	if err != nil {
		return nil, leavebalanceerrors.ErrInvalidAcademicYear
	}
	prev, err := repo.FindByUserYear(ctx, userID, prevYear)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperror.MapPersistence(err)
	}

	carried := make(map[string]int, len(prev.Entries))
	for _, e := range prev.Entries {
		carried[e.LeaveType] = min(e.Remaining, policy.CarryForwardMaxDays)
	}
	return carried, nil
}

func buildBalance(userID, userType, department, year string, policy leavepolicy.LeavePolicy, carried map[string]int) *LeaveBalance {
	b := &LeaveBalance{
		ID:              uuid.New(),
		UserID:          uuid.MustParse(userID),
		AcademicYear:    year,
		UserType:        userType,
		Department:      department,
		PolicyID:        policy.ID,
		ExcludeWeekends: policy.ExcludeWeekends,
		Entries:         make([]LeaveBalanceEntry, 0, len(policy.Entitlements)),
	}
	for i, e := range policy.Entitlements {
		cf := carried[e.LeaveType]
		allocated := e.Days + cf
		b.Entries = append(b.Entries, LeaveBalanceEntry{
			ID:             uuid.New(),
			BalanceID:      b.ID,
			LeaveType:      e.LeaveType,
			Position:       i,
			Allocated:      allocated,
			Used:           0,
			Remaining:      allocated,
			CarriedForward: cf,
			Version:        1,
		})
	}
	return b
}

// InitializeBulk initialises every active user of the scope. A failing user
// is reported and the rest continue.
func (s *service) InitializeBulk(ctx context.Context, actorID string, req BulkInitializeRequest) (BulkInitializeResult, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if !domain.ValidUserType(req.UserType) {
		return BulkInitializeResult{}, leavebalanceerrors.ErrInvalidUserType
	}
	department := normalizeDepartment(req.Department)
	if department == "" {
		return BulkInitializeResult{}, leavebalanceerrors.ErrDepartmentRequired
	}
	year, err := s.academicYear(req.AcademicYear)
	if err != nil {
		return BulkInitializeResult{}, err
	}

	users, err := s.users.ListActiveByScope(ctx, req.UserType, department)
	if err != nil {
		l.Error("bulk initialize list users failed", zap.Error(err))
		return BulkInitializeResult{}, err
	}

	var res BulkInitializeResult
	for _, u := range users {
		out, err := s.initialize(ctx, u.ID, u.UserType, normalizeDepartment(u.Department), year, req.Force)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			res.Failed++
			res.Failures = append(res.Failures, BulkFailure{
				UserID: u.ID,
				Code:   httpErr.Code,
				Reason: httpErr.Message,
			})
			continue
		}
		if out.Created {
			res.Created++
		} else {
			res.Skipped++
		}
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LEAVE_BALANCE_BULK_INITIALIZE",
		Message: "Leave balances initialised in bulk",
		Meta: map[string]any{
			"actor_id":      actorID,
			"user_type":     req.UserType,
			"department":    department,
			"academic_year": year,
			"force":         req.Force,
			"created":       res.Created,
			"skipped":       res.Skipped,
			"failed":        res.Failed,
		},
	})

	l.Info("bulk initialize finished",
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (s *service) GetBalance(ctx context.Context, userID, academicYear string) (BalanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserID
	}
	year, err := s.academicYear(academicYear)
	if err != nil {
		return BalanceResponse{}, err
	}

	b, err := s.findBalance(ctx, s.repo, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) ListByDepartment(ctx context.Context, department, academicYear string, page, pageSize int) ([]BalanceResponse, int64, error) {
	department = normalizeDepartment(department)
	if department == "" {
		return nil, 0, leavebalanceerrors.ErrDepartmentRequired
	}
	year, err := s.academicYear(academicYear)
	if err != nil {
		return nil, 0, err
	}

	balances, total, err := s.repo.FindByDepartment(ctx, department, year, page, pageSize)
	if err != nil {
		s.logger.Error("list balances by department failed", zap.String("department", department), zap.Error(err))
		return nil, 0, apperror.MapPersistence(err)
	}
	return mapToListResponse(balances), total, nil
}

// ListLow returns the balances where some leave type has at most threshold
// days left. A nil threshold uses the configured default.
func (s *service) ListLow(ctx context.Context, filter ListLowFilter) ([]BalanceResponse, error) {
	threshold := s.settings.LowBalanceThreshold
	if filter.Threshold != nil {
		threshold = *filter.Threshold
	}
	if threshold < 0 {
		return nil, leavebalanceerrors.ErrInvalidThreshold
	}
	if filter.AcademicYear != "" && !academicyear.Valid(filter.AcademicYear) {
		return nil, leavebalanceerrors.ErrInvalidAcademicYear
	}
	filter.Department = normalizeDepartment(filter.Department)

	balances, err := s.repo.FindLow(ctx, threshold, filter)
	if err != nil {
		s.logger.Error("list low balances failed", zap.Error(err))
		return nil, apperror.MapPersistence(err)
	}
	return mapToListResponse(balances), nil
}

// Reset sets used to req.ToValue, capped at allocated, for one leave type or
// for all of them.
func (s *service) Reset(ctx context.Context, actorID, userID string, req ResetRequest) (BalanceResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	if _, err := uuid.Parse(userID); err != nil {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidUserID
	}
	if req.ToValue < 0 {
		return BalanceResponse{}, leavebalanceerrors.ErrInvalidResetValue
	}
	year, err := s.academicYear(req.AcademicYear)
	if err != nil {
		return BalanceResponse{}, err
	}
	leaveType := leavepolicy.NormalizeLeaveType(req.LeaveType)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	b, err := s.findBalance(ctx, qtx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	if leaveType != "" {
		if _, ok := b.Entry(leaveType); !ok {
			return BalanceResponse{}, leavebalanceerrors.ErrLeaveTypeNotFound
		}
	}

	if _, err := qtx.Reset(ctx, b.ID.String(), leaveType, req.ToValue); err != nil {
		l.Error("reset balance persist failed", zap.String("user_id", userID), zap.Error(err))
		return BalanceResponse{}, apperror.MapPersistence(err)
	}
	updated, err := s.findBalance(ctx, qtx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, apperror.MapPersistence(err)
	}

	s.audit.Log(ctx, bootstrap.AuditLog{
		Action:  "LEAVE_BALANCE_RESET",
		Message: "Leave balance reset by administrator",
		Meta: map[string]any{
			"actor_id":      actorID,
			"user_id":       userID,
			"academic_year": year,
			"leave_type":    leaveType,
			"to_value":      req.ToValue,
		},
	})

	l.Info("reset balance success",
		zap.String("user_id", userID),
		zap.String("academic_year", year),
		zap.String("leave_type", leaveType),
		zap.Int("to_value", req.ToValue),
	)
	return mapToResponse(*updated), nil
}

func (s *service) Summary(ctx context.Context, academicYear, department string) (SummaryResponse, error) {
	year, err := s.academicYear(academicYear)
	if err != nil {
		return SummaryResponse{}, err
	}
	department = normalizeDepartment(department)

	rows, users, err := s.repo.Summary(ctx, year, department)
	if err != nil {
		s.logger.Error("balance summary failed", zap.Error(err))
		return SummaryResponse{}, apperror.MapPersistence(err)
	}

	resp := SummaryResponse{
		AcademicYear: year,
		Department:   department,
		Users:        users,
		LeaveTypes:   make([]LeaveTypeSummary, len(rows)),
	}
	for i, r := range rows {
		resp.LeaveTypes[i] = LeaveTypeSummary{
			LeaveType: r.LeaveType,
			Allocated: r.Allocated,
			Used:      r.Used,
			Remaining: r.Remaining,
			Users:     r.Users,
		}
	}
	return resp, nil
}

// Debit consumes days of leaveType. It runs on tx when one is given so the
// caller commits it with its own changes. Nothing is written when the
// remaining days do not cover the request.
func (s *service) Debit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error {
	if days <= 0 {
		return leavebalanceerrors.ErrInvalidDays
	}
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	affected, err := repo.Debit(ctx, userID, academicYear, leaveType, days)
	if err != nil {
		s.logger.Error("debit balance failed", zap.String("user_id", userID), zap.Error(err))
		return apperror.MapPersistence(err)
	}
	if affected > 0 {
		s.logger.Debug("debit balance success",
			zap.String("user_id", userID),
			zap.String("leave_type", leaveType),
			zap.Int("days", days),
		)
		return nil
	}

	b, err := s.findBalance(ctx, repo, userID, academicYear)
	if err != nil {
		return err
	}
	entry, ok := b.Entry(leaveType)
	if !ok {
		return leavebalanceerrors.ErrLeaveTypeNotFound
	}
	return leavebalanceerrors.Insufficient(leaveType, entry.Remaining, days)
}

// Credit gives back days of leaveType; used never drops below zero.
func (s *service) Credit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error {
	if days <= 0 {
		return leavebalanceerrors.ErrInvalidDays
	}
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}

	affected, err := repo.Credit(ctx, userID, academicYear, leaveType, days)
	if err != nil {
		s.logger.Error("credit balance failed", zap.String("user_id", userID), zap.Error(err))
		return apperror.MapPersistence(err)
	}
	if affected > 0 {
		return nil
	}

	b, err := s.findBalance(ctx, repo, userID, academicYear)
	if err != nil {
		return err
	}
	if _, ok := b.Entry(leaveType); !ok {
		return leavebalanceerrors.ErrLeaveTypeNotFound
	}
	return nil
}

func (s *service) findBalance(ctx context.Context, repo Repository, userID, year string) (*LeaveBalance, error) {
	b, err := repo.FindByUserYear(ctx, userID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavebalanceerrors.ErrBalanceNotFound
		}
		return nil, apperror.MapPersistence(err)
	}
	return b, nil
}

// academicYear defaults an empty year to the current one.
func (s *service) academicYear(year string) (string, error) {
	year = strings.TrimSpace(year)
	if year == "" {
		return academicyear.For(s.now(), s.settings.AcademicYearStartMonth), nil
	}
	if !academicyear.Valid(year) {
		return "", leavebalanceerrors.ErrInvalidAcademicYear
	}
	return year, nil
}

func normalizeDepartment(department string) string {
	return strings.ToUpper(strings.TrimSpace(department))
}

func mapToResponse(b LeaveBalance) BalanceResponse {
	entries := make([]EntryResponse, len(b.Entries))
	for i, e := range b.Entries {
		entries[i] = EntryResponse{
			LeaveType:      e.LeaveType,
			Allocated:      e.Allocated,
			Used:           e.Used,
			Remaining:      e.Remaining,
			CarriedForward: e.CarriedForward,
		}
	}
	return BalanceResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		AcademicYear:    b.AcademicYear,
		UserType:        b.UserType,
		Department:      b.Department,
		PolicyID:        b.PolicyID.String(),
		ExcludeWeekends: b.ExcludeWeekends,
		Entries:         entries,
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(balances []LeaveBalance) []BalanceResponse {
	resp := make([]BalanceResponse, len(balances))
	for i, b := range balances {
		resp[i] = mapToResponse(b)
	}
	return resp
}
