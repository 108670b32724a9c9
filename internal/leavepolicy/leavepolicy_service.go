package leavepolicy

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"go-campus/internal/domain"
	leavepolicyerrors "go-campus/internal/leavepolicy/errors"
	"go-campus/internal/shared/academicyear"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/shared/scope"
	"go-campus/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var leaveTypePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{0,29}$`)

// UserDirectory is the subset of the user service the resolver needs.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (user.UserResponse, error)
}

//go:generate mockgen -source=leavepolicy_service.go -destination=mock/leavepolicy_service_mock.go -package=mock
type Service interface {
	Resolve(ctx context.Context, userType, department, academicYear string) (LeavePolicy, error)
	Create(ctx context.Context, actorID string, req CreatePolicyRequest) (PolicyResponse, error)
	CreateDefault(ctx context.Context, actorID string, req CreateDefaultPolicyRequest) (PolicyResponse, error)
	List(ctx context.Context, filter ListPoliciesFilter, page, pageSize int) ([]PolicyResponse, int64, error)
	GetByID(ctx context.Context, id string) (PolicyResponse, error)
	GetForUser(ctx context.Context, userID, academicYear string) (PolicyResponse, error)
	Update(ctx context.Context, id string, req UpdatePolicyRequest) (PolicyResponse, error)
	Activate(ctx context.Context, id string) (PolicyResponse, error)
	Deactivate(ctx context.Context, id string) (PolicyResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	users      UserDirectory
	startMonth int
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(db *sql.DB, repo Repository, users UserDirectory, startMonth int, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavepolicy.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavepolicy.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		users:      users,
		startMonth: startMonth,
		now:        time.Now,
		logger:     l,
	}
}

// Resolve picks the active policy for the cohort. A policy for the exact
// department wins over the all-departments policy.
func (s *service) Resolve(ctx context.Context, userType, department, academicYear string) (LeavePolicy, error) {
	department = normalizeDepartment(department)

	candidates, err := s.repo.FindActiveCandidates(ctx, userType, department, academicYear)
	if err != nil {
		s.logger.Error("resolve leave policy failed",
			zap.String("user_type", userType),
			zap.String("department", department),
			zap.String("academic_year", academicYear),
			zap.Error(err),
		)
		return LeavePolicy{}, apperror.MapPersistence(err)
	}

	var wildcard *LeavePolicy
	for i := range candidates {
		switch candidates[i].Department {
		case department:
			return candidates[i], nil
		case scope.AllDepartments:
			wildcard = &candidates[i]
		}
	}
	if wildcard != nil {
		return *wildcard, nil
	}
	return LeavePolicy{}, leavepolicyerrors.ErrPolicyNotFound
}

func (s *service) Create(ctx context.Context, actorID string, req CreatePolicyRequest) (PolicyResponse, error) {
	s.logger.Debug("create leave policy requested",
		zap.String("actor_id", actorID),
		zap.String("user_type", req.UserType),
		zap.String("department", req.Department),
		zap.String("academic_year", req.AcademicYear),
	)

	if err := validateScope(req.UserType, req.Department, req.AcademicYear); err != nil {
		return PolicyResponse{}, err
	}
	entitlements, err := normalizeEntitlements(req.Entitlements)
	if err != nil {
		return PolicyResponse{}, err
	}
	if req.CarryForwardMaxDays < 0 {
		return PolicyResponse{}, leavepolicyerrors.ErrInvalidCarryForward
	}

	p := &LeavePolicy{
		ID:                  uuid.New(),
		UserType:            req.UserType,
		Department:          normalizeDepartment(req.Department),
		AcademicYear:        strings.TrimSpace(req.AcademicYear),
		Entitlements:        entitlements,
		CarryForwardEnabled: req.CarryForwardEnabled,
		CarryForwardMaxDays: req.CarryForwardMaxDays,
		ExcludeWeekends:     req.ExcludeWeekends,
		IsActive:            true,
		CreatedBy:           parseActor(actorID),
	}
	if err := s.insertActive(ctx, p); err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("create leave policy success",
		zap.String("policy_id", p.ID.String()),
		zap.String("user_type", p.UserType),
		zap.String("department", p.Department),
		zap.String("academic_year", p.AcademicYear),
	)
	return mapToResponse(*p), nil
}

func (s *service) CreateDefault(ctx context.Context, actorID string, req CreateDefaultPolicyRequest) (PolicyResponse, error) {
	if err := validateScope(req.UserType, req.Department, req.AcademicYear); err != nil {
		return PolicyResponse{}, err
	}

	p := &LeavePolicy{
		ID:           uuid.New(),
		UserType:     req.UserType,
		Department:   normalizeDepartment(req.Department),
		AcademicYear: strings.TrimSpace(req.AcademicYear),
		Entitlements: DefaultEntitlements(),
		IsActive:     true,
		CreatedBy:    parseActor(actorID),
	}
	if err := s.insertActive(ctx, p); err != nil {
		return PolicyResponse{}, err
	}

	s.logger.Info("create default leave policy success",
		zap.String("policy_id", p.ID.String()),
		zap.String("user_type", p.UserType),
		zap.String("department", p.Department),
		zap.String("academic_year", p.AcademicYear),
	)
	return mapToResponse(*p), nil
}

// insertActive stores p unless another active policy already covers its
// scope. The partial unique index catches the race between the check and
// the insert.
func (s *service) insertActive(ctx context.Context, p *LeavePolicy) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave policy begin tx failed", zap.Error(err))
		return apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ExistsActive(ctx, p.UserType, p.Department, p.AcademicYear, "")
	if err != nil {
		s.logger.Error("create leave policy exists check failed", zap.Error(err))
		return apperror.MapPersistence(err)
	}
	if exists {
		s.logger.Warn("create leave policy duplicate active scope",
			zap.String("user_type", p.UserType),
			zap.String("department", p.Department),
			zap.String("academic_year", p.AcademicYear),
		)
		return leavepolicyerrors.ErrPolicyAlreadyExists
	}

	if err := qtx.Create(ctx, p); err != nil {
		if apperror.IsUniqueViolation(err, ActiveScopeIndex) {
			return leavepolicyerrors.ErrPolicyAlreadyExists
		}
		s.logger.Error("create leave policy persist failed", zap.Error(err))
		return apperror.MapPersistence(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave policy commit failed", zap.Error(err))
		return apperror.MapPersistence(err)
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListPoliciesFilter, page, pageSize int) ([]PolicyResponse, int64, error) {
	if filter.AcademicYear != "" && !academicyear.Valid(filter.AcademicYear) {
		return nil, 0, leavepolicyerrors.ErrInvalidAcademicYear
	}
	if filter.Department != "" {
		filter.Department = normalizeDepartment(filter.Department)
	}

	policies, total, err := s.repo.FindAll(ctx, filter, page, pageSize)
	if err != nil {
		s.logger.Error("list leave policies failed", zap.Error(err))
		return nil, 0, apperror.MapPersistence(err)
	}
	return mapToListResponse(policies), total, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PolicyResponse, error) {
	p, err := s.findByID(ctx, s.repo, id, false)
	if err != nil {
		return PolicyResponse{}, err
	}
	return mapToResponse(*p), nil
}

// GetForUser resolves the policy for a user from the directory. An empty
// academic year means the current one.
func (s *service) GetForUser(ctx context.Context, userID, academicYear string) (PolicyResponse, error) {
	if academicYear == "" {
		academicYear = academicyear.For(s.now(), s.startMonth)
	}
	if !academicyear.Valid(academicYear) {
		return PolicyResponse{}, leavepolicyerrors.ErrInvalidAcademicYear
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return PolicyResponse{}, err
	}

	p, err := s.Resolve(ctx, u.UserType, u.Department, academicYear)
	if err != nil {
		return PolicyResponse{}, err
	}
	return mapToResponse(p), nil
}

// Update replaces entitlements and rules. Balances already initialised from
// the policy keep their snapshot.
func (s *service) Update(ctx context.Context, id string, req UpdatePolicyRequest) (PolicyResponse, error) {
	entitlements, err := normalizeEntitlements(req.Entitlements)
	if err != nil {
		return PolicyResponse{}, err
	}
	if req.CarryForwardMaxDays < 0 {
		return PolicyResponse{}, leavepolicyerrors.ErrInvalidCarryForward
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PolicyResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := s.findByID(ctx, qtx, id, true)
	if err != nil {
		return PolicyResponse{}, err
	}

	p.Entitlements = entitlements
	p.CarryForwardEnabled = req.CarryForwardEnabled
	p.CarryForwardMaxDays = req.CarryForwardMaxDays
	p.ExcludeWeekends = req.ExcludeWeekends

	if err := qtx.Update(ctx, p); err != nil {
		s.logger.Error("update leave policy persist failed", zap.String("policy_id", id), zap.Error(err))
		return PolicyResponse{}, apperror.MapPersistence(err)
	}
	if err := tx.Commit(); err != nil {
		return PolicyResponse{}, apperror.MapPersistence(err)
	}

	s.logger.Info("update leave policy success", zap.String("policy_id", id))
	return mapToResponse(*p), nil
}

func (s *service) Activate(ctx context.Context, id string) (PolicyResponse, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) Deactivate(ctx context.Context, id string) (PolicyResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) setActive(ctx context.Context, id string, active bool) (PolicyResponse, error) {
	s.logger.Debug("set leave policy active requested", zap.String("policy_id", id), zap.Bool("active", active))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PolicyResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := s.findByID(ctx, qtx, id, true)
	if err != nil {
		return PolicyResponse{}, err
	}
	if p.IsActive == active {
		return mapToResponse(*p), nil
	}

	if active {
		exists, err := qtx.ExistsActive(ctx, p.UserType, p.Department, p.AcademicYear, id)
		if err != nil {
			return PolicyResponse{}, apperror.MapPersistence(err)
		}
		if exists {
			return PolicyResponse{}, leavepolicyerrors.ErrPolicyAlreadyExists
		}
	}

	p.IsActive = active
	if err := qtx.Update(ctx, p); err != nil {
		if apperror.IsUniqueViolation(err, ActiveScopeIndex) {
			return PolicyResponse{}, leavepolicyerrors.ErrPolicyAlreadyExists
		}
		s.logger.Error("set leave policy active persist failed", zap.String("policy_id", id), zap.Error(err))
		return PolicyResponse{}, apperror.MapPersistence(err)
	}
	if err := tx.Commit(); err != nil {
		return PolicyResponse{}, apperror.MapPersistence(err)
	}

	s.logger.Info("set leave policy active success", zap.String("policy_id", id), zap.Bool("active", active))
	return mapToResponse(*p), nil
}

func (s *service) findByID(ctx context.Context, repo Repository, id string, forUpdate bool) (*LeavePolicy, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leavepolicyerrors.ErrInvalidPolicyID
	}

	var (
		p   *LeavePolicy
		err error
	)
	if forUpdate {
		p, err = repo.FindByIDForUpdate(ctx, id)
	} else {
		p, err = repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavepolicyerrors.ErrPolicyNotFound
		}
		return nil, apperror.MapPersistence(err)
	}
	return p, nil
}

func validateScope(userType, department, year string) error {
	if !domain.ValidUserType(userType) {
		return leavepolicyerrors.ErrInvalidUserType
	}
	if strings.TrimSpace(department) == "" {
		return leavepolicyerrors.ErrInvalidDepartment
	}
	if !academicyear.Valid(year) {
		return leavepolicyerrors.ErrInvalidAcademicYear
	}
	return nil
}

// normalizeEntitlements upper-cases leave types and keeps caller order.
func normalizeEntitlements(in []EntitlementRequest) ([]Entitlement, error) {
	if len(in) == 0 {
		return nil, leavepolicyerrors.ErrNoEntitlements
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]Entitlement, 0, len(in))
	for _, e := range in {
		leaveType := NormalizeLeaveType(e.LeaveType)
		if !leaveTypePattern.MatchString(leaveType) {
			return nil, leavepolicyerrors.ErrInvalidLeaveType
		}
		if _, dup := seen[leaveType]; dup {
			return nil, leavepolicyerrors.ErrDuplicateLeaveType
		}
		if e.Days < 0 {
			return nil, leavepolicyerrors.ErrInvalidEntitlementDays
		}
		seen[leaveType] = struct{}{}
		out = append(out, Entitlement{LeaveType: leaveType, Days: e.Days})
	}
	return out, nil
}

// NormalizeLeaveType maps user input such as "casual" to "CASUAL".
func NormalizeLeaveType(leaveType string) string {
	return strings.ToUpper(strings.TrimSpace(leaveType))
}

func normalizeDepartment(department string) string {
	return strings.ToUpper(strings.TrimSpace(department))
}

func parseActor(actorID string) *uuid.UUID {
	id, err := uuid.Parse(actorID)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(p LeavePolicy) PolicyResponse {
	ents := make([]EntitlementResponse, len(p.Entitlements))
	for i, e := range p.Entitlements {
		ents[i] = EntitlementResponse{LeaveType: e.LeaveType, Days: e.Days}
	}

	resp := PolicyResponse{
		ID:                  p.ID.String(),
		UserType:            p.UserType,
		Department:          p.Department,
		AcademicYear:        p.AcademicYear,
		Entitlements:        ents,
		CarryForwardEnabled: p.CarryForwardEnabled,
		CarryForwardMaxDays: p.CarryForwardMaxDays,
		ExcludeWeekends:     p.ExcludeWeekends,
		IsActive:            p.IsActive,
		CreatedAt:           p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           p.UpdatedAt.Format(time.RFC3339),
	}
	if p.CreatedBy != nil {
		v := p.CreatedBy.String()
		resp.CreatedBy = &v
	}
	return resp
}

func mapToListResponse(policies []LeavePolicy) []PolicyResponse {
	resp := make([]PolicyResponse, len(policies))
	for i, p := range policies {
		resp[i] = mapToResponse(p)
	}
	return resp
}
