package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-campus/internal/domain"
	"go-campus/internal/events"
	leaveerrors "go-campus/internal/leave/errors"
	"go-campus/internal/leavebalance"
	leavebalanceerrors "go-campus/internal/leavebalance/errors"
	"go-campus/internal/leavepolicy"
	"go-campus/internal/messaging/kafka"
	"go-campus/internal/rbac"
	"go-campus/internal/shared/academicyear"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/shared/contextutil"
	"go-campus/internal/shared/counter"
	"go-campus/internal/shared/scope"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	StatisticsKeyPrefix = "leave:stats:"
	StatisticsTTL       = 60 * time.Second

	referenceCounter = "leave_application"
	aggregateType    = "leave_application"
	dateLayout       = "2006-01-02"
)

// StatisticsKey is the cache key of one statistics scope.
func StatisticsKey(department, academicYear string) string {
	if department == "" {
		department = scope.AllDepartments
	}
	if academicYear == "" {
		academicYear = "ALL"
	}
	return StatisticsKeyPrefix + department + ":" + academicYear
}

// Ledger is the part of the balance service the workflow drives.
type Ledger interface {
	GetBalance(ctx context.Context, userID, academicYear string) (leavebalance.BalanceResponse, error)
	Debit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error
	Credit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, actor domain.Actor, req ApplyRequest) (ApplicationResponse, error)
	Approve(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (ApplicationResponse, error)
	Reject(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (ApplicationResponse, error)
	Cancel(ctx context.Context, actor domain.Actor, id string) (ApplicationResponse, error)
	GetByID(ctx context.Context, actor domain.Actor, id string) (ApplicationResponse, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]ApplicationResponse, int64, error)
	ListAll(ctx context.Context, filter ListFilter, page, pageSize int) ([]ApplicationResponse, int64, error)
	ListPending(ctx context.Context, department string, page, pageSize int) ([]ApplicationResponse, int64, error)
	ListByDepartment(ctx context.Context, department, status string, page, pageSize int) ([]ApplicationResponse, int64, error)
	Statistics(ctx context.Context, filter StatisticsFilter) (StatisticsResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	counters   counter.Repository
	ledger     Ledger
	gate       Gate
	outbox     kafka.OutboxRepository
	rdb        *redis.Client
	sf         *singleflight.Group
	startMonth int
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counters counter.Repository,
	ledger Ledger,
	gate Gate,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	startMonth int,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		counters:   counters,
		ledger:     ledger,
		gate:       gate,
		outbox:     outbox,
		rdb:        rdb,
		sf:         &singleflight.Group{},
		startMonth: startMonth,
		now:        time.Now,
		logger:     l,
	}
}

// Apply submits a pending application. The balance check is advisory;
// nothing is held until approval.
func (s *service) Apply(ctx context.Context, actor domain.Actor, req ApplyRequest) (ApplicationResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	l.Debug("apply leave requested",
		zap.String("user_id", actor.UserID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}
	leaveType := leavepolicy.NormalizeLeaveType(req.LeaveType)
	if leaveType == "" {
		return ApplicationResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return ApplicationResponse{}, err
	}
	year := academicyear.For(startDate, s.startMonth)
	if _, yearEnd, err := academicyear.Bounds(year, s.startMonth); err != nil || endDate.After(yearEnd) {
		return ApplicationResponse{}, leaveerrors.ErrRangeSpansAcademicYears
	}

	balance, err := s.ledger.GetBalance(ctx, actor.UserID, year)
	if err != nil {
		return ApplicationResponse{}, err
	}
	remaining, ok := balance.Remaining(leaveType)
	if !ok {
		return ApplicationResponse{}, leaveerrors.ErrLeaveTypeNotEntitled
	}

	dayCount := CountDays(startDate, endDate, balance.ExcludeWeekends)
	if dayCount <= 0 {
		return ApplicationResponse{}, leaveerrors.ErrNoCountableDays
	}
	if remaining < dayCount {
		l.Warn("apply leave insufficient balance",
			zap.String("user_id", actor.UserID),
			zap.String("leave_type", leaveType),
			zap.Int("remaining", remaining),
			zap.Int("day_count", dayCount),
		)
		return ApplicationResponse{}, leavebalanceerrors.Insufficient(leaveType, remaining, dayCount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("apply leave begin tx failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, actor.UserID, startDate, endDate)
	if err != nil {
		l.Error("apply leave overlap check failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	if overlap {
		l.Warn("apply leave overlap detected",
			zap.String("user_id", actor.UserID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return ApplicationResponse{}, leaveerrors.ErrLeaveOverlap
	}

	referenceNo, err := s.nextReference(ctx, tx, year)
	if err != nil {
		l.Error("apply leave reference number failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}

	a := &LeaveApplication{
		ID:           uuid.New(),
		ReferenceNo:  referenceNo,
		UserID:       userUUID,
		Department:   balance.Department,
		UserType:     balance.UserType,
		AcademicYear: year,
		LeaveType:    leaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		DayCount:     dayCount,
		Reason:       strings.TrimSpace(req.Reason),
		Status:       StatusPending,
		SubmittedAt:  s.now().UTC(),
	}
	if err := qtx.Create(ctx, a); err != nil {
		l.Error("apply leave persist failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}

	if err := s.publish(ctx, tx, a, events.LeaveApplicationSubmitted, actor.UserID, ""); err != nil {
		l.Error("apply leave outbox failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}

	if err := tx.Commit(); err != nil {
		l.Error("apply leave commit failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	s.invalidateStatistics(ctx, a)

	l.Info("apply leave success",
		zap.String("application_id", a.ID.String()),
		zap.String("reference_no", a.ReferenceNo),
		zap.Int("day_count", a.DayCount),
	)
	return mapToResponse(*a), nil
}

func (s *service) nextReference(ctx context.Context, tx *sql.Tx, year string) (string, error) {
	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, year, referenceCounter)
	if err != nil {
		return "", err
	}
	first, err := academicyear.Parse(year)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("LV-%d-%05d", first, seq), nil
}

// Approve debits the ledger in the same transaction that marks the
// application approved, so a balance that moved since submission fails the
// approval as a whole.
func (s *service) Approve(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (ApplicationResponse, error) {
	return s.decide(ctx, actor, id, StatusApproved, req.Comments)
}

func (s *service) Reject(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (ApplicationResponse, error) {
	return s.decide(ctx, actor, id, StatusRejected, req.Comments)
}

func (s *service) decide(ctx context.Context, actor domain.Actor, id string, target Status, comments string) (ApplicationResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)
	l.Debug("decide leave requested",
		zap.String("application_id", id),
		zap.String("actor_id", actor.UserID),
		zap.String("target_status", target.String()),
	)

	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("decide leave begin tx failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	a, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return ApplicationResponse{}, err
	}
	if !a.Status.CanTransitionTo(target) {
		l.Warn("decide leave invalid transition",
			zap.String("application_id", id),
			zap.String("from_status", a.Status.String()),
			zap.String("to_status", target.String()),
		)
		return ApplicationResponse{}, leaveerrors.InvalidTransition(a.Status.String(), target.String())
	}
	if err := s.requireGate(actor, a.Department, rbac.ActionApprove); err != nil {
		return ApplicationResponse{}, err
	}

	if target == StatusApproved {
		err := s.ledger.Debit(ctx, tx, a.UserID.String(), a.AcademicYear, a.LeaveType, a.DayCount)
		if err != nil {
			l.Warn("approve leave debit failed", zap.String("application_id", id), zap.Error(err))
			return ApplicationResponse{}, err
		}
	}

	now := s.now().UTC()
	a.Status = target
	a.ApproverID = &actorUUID
	a.DecidedAt = &now
	if c := strings.TrimSpace(comments); c != "" {
		a.ApproverComments = &c
	}

	if err := qtx.Update(ctx, a); err != nil {
		l.Error("decide leave persist failed", zap.String("application_id", id), zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}

	eventType := events.LeaveApplicationApproved
	if target == StatusRejected {
		eventType = events.LeaveApplicationRejected
	}
	if err := s.publish(ctx, tx, a, eventType, actor.UserID, comments); err != nil {
		l.Error("decide leave outbox failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}

	if err := tx.Commit(); err != nil {
		l.Error("decide leave commit failed", zap.String("application_id", id), zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	s.invalidateStatistics(ctx, a)

	l.Info("decide leave success",
		zap.String("application_id", id),
		zap.String("status", a.Status.String()),
	)
	return mapToResponse(*a), nil
}

// Cancel withdraws an application. A pending one can only be withdrawn by
// its applicant; an approved one also by a reviewer allowed to cancel
// approved leave, and its days go back to the ledger.
func (s *service) Cancel(ctx context.Context, actor domain.Actor, id string) (ApplicationResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	actorUUID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		l.Error("cancel leave begin tx failed", zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	a, err := s.findForUpdate(ctx, qtx, id)
	if err != nil {
		return ApplicationResponse{}, err
	}

	isApplicant := a.UserID == actorUUID
	switch a.Status {
	case StatusPending:
		if !isApplicant {
			return ApplicationResponse{}, leaveerrors.ErrNotApplicant
		}
	case StatusApproved:
		if !isApplicant {
			if err := s.requireGate(actor, a.Department, rbac.ActionCancelApproved); err != nil {
				return ApplicationResponse{}, err
			}
		}
		err := s.ledger.Credit(ctx, tx, a.UserID.String(), a.AcademicYear, a.LeaveType, a.DayCount)
		if err != nil {
			l.Error("cancel leave credit failed", zap.String("application_id", id), zap.Error(err))
			return ApplicationResponse{}, err
		}
	default:
		return ApplicationResponse{}, leaveerrors.InvalidTransition(a.Status.String(), StatusCancelled.String())
	}

	now := s.now().UTC()
	a.Status = StatusCancelled
	a.CancelledBy = &actorUUID
	a.CancelledAt = &now

	if err := qtx.Update(ctx, a); err != nil {
		l.Error("cancel leave persist failed", zap.String("application_id", id), zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	if err := s.publish(ctx, tx, a, events.LeaveApplicationCancelled, actor.UserID, ""); err != nil {
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	if err := tx.Commit(); err != nil {
		l.Error("cancel leave commit failed", zap.String("application_id", id), zap.Error(err))
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}
	s.invalidateStatistics(ctx, a)

	l.Info("cancel leave success",
		zap.String("application_id", id),
		zap.String("actor_id", actor.UserID),
	)
	return mapToResponse(*a), nil
}

// GetByID returns the application to its applicant or to a reviewer of its
// department.
func (s *service) GetByID(ctx context.Context, actor domain.Actor, id string) (ApplicationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ApplicationResponse{}, leaveerrors.ErrInvalidApplicationID
	}

	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApplicationResponse{}, leaveerrors.ErrApplicationNotFound
		}
		return ApplicationResponse{}, apperror.MapPersistence(err)
	}

	if a.UserID.String() != actor.UserID {
		if err := s.requireGate(actor, a.Department, rbac.ActionReadAll); err != nil {
			return ApplicationResponse{}, err
		}
	}
	return mapToResponse(*a), nil
}

func (s *service) ListMine(ctx context.Context, userID string, page, pageSize int) ([]ApplicationResponse, int64, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, 0, leaveerrors.ErrInvalidActorID
	}
	return s.list(ctx, ListFilter{UserID: userID}, page, pageSize)
}

func (s *service) ListAll(ctx context.Context, filter ListFilter, page, pageSize int) ([]ApplicationResponse, int64, error) {
	return s.list(ctx, filter, page, pageSize)
}

// ListPending lists the applications awaiting a decision. An empty
// department or ALL covers every department.
func (s *service) ListPending(ctx context.Context, department string, page, pageSize int) ([]ApplicationResponse, int64, error) {
	return s.list(ctx, ListFilter{Department: department, Status: StatusPending.String()}, page, pageSize)
}

func (s *service) ListByDepartment(ctx context.Context, department, status string, page, pageSize int) ([]ApplicationResponse, int64, error) {
	if strings.TrimSpace(department) == "" {
		return nil, 0, apperror.RequiredField("Department")
	}
	return s.list(ctx, ListFilter{Department: department, Status: status}, page, pageSize)
}

func (s *service) list(ctx context.Context, filter ListFilter, page, pageSize int) ([]ApplicationResponse, int64, error) {
	if filter.Status != "" {
		st, err := ParseStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = st.String()
	}
	if filter.AcademicYear != "" && !academicyear.Valid(filter.AcademicYear) {
		return nil, 0, apperror.InvalidField("Academic Year")
	}
	filter.Department = strings.ToUpper(strings.TrimSpace(filter.Department))

	apps, total, err := s.repo.FindAll(ctx, filter, page, pageSize)
	if err != nil {
		s.logger.Error("list leave applications failed", zap.Error(err))
		return nil, 0, apperror.MapPersistence(err)
	}
	return mapToListResponse(apps), total, nil
}

// Statistics is cached per scope for StatisticsTTL and recomputed once per
// key when several callers miss at the same time.
func (s *service) Statistics(ctx context.Context, filter StatisticsFilter) (StatisticsResponse, error) {
	filter.Department = strings.ToUpper(strings.TrimSpace(filter.Department))
	if filter.Department == scope.AllDepartments {
		filter.Department = ""
	}
	if filter.AcademicYear != "" && !academicyear.Valid(filter.AcademicYear) {
		return StatisticsResponse{}, apperror.InvalidField("Academic Year")
	}
	cacheKey := StatisticsKey(filter.Department, filter.AcademicYear)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp StatisticsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		// Shared by every caller waiting on cacheKey.
		ctx := context.WithoutCancel(ctx)
		resp, err := s.computeStatistics(ctx, filter)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, StatisticsTTL).Err(); err != nil {
					s.logger.Warn("cache leave statistics failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return StatisticsResponse{}, err
	}
	return v.(StatisticsResponse), nil
}

func (s *service) computeStatistics(ctx context.Context, filter StatisticsFilter) (StatisticsResponse, error) {
	byStatus, err := s.repo.CountByStatus(ctx, filter)
	if err != nil {
		s.logger.Error("leave statistics by status failed", zap.Error(err))
		return StatisticsResponse{}, apperror.MapPersistence(err)
	}
	byType, err := s.repo.CountByLeaveType(ctx, filter)
	if err != nil {
		s.logger.Error("leave statistics by leave type failed", zap.Error(err))
		return StatisticsResponse{}, apperror.MapPersistence(err)
	}
	latency, err := s.repo.ApprovalLatency(ctx, filter)
	if err != nil {
		s.logger.Error("leave statistics latency failed", zap.Error(err))
		return StatisticsResponse{}, apperror.MapPersistence(err)
	}

	resp := StatisticsResponse{
		Department:   filter.Department,
		AcademicYear: filter.AcademicYear,
		ByStatus: map[string]int64{
			StatusPending.String():   0,
			StatusApproved.String():  0,
			StatusRejected.String():  0,
			StatusCancelled.String(): 0,
		},
		ByLeaveType:          make(map[string]int64, len(byType)),
		AverageApprovalHours: decimal.Zero,
	}
	if resp.Department == "" {
		resp.Department = scope.AllDepartments
	}
	for _, row := range byStatus {
		resp.ByStatus[row.Status.String()] = row.Total
		resp.Total += row.Total
	}
	for _, row := range byType {
		resp.ByLeaveType[row.LeaveType] = row.Total
	}
	if latency.Count > 0 {
		resp.AverageApprovalHours = decimal.NewFromInt(latency.Seconds).
			Div(decimal.NewFromInt(latency.Count)).
			Div(decimal.NewFromInt(3600)).
			Round(2)
	}
	return resp, nil
}

// invalidateStatistics drops every cached scope the application counts in.
func (s *service) invalidateStatistics(ctx context.Context, a *LeaveApplication) {
	if s.rdb == nil {
		return
	}
	keys := []string{
		StatisticsKey(a.Department, a.AcademicYear),
		StatisticsKey(a.Department, ""),
		StatisticsKey("", a.AcademicYear),
		StatisticsKey("", ""),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("invalidate leave statistics failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (s *service) requireGate(actor domain.Actor, department, action string) error {
	allowed, err := s.gate.Allowed(actor, department, action)
	if err != nil {
		s.logger.Error("leave gate check failed", zap.String("action", action), zap.Error(err))
		return apperror.ErrInternal
	}
	if !allowed {
		s.logger.Warn("leave gate denied",
			zap.String("actor_id", actor.UserID),
			zap.String("role", actor.Role),
			zap.String("department", department),
			zap.String("action", action),
		)
		return leaveerrors.ErrNotReviewer
	}
	return nil
}

func (s *service) findForUpdate(ctx context.Context, repo Repository, id string) (*LeaveApplication, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidApplicationID
	}
	a, err := repo.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrApplicationNotFound
		}
		return nil, apperror.MapPersistence(err)
	}
	return a, nil
}

func (s *service) publish(ctx context.Context, tx *sql.Tx, a *LeaveApplication, eventType, actorID, comments string) error {
	md := contextutil.ExtractMetadata(ctx)
	payload := events.LeaveApplicationEvent{
		EventType:     eventType,
		RequestID:     md.RequestID,
		ApplicationID: a.ID.String(),
		ReferenceNo:   a.ReferenceNo,
		UserID:        a.UserID.String(),
		Department:    a.Department,
		LeaveType:     a.LeaveType,
		StartDate:     a.StartDate.Format(dateLayout),
		EndDate:       a.EndDate.Format(dateLayout),
		DayCount:      a.DayCount,
		Status:        a.Status.String(),
		ActorID:       actorID,
		Comments:      comments,
		OccurredAt:    s.now().UTC(),
	}
	event, err := kafka.NewEvent(md.RequestID, aggregateType, a.ID.String(), eventType, events.LeaveApplicationTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func formatUUID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func mapToResponse(a LeaveApplication) ApplicationResponse {
	return ApplicationResponse{
		ID:               a.ID.String(),
		ReferenceNo:      a.ReferenceNo,
		UserID:           a.UserID.String(),
		Department:       a.Department,
		UserType:         a.UserType,
		AcademicYear:     a.AcademicYear,
		LeaveType:        a.LeaveType,
		StartDate:        a.StartDate.Format(dateLayout),
		EndDate:          a.EndDate.Format(dateLayout),
		DayCount:         a.DayCount,
		Reason:           a.Reason,
		Status:           a.Status.String(),
		ApproverID:       formatUUID(a.ApproverID),
		ApproverComments: a.ApproverComments,
		CancelledBy:      formatUUID(a.CancelledBy),
		SubmittedAt:      a.SubmittedAt.Format(time.RFC3339),
		DecidedAt:        formatTime(a.DecidedAt),
		CancelledAt:      formatTime(a.CancelledAt),
	}
}

func mapToListResponse(apps []LeaveApplication) []ApplicationResponse {
	resp := make([]ApplicationResponse, len(apps))
	for i, a := range apps {
		resp[i] = mapToResponse(a)
	}
	return resp
}
