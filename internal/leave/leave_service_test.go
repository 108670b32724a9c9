package leave_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"go-campus/internal/domain"
	"go-campus/internal/events"
	"go-campus/internal/leave"
	leaveerrors "go-campus/internal/leave/errors"
	"go-campus/internal/leavebalance"
	leavebalanceerrors "go-campus/internal/leavebalance/errors"
	"go-campus/internal/messaging/kafka"
	outboxMock "go-campus/internal/messaging/kafka/mock"
	"go-campus/internal/shared/apperror"
	counterMock "go-campus/internal/shared/counter/mock"
	"go-campus/internal/shared/scope"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

const (
	startMonth = 8
	year       = "2026-2027"
)

// memRepo keeps applications in memory and answers the overlap query the
// way the SQL repository does.
type memRepo struct {
	mu   sync.Mutex
	apps map[string]*leave.LeaveApplication

	statusCounts []leave.StatusCount
	typeCounts   []leave.LeaveTypeCount
	latency      leave.ApprovalLatency
	statsCalls   int
}

func newMemRepo() *memRepo {
	return &memRepo{apps: map[string]*leave.LeaveApplication{}}
}

func (r *memRepo) WithTx(tx *sql.Tx) leave.Repository { return r }

func (r *memRepo) Create(ctx context.Context, a *leave.LeaveApplication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.apps[a.ID.String()] = &cp
	return nil
}

func (r *memRepo) FindByID(ctx context.Context, id string) (*leave.LeaveApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return &leave.LeaveApplication{}, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) FindByIDForUpdate(ctx context.Context, id string) (*leave.LeaveApplication, error) {
	return r.FindByID(ctx, id)
}

func (r *memRepo) Update(ctx context.Context, a *leave.LeaveApplication) error {
	return r.Create(ctx, a)
}

func (r *memRepo) HasOverlappingPeriod(ctx context.Context, userID string, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID.String() != userID {
			continue
		}
		if a.Status != leave.StatusPending && a.Status != leave.StatusApproved {
			continue
		}
		if !(a.EndDate.Before(start) || a.StartDate.After(end)) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) FindAll(ctx context.Context, filter leave.ListFilter, page, pageSize int) ([]leave.LeaveApplication, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveApplication
	for _, a := range r.apps {
		if filter.UserID != "" && a.UserID.String() != filter.UserID {
			continue
		}
		if filter.Status != "" && a.Status.String() != filter.Status {
			continue
		}
		if filter.Department != "" && filter.Department != scope.AllDepartments && a.Department != filter.Department {
			continue
		}
		if filter.AcademicYear != "" && a.AcademicYear != filter.AcademicYear {
			continue
		}
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) CountByStatus(ctx context.Context, filter leave.StatisticsFilter) ([]leave.StatusCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statsCalls++
	return r.statusCounts, nil
}

func (r *memRepo) CountByLeaveType(ctx context.Context, filter leave.StatisticsFilter) ([]leave.LeaveTypeCount, error) {
	return r.typeCounts, nil
}

func (r *memRepo) ApprovalLatency(ctx context.Context, filter leave.StatisticsFilter) (leave.ApprovalLatency, error) {
	return r.latency, nil
}

type ledgerEntry struct {
	allocated, used, remaining int
}

// fakeLedger applies debits atomically under a mutex, like the conditional
// UPDATE of the balance repository.
type fakeLedger struct {
	mu         sync.Mutex
	department string
	userType   string
	weekends   bool
	entries    map[string]*ledgerEntry
}

func newFakeLedger(remaining map[string]int) *fakeLedger {
	l := &fakeLedger{department: "CSE", userType: domain.UserTypeTeacher, weekends: true, entries: map[string]*ledgerEntry{}}
	for lt, n := range remaining {
		l.entries[lt] = &ledgerEntry{allocated: n, remaining: n}
	}
	return l
}

func (l *fakeLedger) remaining(leaveType string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[leaveType].remaining
}

func (l *fakeLedger) GetBalance(ctx context.Context, userID, academicYear string) (leavebalance.BalanceResponse, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if academicYear != year {
		return leavebalance.BalanceResponse{}, leavebalanceerrors.ErrBalanceNotFound
	}
	resp := leavebalance.BalanceResponse{
		UserID:          userID,
		AcademicYear:    academicYear,
		UserType:        l.userType,
		Department:      l.department,
		ExcludeWeekends: l.weekends,
	}
	for lt, e := range l.entries {
		resp.Entries = append(resp.Entries, leavebalance.EntryResponse{
			LeaveType: lt, Allocated: e.allocated, Used: e.used, Remaining: e.remaining,
		})
	}
	return resp, nil
}

func (l *fakeLedger) Debit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[leaveType]
	if !ok {
		return leavebalanceerrors.ErrLeaveTypeNotFound
	}
	if e.remaining < days {
		return leavebalanceerrors.Insufficient(leaveType, e.remaining, days)
	}
	e.used += days
	e.remaining -= days
	return nil
}

func (l *fakeLedger) Credit(ctx context.Context, tx *sql.Tx, userID, academicYear, leaveType string, days int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[leaveType]
	if !ok {
		return leavebalanceerrors.ErrLeaveTypeNotFound
	}
	e.used = max(e.used-days, 0)
	e.remaining = e.allocated - e.used
	return nil
}

// fakeGate lets super admins act everywhere and HODs in their department.
type fakeGate struct{}

func (fakeGate) Allowed(actor domain.Actor, department, action string) (bool, error) {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return true, nil
	case domain.RoleHOD:
		return actor.Department == department, nil
	default:
		return false, nil
	}
}

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *memRepo
	ledger  *fakeLedger
	mu      sync.Mutex
	events  []kafka.OutboxEvent
	service leave.Service
}

func (d *serviceDeps) eventTypes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.events))
	for i, e := range d.events {
		out[i] = e.EventType
	}
	return out
}

func setupServiceTest(t *testing.T, ledger *fakeLedger, rdb *redis.Client) *serviceDeps {
	ctrl := gomock.NewController(t)
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &serviceDeps{sqlMock: sqlMock, repo: newMemRepo(), ledger: ledger}

	counters := counterMock.NewMockRepository(ctrl)
	counters.EXPECT().WithTx(gomock.Any()).Return(counters).AnyTimes()
	var seq int64
	counters.EXPECT().
		GetNextValue(gomock.Any(), year, "leave_application").
		DoAndReturn(func(ctx context.Context, scope, counterType string) (int64, error) {
			seq++
			return seq, nil
		}).AnyTimes()

	outbox := outboxMock.NewMockOutboxRepository(ctrl)
	outbox.EXPECT().WithTx(gomock.Any()).Return(outbox).AnyTimes()
	outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
		deps.mu.Lock()
		defer deps.mu.Unlock()
		deps.events = append(deps.events, ev)
		return nil
	}).AnyTimes()

	deps.service = leave.NewService(db, deps.repo, counters, ledger, fakeGate{}, outbox, rdb, startMonth)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

var (
	applicant = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleTeacher, UserType: domain.UserTypeTeacher, Department: "CSE"}
	hod       = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleHOD, UserType: domain.UserTypeTeacher, Department: "CSE"}
	otherHOD  = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleHOD, UserType: domain.UserTypeTeacher, Department: "ECE"}
	admin     = domain.Actor{UserID: uuid.NewString(), Role: domain.RoleSuperAdmin, UserType: domain.UserTypeStaff, Department: "ADMIN"}
)

func apply(t *testing.T, deps *serviceDeps, start, end string) leave.ApplicationResponse {
	t.Helper()
	expectTx(t, deps.sqlMock, true)
	res, err := deps.service.Apply(context.Background(), applicant, leave.ApplyRequest{
		LeaveType: "annual", StartDate: start, EndDate: end, Reason: "family visit",
	})
	assert.NoError(t, err)
	return res
}

func TestLeaveService_ApproveThenCancelRestoresBalance(t *testing.T) {
	deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
	ctx := context.Background()

	// Monday to Wednesday.
	app := apply(t, deps, "2026-11-02", "2026-11-04")
	assert.Equal(t, "PENDING", app.Status)
	assert.Equal(t, 3, app.DayCount)
	assert.Equal(t, "LV-2026-00001", app.ReferenceNo)
	assert.Equal(t, year, app.AcademicYear)
	assert.Equal(t, "CSE", app.Department)
	assert.Equal(t, 12, deps.ledger.remaining("ANNUAL"), "submission must not hold days")

	expectTx(t, deps.sqlMock, true)
	approved, err := deps.service.Approve(ctx, hod, app.ID, leave.DecisionRequest{Comments: "enjoy"})
	assert.NoError(t, err)
	assert.Equal(t, "APPROVED", approved.Status)
	assert.Equal(t, hod.UserID, *approved.ApproverID)
	assert.Equal(t, "enjoy", *approved.ApproverComments)
	assert.NotNil(t, approved.DecidedAt)
	assert.Equal(t, 9, deps.ledger.remaining("ANNUAL"))

	expectTx(t, deps.sqlMock, true)
	cancelled, err := deps.service.Cancel(ctx, applicant, app.ID)
	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, applicant.UserID, *cancelled.CancelledBy)
	assert.Equal(t, 12, deps.ledger.remaining("ANNUAL"))

	assert.Equal(t, []string{
		events.LeaveApplicationSubmitted,
		events.LeaveApplicationApproved,
		events.LeaveApplicationCancelled,
	}, deps.eventTypes())
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestLeaveService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient balance carries details", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 2}), nil)

		_, err := deps.service.Apply(ctx, applicant, leave.ApplyRequest{
			LeaveType: "ANNUAL", StartDate: "2026-11-02", EndDate: "2026-11-06",
		})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, leavebalanceerrors.InsufficientDetails{
			LeaveType: "ANNUAL", Available: 2, Requested: 5, Shortfall: 3,
		}, appErr.Details)
		assert.Empty(t, deps.eventTypes())
	})

	t.Run("weekends are not counted when the policy excludes them", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)

		// Friday to Monday.
		app := apply(t, deps, "2026-11-06", "2026-11-09")
		assert.Equal(t, 2, app.DayCount)
	})

	t.Run("weekends count when the policy includes them", func(t *testing.T) {
		ledger := newFakeLedger(map[string]int{"ANNUAL": 12})
		ledger.weekends = false
		deps := setupServiceTest(t, ledger, nil)

		app := apply(t, deps, "2026-11-06", "2026-11-09")
		assert.Equal(t, 4, app.DayCount)
	})

	t.Run("a weekend only range has no countable days", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)

		_, err := deps.service.Apply(ctx, applicant, leave.ApplyRequest{
			LeaveType: "ANNUAL", StartDate: "2026-11-07", EndDate: "2026-11-08",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrNoCountableDays)
	})

	t.Run("overlap with a pending application conflicts", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Apply(ctx, applicant, leave.ApplyRequest{
			LeaveType: "ANNUAL", StartDate: "2026-11-04", EndDate: "2026-11-05",
		})
		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.True(t, apperror.Is(err, apperror.CodeConflict))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("a rejected application frees its dates", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		app := apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Reject(ctx, hod, app.ID, leave.DecisionRequest{})
		assert.NoError(t, err)

		again := apply(t, deps, "2026-11-02", "2026-11-04")
		assert.Equal(t, "LV-2026-00002", again.ReferenceNo)
	})

	t.Run("invalid input", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)

		cases := []struct {
			name  string
			actor domain.Actor
			req   leave.ApplyRequest
			want  error
		}{
			{"bad actor", domain.Actor{UserID: "nope"}, leave.ApplyRequest{LeaveType: "ANNUAL", StartDate: "2026-11-02", EndDate: "2026-11-02"}, leaveerrors.ErrInvalidActorID},
			{"bad date", applicant, leave.ApplyRequest{LeaveType: "ANNUAL", StartDate: "02/11/2026", EndDate: "2026-11-02"}, leaveerrors.ErrInvalidDateFormat},
			{"reversed range", applicant, leave.ApplyRequest{LeaveType: "ANNUAL", StartDate: "2026-11-05", EndDate: "2026-11-02"}, leaveerrors.ErrInvalidDateRange},
			{"spans academic years", applicant, leave.ApplyRequest{LeaveType: "ANNUAL", StartDate: "2027-07-30", EndDate: "2027-08-02"}, leaveerrors.ErrRangeSpansAcademicYears},
			{"not entitled", applicant, leave.ApplyRequest{LeaveType: "SABBATICAL", StartDate: "2026-11-02", EndDate: "2026-11-02"}, leaveerrors.ErrLeaveTypeNotEntitled},
			{"no balance", applicant, leave.ApplyRequest{LeaveType: "ANNUAL", StartDate: "2027-11-02", EndDate: "2027-11-02"}, leavebalanceerrors.ErrBalanceNotFound},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := deps.service.Apply(ctx, tc.actor, tc.req)
				assert.ErrorIs(t, err, tc.want)
			})
		}
	})
}

func TestLeaveService_StateMachine(t *testing.T) {
	ctx := context.Background()

	t.Run("a decided application cannot be decided again", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		app := apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Reject(ctx, hod, app.ID, leave.DecisionRequest{Comments: "busy term"})
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Approve(ctx, hod, app.ID, leave.DecisionRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidState))

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Cancel(ctx, applicant, app.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
		assert.Equal(t, 12, deps.ledger.remaining("ANNUAL"))
	})

	t.Run("a cancelled application cannot be cancelled twice", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		app := apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Cancel(ctx, applicant, app.ID)
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Cancel(ctx, applicant, app.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidState)
	})

	t.Run("reviewers of another department are refused", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		app := apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Approve(ctx, otherHOD, app.ID, leave.DecisionRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrNotReviewer)
		assert.Equal(t, 12, deps.ledger.remaining("ANNUAL"))
	})

	t.Run("only the applicant withdraws a pending application", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		app := apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Cancel(ctx, admin, app.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrNotApplicant)
	})

	t.Run("an admin may cancel approved leave", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
		app := apply(t, deps, "2026-11-02", "2026-11-04")

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Approve(ctx, hod, app.ID, leave.DecisionRequest{})
		assert.NoError(t, err)

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Cancel(ctx, otherHOD, app.ID)
		assert.ErrorIs(t, err, leaveerrors.ErrNotReviewer)

		expectTx(t, deps.sqlMock, true)
		res, err := deps.service.Cancel(ctx, admin, app.ID)
		assert.NoError(t, err)
		assert.Equal(t, "CANCELLED", res.Status)
		assert.Equal(t, 12, deps.ledger.remaining("ANNUAL"))
	})

	t.Run("unknown application", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)

		expectTx(t, deps.sqlMock, false)
		_, err := deps.service.Approve(ctx, hod, uuid.NewString(), leave.DecisionRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrApplicationNotFound)

		expectTx(t, deps.sqlMock, false)
		_, err = deps.service.Approve(ctx, hod, "not-a-uuid", leave.DecisionRequest{})
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidApplicationID)
	})
}

func TestLeaveService_ApproveWhenBalanceMoved(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 3}), nil)

	first := apply(t, deps, "2026-11-02", "2026-11-04")
	second := apply(t, deps, "2026-11-09", "2026-11-11")

	deps.sqlMock.MatchExpectationsInOrder(false)
	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectBegin()
	deps.sqlMock.ExpectCommit()
	deps.sqlMock.ExpectRollback()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{first.ID, second.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = deps.service.Approve(ctx, hod, id, leave.DecisionRequest{})
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, deps.ledger.remaining("ANNUAL"))

	pending, total, err := deps.service.ListPending(ctx, "CSE", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, pending, 1)
}

func TestLeaveService_Queries(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), nil)
	app := apply(t, deps, "2026-11-02", "2026-11-04")

	t.Run("applicant reads own application", func(t *testing.T) {
		res, err := deps.service.GetByID(ctx, applicant, app.ID)
		assert.NoError(t, err)
		assert.Equal(t, app.ReferenceNo, res.ReferenceNo)
	})

	t.Run("department reviewer reads it", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, hod, app.ID)
		assert.NoError(t, err)
	})

	t.Run("other department is refused", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, otherHOD, app.ID)
		assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	})

	t.Run("list mine", func(t *testing.T) {
		res, total, err := deps.service.ListMine(ctx, applicant.UserID, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, app.ID, res[0].ID)
	})

	t.Run("list by department filters status", func(t *testing.T) {
		res, _, err := deps.service.ListByDepartment(ctx, "cse", "approved", 1, 10)
		assert.NoError(t, err)
		assert.Empty(t, res)

		_, _, err = deps.service.ListByDepartment(ctx, "CSE", "archived", 1, 10)
		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatus)
	})

	t.Run("list all rejects a malformed academic year", func(t *testing.T) {
		_, _, err := deps.service.ListAll(ctx, leave.ListFilter{AcademicYear: "2026"}, 1, 10)
		assert.True(t, apperror.Is(err, apperror.CodeInvalidInput))
	})
}

func TestLeaveService_Statistics(t *testing.T) {
	ctx := context.Background()
	filter := leave.StatisticsFilter{Department: "cse", AcademicYear: year}
	cacheKey := leave.StatisticsKey("CSE", year)

	expected := leave.StatisticsResponse{
		Department:   "CSE",
		AcademicYear: year,
		Total:        5,
		ByStatus: map[string]int64{
			"PENDING": 1, "APPROVED": 3, "REJECTED": 1, "CANCELLED": 0,
		},
		ByLeaveType:          map[string]int64{"ANNUAL": 4, "SICK": 1},
		AverageApprovalHours: decimal.NewFromFloat(1.5),
	}

	t.Run("cache miss computes and stores", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		deps := setupServiceTest(t, newFakeLedger(nil), rdb)
		deps.repo.statusCounts = []leave.StatusCount{
			{Status: leave.StatusPending, Total: 1},
			{Status: leave.StatusApproved, Total: 3},
			{Status: leave.StatusRejected, Total: 1},
		}
		deps.repo.typeCounts = []leave.LeaveTypeCount{{LeaveType: "ANNUAL", Total: 4}, {LeaveType: "SICK", Total: 1}}
		deps.repo.latency = leave.ApprovalLatency{Seconds: 3 * 5400, Count: 3}

		payload, _ := json.Marshal(expected)
		redisMock.ExpectGet(cacheKey).RedisNil()
		redisMock.ExpectSet(cacheKey, payload, leave.StatisticsTTL).SetVal("OK")

		res, err := deps.service.Statistics(ctx, filter)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), res.Total)
		assert.Equal(t, "1.5", res.AverageApprovalHours.String())
		assert.Equal(t, expected.ByStatus, res.ByStatus)
		assert.Equal(t, 1, deps.repo.statsCalls)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		deps := setupServiceTest(t, newFakeLedger(nil), rdb)

		payload, _ := json.Marshal(expected)
		redisMock.ExpectGet(cacheKey).SetVal(string(payload))

		res, err := deps.service.Statistics(ctx, filter)
		assert.NoError(t, err)
		assert.Equal(t, expected.Total, res.Total)
		assert.Equal(t, expected.ByLeaveType, res.ByLeaveType)
		assert.Equal(t, 0, deps.repo.statsCalls)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("empty scope reports zero average", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(nil), nil)

		res, err := deps.service.Statistics(ctx, leave.StatisticsFilter{Department: scope.AllDepartments})
		assert.NoError(t, err)
		assert.Equal(t, scope.AllDepartments, res.Department)
		assert.Equal(t, int64(0), res.Total)
		assert.True(t, res.AverageApprovalHours.IsZero())
		assert.Equal(t, int64(0), res.ByStatus["APPROVED"])
	})

	t.Run("shared computation outlives a cancelled caller", func(t *testing.T) {
		deps := setupServiceTest(t, newFakeLedger(nil), nil)
		deps.repo.statusCounts = []leave.StatusCount{{Status: leave.StatusPending, Total: 2}}

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		res, err := deps.service.Statistics(cancelled, filter)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), res.Total)
		assert.Equal(t, 1, deps.repo.statsCalls)
	})

		t.Run("a decision invalidates every scope it counts in", func(t *testing.T) {
		rdb, redisMock := redismock.NewClientMock()
		deps := setupServiceTest(t, newFakeLedger(map[string]int{"ANNUAL": 12}), rdb)

		redisMock.ExpectDel(
			leave.StatisticsKey("CSE", year),
			leave.StatisticsKey("CSE", ""),
			leave.StatisticsKey("", year),
			leave.StatisticsKey("", ""),
		).SetVal(4)

		apply(t, deps, "2026-11-02", "2026-11-04")
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
