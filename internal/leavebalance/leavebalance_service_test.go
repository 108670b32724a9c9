package leavebalance_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"go-campus/internal/bootstrap"
	"go-campus/internal/leavebalance"
	leavebalanceerrors "go-campus/internal/leavebalance/errors"
	"go-campus/internal/leavepolicy"
	leavepolicyerrors "go-campus/internal/leavepolicy/errors"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// memRepo mimics the conditional updates of the SQL repository.
type memRepo struct {
	mu       sync.Mutex
	balances map[string]*leavebalance.LeaveBalance
}

func newMemRepo() *memRepo {
	return &memRepo{balances: map[string]*leavebalance.LeaveBalance{}}
}

func key(userID, year string) string { return userID + "|" + year }

func clone(b *leavebalance.LeaveBalance) *leavebalance.LeaveBalance {
	cp := *b
	cp.Entries = append([]leavebalance.LeaveBalanceEntry(nil), b.Entries...)
	return &cp
}

func (r *memRepo) WithTx(tx *sql.Tx) leavebalance.Repository { return r }

func (r *memRepo) Create(ctx context.Context, b *leavebalance.LeaveBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := key(b.UserID.String(), b.AcademicYear)
	if _, ok := r.balances[k]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "uq_leave_balances_user_year"}
	}
	r.balances[k] = clone(b)
	return nil
}

func (r *memRepo) FindByUserYear(ctx context.Context, userID, year string) (*leavebalance.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.balances[key(userID, year)]
	if !ok {
		return &leavebalance.LeaveBalance{}, gorm.ErrRecordNotFound
	}
	return clone(b), nil
}

func (r *memRepo) ReplaceEntries(ctx context.Context, b *leavebalance.LeaveBalance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[key(b.UserID.String(), b.AcademicYear)] = clone(b)
	return nil
}

func (r *memRepo) entry(userID, year, leaveType string) *leavebalance.LeaveBalanceEntry {
	b, ok := r.balances[key(userID, year)]
	if !ok {
		return nil
	}
	e, _ := b.Entry(leaveType)
	return e
}

func (r *memRepo) Debit(ctx context.Context, userID, year, leaveType string, days int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(userID, year, leaveType)
	if e == nil || e.Remaining < days {
		return 0, nil
	}
	e.Used += days
	e.Remaining -= days
	e.Version++
	return 1, nil
}

func (r *memRepo) Credit(ctx context.Context, userID, year, leaveType string, days int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entry(userID, year, leaveType)
	if e == nil {
		return 0, nil
	}
	e.Used = max(e.Used-days, 0)
	e.Remaining = e.Allocated - e.Used
	e.Version++
	return 1, nil
}

func (r *memRepo) Reset(ctx context.Context, balanceID, leaveType string, toValue int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.balances {
		if b.ID.String() != balanceID {
			continue
		}
		for i := range b.Entries {
			e := &b.Entries[i]
			if leaveType != "" && e.LeaveType != leaveType {
				continue
			}
			e.Used = min(toValue, e.Allocated)
			e.Remaining = e.Allocated - e.Used
			e.Version++
			n++
		}
	}
	return n, nil
}

func (r *memRepo) FindByDepartment(ctx context.Context, department, year string, page, pageSize int) ([]leavebalance.LeaveBalance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leavebalance.LeaveBalance
	for _, b := range r.balances {
		if b.Department == department && b.AcademicYear == year {
			out = append(out, *clone(b))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memRepo) FindLow(ctx context.Context, threshold int, filter leavebalance.ListLowFilter) ([]leavebalance.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leavebalance.LeaveBalance
	for _, b := range r.balances {
		if filter.Department != "" && b.Department != filter.Department {
			continue
		}
		for _, e := range b.Entries {
			if e.Remaining <= threshold {
				out = append(out, *clone(b))
				break
			}
		}
	}
	return out, nil
}

func (r *memRepo) Summary(ctx context.Context, year, department string) ([]leavebalance.LeaveTypeTotals, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := map[string]*leavebalance.LeaveTypeTotals{}
	var order []string
	var users int64
	for _, b := range r.balances {
		if b.AcademicYear != year {
			continue
		}
		users++
		for _, e := range b.Entries {
			t, ok := totals[e.LeaveType]
			if !ok {
				t = &leavebalance.LeaveTypeTotals{LeaveType: e.LeaveType}
				totals[e.LeaveType] = t
				order = append(order, e.LeaveType)
			}
			t.Allocated += int64(e.Allocated)
			t.Used += int64(e.Used)
			t.Remaining += int64(e.Remaining)
			t.Users++
		}
	}
	rows := make([]leavebalance.LeaveTypeTotals, 0, len(order))
	for _, lt := range order {
		rows = append(rows, *totals[lt])
	}
	return rows, users, nil
}

type fakeResolver struct {
	policies map[string]leavepolicy.LeavePolicy
}

func (f *fakeResolver) Resolve(ctx context.Context, userType, department, year string) (leavepolicy.LeavePolicy, error) {
	p, ok := f.policies[userType+"|"+year]
	if !ok {
		return leavepolicy.LeavePolicy{}, leavepolicyerrors.ErrPolicyNotFound
	}
	return p, nil
}

type fakeDirectory struct {
	users []user.UserResponse
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.UserResponse{}, apperror.ErrNotFound
}

func (f *fakeDirectory) ListActiveByScope(ctx context.Context, userType, department string) ([]user.UserResponse, error) {
	var out []user.UserResponse
	for _, u := range f.users {
		if u.UserType == userType && (department == "ALL" || u.Department == department) {
			out = append(out, u)
		}
	}
	return out, nil
}

type recordingAudit struct {
	entries []bootstrap.AuditLog
}

func (a *recordingAudit) Log(ctx context.Context, entry bootstrap.AuditLog) {
	a.entries = append(a.entries, entry)
}

const year = "2025-2026"

type ledgerDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	repo     *memRepo
	resolver *fakeResolver
	users    *fakeDirectory
	audit    *recordingAudit
	service  leavebalance.Service
}

func setupLedger(t *testing.T) *ledgerDeps {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	deps := &ledgerDeps{
		db:      db,
		sqlMock: sqlMock,
		repo:    newMemRepo(),
		resolver: &fakeResolver{policies: map[string]leavepolicy.LeavePolicy{
			"teacher|" + year: {
				ID:           uuid.New(),
				UserType:     "teacher",
				Department:   "ALL",
				AcademicYear: year,
				Entitlements: datatypes.JSONSlice[leavepolicy.Entitlement]{
					{LeaveType: "CASUAL", Days: 12},
					{LeaveType: "SICK", Days: 10},
				},
				IsActive: true,
			},
		}},
		users: &fakeDirectory{},
		audit: &recordingAudit{},
	}
	deps.service = leavebalance.NewService(db, deps.repo, deps.resolver, deps.users, deps.audit,
		leavebalance.Settings{AcademicYearStartMonth: 7, LowBalanceThreshold: 2}, zap.NewNop())
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

// seed initialises a teacher balance and returns the user id.
func seed(t *testing.T, deps *ledgerDeps) string {
	t.Helper()
	userID := uuid.NewString()
	expectTx(t, deps.sqlMock, true)
	_, err := deps.service.Initialize(context.Background(), leavebalance.InitializeRequest{
		UserID: userID, UserType: "teacher", Department: "CSE", AcademicYear: year,
	})
	assert.NoError(t, err)
	return userID
}

func entryOf(t *testing.T, deps *ledgerDeps, userID, leaveType string) leavebalance.EntryResponse {
	t.Helper()
	b, err := deps.service.GetBalance(context.Background(), userID, year)
	assert.NoError(t, err)
	for _, e := range b.Entries {
		if e.LeaveType == leaveType {
			assert.Equal(t, e.Allocated-e.Used, e.Remaining)
			assert.GreaterOrEqual(t, e.Remaining, 0)
			assert.GreaterOrEqual(t, e.Used, 0)
			return e
		}
	}
	t.Fatalf("leave type %s missing", leaveType)
	return leavebalance.EntryResponse{}
}

func TestLeaveBalanceService_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("snapshots entitlements", func(t *testing.T) {
		deps := setupLedger(t)
		userID := uuid.NewString()
		expectTx(t, deps.sqlMock, true)

		res, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: userID, UserType: "teacher", Department: "cse", AcademicYear: year,
		})

		assert.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, "CSE", res.Balance.Department)
		assert.Equal(t, []leavebalance.EntryResponse{
			{LeaveType: "CASUAL", Allocated: 12, Remaining: 12},
			{LeaveType: "SICK", Allocated: 10, Remaining: 10},
		}, res.Balance.Entries)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("existing balance is returned unchanged", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)
		assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 4))

		expectTx(t, deps.sqlMock, false)
		res, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: userID, UserType: "teacher", Department: "CSE", AcademicYear: year,
		})

		assert.NoError(t, err)
		assert.False(t, res.Created)
		assert.Equal(t, 8, entryOf(t, deps, userID, "CASUAL").Remaining)
	})

	t.Run("force replaces entries", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)
		assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 4))

		expectTx(t, deps.sqlMock, true)
		res, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: userID, UserType: "teacher", Department: "CSE", AcademicYear: year, Force: true,
		})

		assert.NoError(t, err)
		assert.True(t, res.Created)
		assert.Equal(t, 12, entryOf(t, deps, userID, "CASUAL").Remaining)
	})

	t.Run("carries forward capped days", func(t *testing.T) {
		deps := setupLedger(t)
		p := deps.resolver.policies["teacher|"+year]
		p.CarryForwardEnabled = true
		p.CarryForwardMaxDays = 5
		deps.resolver.policies["teacher|"+year] = p

		userID := uuid.NewString()
		prevPolicy := p
		prevPolicy.CarryForwardEnabled = false
		deps.resolver.policies["teacher|2024-2025"] = prevPolicy

		expectTx(t, deps.sqlMock, true)
		_, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: userID, UserType: "teacher", Department: "CSE", AcademicYear: "2024-2025",
		})
		assert.NoError(t, err)
		assert.NoError(t, deps.service.Debit(ctx, nil, userID, "2024-2025", "SICK", 7))

		expectTx(t, deps.sqlMock, true)
		res, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: userID, UserType: "teacher", Department: "CSE", AcademicYear: year,
		})

		assert.NoError(t, err)
		assert.Equal(t, leavebalance.EntryResponse{LeaveType: "CASUAL", Allocated: 17, Remaining: 17, CarriedForward: 5}, res.Balance.Entries[0])
		assert.Equal(t, leavebalance.EntryResponse{LeaveType: "SICK", Allocated: 13, Remaining: 13, CarriedForward: 3}, res.Balance.Entries[1])
	})

	t.Run("user type and department from directory", func(t *testing.T) {
		deps := setupLedger(t)
		userID := uuid.NewString()
		deps.users.users = []user.UserResponse{{ID: userID, UserType: "teacher", Department: "ECE"}}
		expectTx(t, deps.sqlMock, true)

		res, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{UserID: userID, AcademicYear: year})

		assert.NoError(t, err)
		assert.Equal(t, "teacher", res.Balance.UserType)
		assert.Equal(t, "ECE", res.Balance.Department)
	})

	t.Run("no policy", func(t *testing.T) {
		deps := setupLedger(t)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: uuid.NewString(), UserType: "student", Department: "CSE", AcademicYear: year,
		})

		assert.True(t, apperror.Is(err, apperror.CodeNotFound))
	})

	t.Run("invalid input", func(t *testing.T) {
		deps := setupLedger(t)

		_, err := deps.service.Initialize(ctx, leavebalance.InitializeRequest{UserID: "nope"})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidUserID)

		_, err = deps.service.Initialize(ctx, leavebalance.InitializeRequest{
			UserID: uuid.NewString(), UserType: "teacher", Department: "CSE", AcademicYear: "2025",
		})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidAcademicYear)
	})
}

func TestLeaveBalanceService_InitializeBulk(t *testing.T) {
	deps := setupLedger(t)
	existing := seed(t, deps)
	fresh := uuid.NewString()
	student := uuid.NewString()
	deps.users.users = []user.UserResponse{
		{ID: existing, UserType: "teacher", Department: "CSE"},
		{ID: fresh, UserType: "teacher", Department: "ECE"},
		{ID: student, UserType: "student", Department: "CSE"},
	}

	expectTx(t, deps.sqlMock, false)
	expectTx(t, deps.sqlMock, true)

	res, err := deps.service.InitializeBulk(context.Background(), "admin-1", leavebalance.BulkInitializeRequest{
		UserType: "teacher", Department: "all", AcademicYear: year,
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Len(t, deps.audit.entries, 1)
	assert.Equal(t, "LEAVE_BALANCE_BULK_INITIALIZE", deps.audit.entries[0].Action)

	t.Run("users without a policy are reported", func(t *testing.T) {
		expectTx(t, deps.sqlMock, false)

		res, err := deps.service.InitializeBulk(context.Background(), "admin-1", leavebalance.BulkInitializeRequest{
			UserType: "student", Department: "CSE", AcademicYear: year,
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
		assert.Equal(t, student, res.Failures[0].UserID)
		assert.Equal(t, apperror.CodeNotFound, res.Failures[0].Code)
	})
}

func TestLeaveBalanceService_Debit(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes remaining days", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)

		assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 3))

		e := entryOf(t, deps, userID, "CASUAL")
		assert.Equal(t, 3, e.Used)
		assert.Equal(t, 9, e.Remaining)
	})

	t.Run("insufficient balance leaves the entry untouched", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)
		assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "SICK", 8))

		err := deps.service.Debit(ctx, nil, userID, year, "SICK", 5)

		assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, leavebalanceerrors.InsufficientDetails{LeaveType: "SICK", Available: 2, Requested: 5, Shortfall: 3}, httpErr.Details)
		e := entryOf(t, deps, userID, "SICK")
		assert.Equal(t, 8, e.Used)
		assert.Equal(t, 2, e.Remaining)
	})

	t.Run("missing balance or leave type", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)

		err := deps.service.Debit(ctx, nil, uuid.NewString(), year, "CASUAL", 1)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)

		err = deps.service.Debit(ctx, nil, userID, year, "EARNED", 1)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrLeaveTypeNotFound)
	})

	t.Run("non positive days", func(t *testing.T) {
		deps := setupLedger(t)
		assert.ErrorIs(t, deps.service.Debit(ctx, nil, uuid.NewString(), year, "CASUAL", 0), leavebalanceerrors.ErrInvalidDays)
		assert.ErrorIs(t, deps.service.Credit(ctx, nil, uuid.NewString(), year, "CASUAL", -1), leavebalanceerrors.ErrInvalidDays)
	})
}

func TestLeaveBalanceService_CreditRoundTrip(t *testing.T) {
	ctx := context.Background()
	deps := setupLedger(t)
	userID := seed(t, deps)
	assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 5))
	before := entryOf(t, deps, userID, "CASUAL")

	assert.NoError(t, deps.service.Credit(ctx, nil, userID, year, "CASUAL", 2))
	assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 2))

	assert.Equal(t, before, entryOf(t, deps, userID, "CASUAL"))

	t.Run("credit clamps used at zero", func(t *testing.T) {
		assert.NoError(t, deps.service.Credit(ctx, nil, userID, year, "CASUAL", 50))
		e := entryOf(t, deps, userID, "CASUAL")
		assert.Equal(t, 0, e.Used)
		assert.Equal(t, 12, e.Remaining)
	})
}

func TestLeaveBalanceService_InvariantUnderMixedOperations(t *testing.T) {
	ctx := context.Background()
	deps := setupLedger(t)
	userID := seed(t, deps)

	ops := []struct {
		debit bool
		days  int
	}{
		{true, 4}, {true, 9}, {false, 2}, {true, 7}, {true, 3}, {false, 20}, {true, 12}, {true, 1}, {false, 1},
	}
	for _, op := range ops {
		var err error
		if op.debit {
			err = deps.service.Debit(ctx, nil, userID, year, "CASUAL", op.days)
		} else {
			err = deps.service.Credit(ctx, nil, userID, year, "CASUAL", op.days)
		}
		if err != nil {
			assert.ErrorIs(t, err, leavebalanceerrors.ErrInsufficientBalance)
		}
		entryOf(t, deps, userID, "CASUAL")
	}
}

func TestLeaveBalanceService_ConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	deps := setupLedger(t)
	userID := seed(t, deps)
	assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 9))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = deps.service.Debit(ctx, nil, userID, year, "CASUAL", 3)
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.Is(err, apperror.CodeInsufficientBalance):
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, entryOf(t, deps, userID, "CASUAL").Remaining)
}

func TestLeaveBalanceService_Reset(t *testing.T) {
	ctx := context.Background()

	t.Run("resets every leave type", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)
		assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "CASUAL", 6))
		assert.NoError(t, deps.service.Debit(ctx, nil, userID, year, "SICK", 2))
		expectTx(t, deps.sqlMock, true)

		res, err := deps.service.Reset(ctx, "admin-1", userID, leavebalance.ResetRequest{AcademicYear: year})

		assert.NoError(t, err)
		for _, e := range res.Entries {
			assert.Equal(t, 0, e.Used)
			assert.Equal(t, e.Allocated, e.Remaining)
		}
		assert.Equal(t, "LEAVE_BALANCE_RESET", deps.audit.entries[0].Action)
	})

	t.Run("to value is capped at allocated", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)
		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Reset(ctx, "admin-1", userID, leavebalance.ResetRequest{AcademicYear: year, ToValue: 40, LeaveType: "sick"})

		assert.NoError(t, err)
		e := entryOf(t, deps, userID, "SICK")
		assert.Equal(t, 10, e.Used)
		assert.Equal(t, 0, e.Remaining)
		assert.Equal(t, 0, entryOf(t, deps, userID, "CASUAL").Used)
	})

	t.Run("unknown leave type", func(t *testing.T) {
		deps := setupLedger(t)
		userID := seed(t, deps)
		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Reset(ctx, "admin-1", userID, leavebalance.ResetRequest{AcademicYear: year, LeaveType: "EARNED"})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrLeaveTypeNotFound)
		assert.Empty(t, deps.audit.entries)
	})

	t.Run("negative value", func(t *testing.T) {
		deps := setupLedger(t)
		_, err := deps.service.Reset(ctx, "admin-1", uuid.NewString(), leavebalance.ResetRequest{ToValue: -1})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidResetValue)
	})
}

func TestLeaveBalanceService_Queries(t *testing.T) {
	ctx := context.Background()
	deps := setupLedger(t)
	low := seed(t, deps)
	seed(t, deps)
	assert.NoError(t, deps.service.Debit(ctx, nil, low, year, "SICK", 9))

	t.Run("list low uses default threshold", func(t *testing.T) {
		res, err := deps.service.ListLow(ctx, leavebalance.ListLowFilter{})
		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, low, res[0].UserID)
	})

	t.Run("list low rejects negative threshold", func(t *testing.T) {
		threshold := -1
		_, err := deps.service.ListLow(ctx, leavebalance.ListLowFilter{Threshold: &threshold})
		assert.ErrorIs(t, err, leavebalanceerrors.ErrInvalidThreshold)
	})

	t.Run("list by department", func(t *testing.T) {
		res, total, err := deps.service.ListByDepartment(ctx, "cse", year, 1, 10)
		assert.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, res, 2)
	})

	t.Run("summary", func(t *testing.T) {
		res, err := deps.service.Summary(ctx, year, "")
		assert.NoError(t, err)
		assert.EqualValues(t, 2, res.Users)
		for _, lt := range res.LeaveTypes {
			assert.Equal(t, lt.Allocated-lt.Used, lt.Remaining)
			if lt.LeaveType == "SICK" {
				assert.EqualValues(t, 9, lt.Used)
			}
		}
	})

	t.Run("get balance not initialised", func(t *testing.T) {
		_, err := deps.service.GetBalance(ctx, uuid.NewString(), year)
		assert.ErrorIs(t, err, leavebalanceerrors.ErrBalanceNotFound)
	})
}
