package leavepolicy_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-campus/internal/leavepolicy"
	leavepolicyerrors "go-campus/internal/leavepolicy/errors"
	"go-campus/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePolicyService struct {
	leavepolicy.Service
	CreateDefaultFn func(ctx context.Context, actorID string, req leavepolicy.CreateDefaultPolicyRequest) (leavepolicy.PolicyResponse, error)
	ListFn          func(ctx context.Context, filter leavepolicy.ListPoliciesFilter, page, pageSize int) ([]leavepolicy.PolicyResponse, int64, error)
	GetForUserFn    func(ctx context.Context, userID, academicYear string) (leavepolicy.PolicyResponse, error)
	ActivateFn      func(ctx context.Context, id string) (leavepolicy.PolicyResponse, error)
}

func (f *fakePolicyService) CreateDefault(ctx context.Context, actorID string, req leavepolicy.CreateDefaultPolicyRequest) (leavepolicy.PolicyResponse, error) {
	return f.CreateDefaultFn(ctx, actorID, req)
}

func (f *fakePolicyService) List(ctx context.Context, filter leavepolicy.ListPoliciesFilter, page, pageSize int) ([]leavepolicy.PolicyResponse, int64, error) {
	return f.ListFn(ctx, filter, page, pageSize)
}

func (f *fakePolicyService) GetForUser(ctx context.Context, userID, academicYear string) (leavepolicy.PolicyResponse, error) {
	return f.GetForUserFn(ctx, userID, academicYear)
}

func (f *fakePolicyService) Activate(ctx context.Context, id string) (leavepolicy.PolicyResponse, error) {
	return f.ActivateFn(ctx, id)
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error map[string]any  `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestLeavePolicyHandler_CreateDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.NewString()

	t.Run("created", func(t *testing.T) {
		svc := &fakePolicyService{
			CreateDefaultFn: func(ctx context.Context, gotActor string, req leavepolicy.CreateDefaultPolicyRequest) (leavepolicy.PolicyResponse, error) {
				assert.Equal(t, actorID, gotActor)
				assert.Equal(t, "teacher", req.UserType)
				return leavepolicy.PolicyResponse{ID: uuid.NewString(), Department: "CSE"}, nil
			},
		}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-policies/default",
			strings.NewReader(`{"user_type":"teacher","department":"CSE","academic_year":"2025-2026"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set(middleware.ContextUserID, actorID)

		leavepolicy.NewHandler(svc, zap.NewNop()).CreateDefault(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, string(decode(t, w).Data), "CSE")
	})

	t.Run("duplicate scope", func(t *testing.T) {
		svc := &fakePolicyService{
			CreateDefaultFn: func(ctx context.Context, actorID string, req leavepolicy.CreateDefaultPolicyRequest) (leavepolicy.PolicyResponse, error) {
				return leavepolicy.PolicyResponse{}, leavepolicyerrors.ErrPolicyAlreadyExists
			},
		}

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-policies/default",
			strings.NewReader(`{"user_type":"teacher","department":"CSE","academic_year":"2025-2026"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		leavepolicy.NewHandler(svc, zap.NewNop()).CreateDefault(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_EXISTS", decode(t, w).Error["code"])
	})

	t.Run("invalid user type", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leave-policies/default",
			strings.NewReader(`{"user_type":"alumni","department":"CSE","academic_year":"2025-2026"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		leavepolicy.NewHandler(&fakePolicyService{}, zap.NewNop()).CreateDefault(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decode(t, w).Error["code"])
	})
}

func TestLeavePolicyHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakePolicyService{
		ListFn: func(ctx context.Context, filter leavepolicy.ListPoliciesFilter, page, pageSize int) ([]leavepolicy.PolicyResponse, int64, error) {
			assert.Equal(t, "student", filter.UserType)
			if assert.NotNil(t, filter.Active) {
				assert.True(t, *filter.Active)
			}
			return []leavepolicy.PolicyResponse{{ID: "p-1"}}, 1, nil
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leave-policies?user_type=student&active=true", nil)

	leavepolicy.NewHandler(svc, zap.NewNop()).List(c)

	env := decode(t, w)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "p-1")
	assert.EqualValues(t, 1, env.Meta["total"])
}

func TestLeavePolicyHandler_GetMine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.NewString()

	svc := &fakePolicyService{
		GetForUserFn: func(ctx context.Context, gotUser, year string) (leavepolicy.PolicyResponse, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, "", year)
			return leavepolicy.PolicyResponse{}, leavepolicyerrors.ErrPolicyNotFound
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leave-policies/me", nil)
	c.Set(middleware.ContextUserID, userID)

	leavepolicy.NewHandler(svc, zap.NewNop()).GetMine(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLeavePolicyHandler_Activate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.NewString()

	svc := &fakePolicyService{
		ActivateFn: func(ctx context.Context, gotID string) (leavepolicy.PolicyResponse, error) {
			assert.Equal(t, id, gotID)
			return leavepolicy.PolicyResponse{ID: id, IsActive: true}, nil
		},
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/leave-policies/"+id+"/activate", nil)
	c.Params = gin.Params{{Key: "id", Value: id}}

	leavepolicy.NewHandler(svc, zap.NewNop()).Activate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"is_active":true`)
}
