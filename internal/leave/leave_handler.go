package leave

import (
	"context"
	"net/http"

	"go-campus/internal/domain"
	"go-campus/internal/middleware"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/shared/contextutil"
	"go-campus/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Apply submits an application for the caller. A retried request with the
// same Idempotency-Key replays the first response.
func (h *Handler) Apply(c *gin.Context) {
	lockKey := c.GetString(middleware.IdempotencyLockKey)
	cacheKey := c.GetString(middleware.IdempotencyCacheKey)
	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(c.Request.Context(), lockKey)
	}

	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	actor := middleware.ActorFromContext(c)
	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.service.Apply(ctx, actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil && cacheKey != "" {
		if payload, err := middleware.NewIdempotentResponse(http.StatusCreated, res); err == nil {
			_ = h.rdb.Set(c.Request.Context(), cacheKey, payload, middleware.IdempotencyTTL).Err()
		}
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decisionFunc func(ctx context.Context, actor domain.Actor, id string, req DecisionRequest) (ApplicationResponse, error)

func (h *Handler) decide(c *gin.Context, fn decisionFunc) {
	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	res, err := fn(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	res, err := h.service.Cancel(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	res, err := h.service.GetByID(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	page, pageSize := response.PageParams(c)

	res, total, err := h.service.ListMine(c.Request.Context(), middleware.ActorFromContext(c).UserID, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, res, &meta)
}

// ListPending is the review queue. Reviewers pinned to a department only
// see that department.
func (h *Handler) ListPending(c *gin.Context) {
	page, pageSize := response.PageParams(c)
	department := middleware.ScopedDepartment(c, c.Query("department"))

	res, total, err := h.service.ListPending(c.Request.Context(), department, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, res, &meta)
}

func (h *Handler) ListAll(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	filter.Department = middleware.ScopedDepartment(c, filter.Department)
	page, pageSize := response.PageParams(c)

	res, total, err := h.service.ListAll(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, res, &meta)
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	page, pageSize := response.PageParams(c)

	res, total, err := h.service.ListByDepartment(c.Request.Context(), c.Param("department"), c.Query("status"), page, pageSize)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, res, &meta)
}

func (h *Handler) Statistics(c *gin.Context) {
	var filter StatisticsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	filter.Department = middleware.ScopedDepartment(c, filter.Department)

	res, err := h.service.Statistics(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
