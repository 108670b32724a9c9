package leavebalance

import (
	"net/http"

	"go-campus/internal/middleware"
	"go-campus/internal/shared/apperror"
	"go-campus/internal/shared/contextutil"
	"go-campus/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leavebalance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavebalance.handler")
	}
	return &Handler{service: service, logger: l}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Initialize(c *gin.Context) {
	var req InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Initialize(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.Success(c, status, res, nil)
}

func (h *Handler) InitializeBulk(c *gin.Context) {
	var req BulkInitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.service.InitializeBulk(ctx, middleware.ActorFromContext(c).UserID, req)
	if err != nil {
		h.logger.Warn("http bulk initialize failed", zap.Error(err))
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	actor := middleware.ActorFromContext(c)
	res, err := h.service.GetBalance(c.Request.Context(), actor.UserID, c.Query("academic_year"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// GetForUser returns another user's ledger. Callers pinned to a department
// only see users of that department, and a missing balance answers them
// FORBIDDEN so other departments' users stay indistinguishable.
func (h *Handler) GetForUser(c *gin.Context) {
	pinned := c.GetString(middleware.ContextScopeDepartment)
	res, err := h.service.GetBalance(c.Request.Context(), c.Param("userId"), c.Query("academic_year"))
	if err != nil {
		if pinned != "" && apperror.Is(err, apperror.CodeNotFound) {
			err = apperror.ErrForbidden
		}
		writeError(c, err)
		return
	}
	if pinned != "" && pinned != res.Department {
		writeError(c, apperror.ErrForbidden)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ListByDepartment(c *gin.Context) {
	page, pageSize := response.PageParams(c)

	res, total, err := h.service.ListByDepartment(c.Request.Context(), c.Param("department"), c.Query("academic_year"), page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, res, &meta)
}

func (h *Handler) ListLow(c *gin.Context) {
	var filter ListLowFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}
	filter.Department = middleware.ScopedDepartment(c, filter.Department)

	res, err := h.service.ListLow(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Reset(c *gin.Context) {
	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	ctx := contextutil.WithLogger(c.Request.Context(), h.logger)
	res, err := h.service.Reset(ctx, middleware.ActorFromContext(c).UserID, c.Param("userId"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	department := middleware.ScopedDepartment(c, c.Query("department"))

	res, err := h.service.Summary(c.Request.Context(), c.Query("academic_year"), department)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
