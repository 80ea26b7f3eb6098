package leave

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPageSize = 10

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	return NewHandlerWithRedis(service, nil, logger...)
}

// NewHandlerWithRedis enables caching of Apply responses for Idempotency-Key replays.
func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
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

func listFilter(c *gin.Context) ListFilter {
	page, limit := response.PageParams(c, defaultPageSize)
	return ListFilter{
		Status:       c.Query("status"),
		LeaveType:    c.Query("leaveType"),
		EmployeeName: c.Query("employeeName"),
		StartFrom:    c.Query("startDate"),
		StartTo:      c.Query("endDate"),
		Page:         page,
		Limit:        limit,
	}
}

func (h *Handler) writeList(c *gin.Context, result ListResult, f ListFilter) {
	meta := response.NewPaginationMeta(result.Total, f.Page, f.Limit)
	response.Success(c, http.StatusOK, "", result, &meta)
}

func (h *Handler) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	lockKey := c.GetString(middleware.ContextIdempotencyLockKey)
	cacheKey := c.GetString(middleware.ContextIdempotencyCacheKey)
	if h.rdb != nil && lockKey != "" {
		defer h.rdb.Del(ctx, lockKey)
	}

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http apply leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Apply(ctx, c.GetString(middleware.ContextUserID), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	envelope := response.ApiEnvelope{
		Success: true,
		Message: "Leave request submitted successfully",
		Data:    gin.H{"leaveRequest": resp},
	}
	if h.rdb != nil && cacheKey != "" {
		if payload, marshalErr := json.Marshal(envelope); marshalErr == nil {
			if setErr := h.rdb.Set(ctx, cacheKey, payload, middleware.IdempotencyTTL).Err(); setErr != nil {
				h.logger.Warn("cache idempotent response failed", zap.Error(setErr))
			}
		}
	}

	c.JSON(http.StatusCreated, envelope)
}

func (h *Handler) GetMyRequests(c *gin.Context) {
	f := listFilter(c)
	result, err := h.service.GetMyRequests(c.Request.Context(), c.GetString(middleware.ContextUserID), f)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeList(c, result, f)
}

func (h *Handler) GetBalance(c *gin.Context) {
	resp, err := h.service.GetBalance(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave request cancelled successfully", nil, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	f := listFilter(c)
	result, err := h.service.GetAll(c.Request.Context(), f)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeList(c, result, f)
}

func (h *Handler) GetPending(c *gin.Context) {
	f := listFilter(c)
	result, err := h.service.GetPending(c.Request.Context(), f)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeList(c, result, f)
}

func (h *Handler) Approve(c *gin.Context) {
	req, ok := h.bindManagerAction(c)
	if !ok {
		return
	}

	resp, err := h.service.Approve(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave request approved successfully", gin.H{"leaveRequest": resp}, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	req, ok := h.bindManagerAction(c)
	if !ok {
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Leave request rejected successfully", gin.H{"leaveRequest": resp}, nil)
}

// bindManagerAction treats a missing body as an empty comment so the
// service decides whether one is required. A chunked request carries no
// length, so an empty one only shows up as EOF from the decoder.
func (h *Handler) bindManagerAction(c *gin.Context) (ManagerActionRequest, bool) {
	var req ManagerActionRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return ManagerActionRequest{}, true
		}
		h.writeServiceError(c, apperror.MapValidationError(err))
		return req, false
	}
	return req, true
}
