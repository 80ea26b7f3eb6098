package dashboard_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/dashboard"
	dashboarderrors "go-leave/internal/dashboard/errors"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardService struct {
	employeeFn func(ctx context.Context, userID string) (dashboard.EmployeeDashboard, error)
	managerFn  func(ctx context.Context) (dashboard.ManagerDashboard, error)
}

func (f *fakeDashboardService) Employee(ctx context.Context, userID string) (dashboard.EmployeeDashboard, error) {
	return f.employeeFn(ctx, userID)
}

func (f *fakeDashboardService) Manager(ctx context.Context) (dashboard.ManagerDashboard, error) {
	return f.managerFn(ctx)
}

func setupDashboardRouter(svc dashboard.Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := dashboard.NewHandler(svc)
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.GET("/dashboard/employee", h.Employee)
	r.GET("/dashboard/manager", h.Manager)
	return r
}

func TestHandler_Employee(t *testing.T) {
	var gotUser string
	svc := &fakeDashboardService{
		employeeFn: func(ctx context.Context, userID string) (dashboard.EmployeeDashboard, error) {
			gotUser = userID
			return dashboard.EmployeeDashboard{
				Stats: dashboard.EmployeeStats{LeavesByStatus: dashboard.StatusCounts{Pending: 2}},
			}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/employee", nil)
	setupDashboardRouter(svc, "user-1").ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUser)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Stats struct {
				LeavesByStatus map[string]int `json:"leavesByStatus"`
			} `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2, body.Data.Stats.LeavesByStatus["pending"])
}

func TestHandler_Manager_Error(t *testing.T) {
	svc := &fakeDashboardService{
		managerFn: func(ctx context.Context) (dashboard.ManagerDashboard, error) {
			return dashboard.ManagerDashboard{}, dashboarderrors.ErrDashboardUnavailable
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/manager", nil)
	setupDashboardRouter(svc, "manager-1").ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Error fetching dashboard data", body.Message)
}
