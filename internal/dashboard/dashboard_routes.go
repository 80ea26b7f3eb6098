package dashboard

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, jwtSecret string) {
	dashboard := r.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireVerifiedEmail())
	{
		dashboard.GET("/employee", middleware.RBACAuthorize(rbacService, "dashboard", "employee"), handler.Employee)
		dashboard.GET("/manager", middleware.RBACAuthorize(rbacService, "dashboard", "manager"), handler.Manager)
	}
}
