package leave

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
	jwtSecret string,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(jwtSecret), middleware.RequireVerifiedEmail())
	{
		apply := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "leave", "create")}
		if rdb != nil {
			apply = append(apply, middleware.Idempotency(rdb))
		}
		leaves.POST("", append(apply, handler.Apply)...)

		leaves.GET("/my-requests", middleware.RBACAuthorize(rbacService, "leave", "read_own"), handler.GetMyRequests)
		leaves.GET("/balance", middleware.RBACAuthorize(rbacService, "leave", "read_own"), handler.GetBalance)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)

		leaves.GET("/all", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetAll)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "read_all"), handler.GetPending)
		leaves.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "reject"), handler.Reject)
	}
}
