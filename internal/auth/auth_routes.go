package auth

import (
	"time"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", middleware.RateLimitByIP(rate.Every(20*time.Minute), 3), handler.Register)
		auth.POST("/login", middleware.RateLimitByIP(rate.Every(3*time.Minute), 5), handler.Login)
		auth.POST("/verify-email", handler.VerifyEmail)
		auth.POST("/logout", handler.Logout)

		authed := auth.Group("", middleware.AuthMiddleware(jwtSecret))
		authed.GET("/me", middleware.RateLimitByUser(2, 5), handler.Me)
		authed.PUT("/profile", middleware.RateLimitByUser(2, 5), handler.UpdateProfile)
	}
}
