package handlers

import (
	"github.com/gin-gonic/gin"

	"ritmo-backend/internal/logging"
	"ritmo-backend/internal/middleware"
	"ritmo-backend/internal/services"
)

type Routes struct {
	Auth      *AuthHandler
	User      *UserHandler
	Economy   *EconomyHandler
	WebSocket *WebSocketHandler
	Health    *HealthHandler
}

// NewRouter mounts every route. Routes with a :userId parameter only accept
// the authenticated user's own id.
func NewRouter(routes Routes, auth *services.AuthService, log logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log), middleware.CORS())

	router.GET("/healthz", routes.Health.Check)

	protect := []gin.HandlerFunc{middleware.AuthMiddleware(auth), middleware.RequireSelf()}

	user := router.Group("/api/user")
	{
		user.POST("/register", routes.Auth.Register)
		user.POST("/login", routes.Auth.Login)
		user.POST("/refresh", routes.Auth.Refresh)

		protected := user.Group("", protect...)
		protected.GET("/me", routes.User.GetCurrentUser)
		protected.POST("/logout", routes.User.Logout)
		protected.PUT("/update/:userId", routes.User.Update)
		protected.DELETE("/delete/:userId", routes.User.Delete)
		protected.POST("/update-progress/:userId", routes.User.UpdateProgress)
	}

	economy := router.Group("/api/economy", protect...)
	{
		economy.POST("/add-funds/:userId", routes.Economy.AddFunds)
		economy.POST("/substract-funds/:userId", routes.Economy.SubstractFunds)
		economy.GET("/get-balance/:userId", routes.Economy.GetBalance)
	}

	router.GET("/api/ws", middleware.AuthMiddleware(auth), routes.WebSocket.HandleWebSocket)

	return router
}
