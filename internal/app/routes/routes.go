package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/easepay/easepay/internal/app/controllers"
	"github.com/easepay/easepay/internal/app/models"
	"github.com/easepay/easepay/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	transactionController *controllers.TransactionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/signin", userController.Login)
		users.POST("/refresh", userController.Refresh)
		users.POST("/forgot-password", userController.ForgotPassword)
		users.POST("/reset-password", userController.ResetPassword)

		authenticated := users.Group("")
		authenticated.Use(authMiddleware.SessionAuth())
		{
			authenticated.POST("/logout", userController.Logout)
			authenticated.GET("/me", userController.Me)

			superAdminOnly := authenticated.Group("")
			superAdminOnly.Use(authMiddleware.RoleRequired(models.RoleSuperAdmin))
			{
				superAdminOnly.POST("", userController.Register)
				superAdminOnly.GET("", userController.ListAdmins)
			}
		}
	}

	transactions := v1.Group("/transactions")
	{
		// Students submit proof of payment without an account
		transactions.POST("", transactionController.Create)

		reviewers := transactions.Group("")
		reviewers.Use(authMiddleware.SessionAuth())
		{
			reviewers.GET("", transactionController.List)
			reviewers.GET("/recent", transactionController.ListRecent)
			reviewers.GET("/admin", transactionController.List)
			reviewers.GET("/admin/success", transactionController.ListSuccessful)
			reviewers.GET("/:id", transactionController.GetByID)
			reviewers.PATCH("/:id", transactionController.UpdateStatus)

			superAdminOnly := reviewers.Group("")
			superAdminOnly.Use(authMiddleware.RoleRequired(models.RoleSuperAdmin))
			{
				superAdminOnly.DELETE("/:id", transactionController.Delete)
			}
		}
	}
}
