package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/middleware"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

func SetupUserRoutes(router *gin.Engine, service *services.UserService) {
	userController := controllers.NewUserController(service)

	// Public routes
	router.POST("/login", userController.AuthenticateUser)

	// Protected routes
	users := router.Group("/admin/usuarios")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", userController.GetAllUsers)
		users.POST("", userController.CreateUser)
		users.DELETE("/:id", userController.DeleteUser)
	}
}
