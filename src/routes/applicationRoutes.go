package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/middleware"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

func SetupApplicationRoutes(router *gin.Engine, service *services.ApplicationService) {
	applicationController := controllers.NewApplicationController(service)

	// Protected routes
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/postulaciones", applicationController.ListApplications)
		admin.POST("/postulaciones", applicationController.CreateApplication)
		admin.GET("/postulaciones/:id", applicationController.GetApplication)
		admin.PATCH("/postulaciones/:id/estado", applicationController.TransitionStatus)
		admin.GET("/convocatorias/:id/estadisticas", applicationController.CallStatistics)
	}
}
