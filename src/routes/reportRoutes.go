package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/middleware"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

func SetupReportRoutes(router *gin.Engine, service *services.ReportService) {
	reportController := controllers.NewReportController(service)

	// Protected routes
	reports := router.Group("/admin/reportes")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("", reportController.Dashboard)
		reports.GET("/exportar", reportController.Export)
	}
}
