package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

func SetupCatalogRoutes(router *gin.Engine, service *services.CatalogService) {
	catalogController := controllers.NewCatalogController(service)

	// Public routes
	router.GET("/convocatorias/abiertas", catalogController.OpenCalls)
	router.GET("/sedes/activas", catalogController.ActiveSites)
	router.GET("/cargos/activos", catalogController.ActivePositions)
	router.GET("/tipos-documento", catalogController.DocumentTypes)
	router.GET("/catalogos/niveles-academicos", catalogController.AcademicLevels)
}
