package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"github.com/convocatorias/convocatorias-backend/src/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupDownloadRoutes(router *gin.Engine, store storage.FileStore, drive *utils.DriveClient) {
	downloadController := controllers.NewDownloadController(store, drive)

	// Public routes
	router.GET("/descargas", downloadController.Download)
}

// SetupMetricsRoutes exposes the Prometheus registry.
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
