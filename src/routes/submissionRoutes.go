package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

func SetupSubmissionRoutes(router *gin.Engine, service *services.SubmissionService, maxUpload int64) {
	submissionController := controllers.NewSubmissionController(service, maxUpload)

	// Public routes
	router.POST("/postulante/proceso-completo", submissionController.SubmitComplete)
}
