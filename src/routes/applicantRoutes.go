package routes

import (
	"github.com/convocatorias/convocatorias-backend/src/controllers"
	"github.com/convocatorias/convocatorias-backend/src/middleware"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

func SetupApplicantRoutes(router *gin.Engine, applicants *services.ApplicantService, dossier *services.DossierService, applications *services.ApplicationService, maxUpload int64) {
	applicantController := controllers.NewApplicantController(applicants, dossier, applications, maxUpload)

	// Public routes
	router.POST("/check-ci", applicantController.CheckNationalID)
	router.POST("/consultar-estado", applicantController.StatusLookup)

	applicant := router.Group("/postulante")
	{
		applicant.POST("/registrar", applicantController.Register)
		applicant.POST("/expediente", applicantController.SaveDossier)
		applicant.DELETE("/expediente", applicantController.DeleteDossierEntry)
		applicant.POST("/enviar", applicantController.SendApplications)
	}

	// Protected routes
	admin := router.Group("/admin/postulantes")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.GET("/:id/expediente", applicantController.GetDossier)
	}
}
