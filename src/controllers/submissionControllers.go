package controllers

import (
	"errors"
	"net/http"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	service   *services.SubmissionService
	maxUpload int64
}

func NewSubmissionController(service *services.SubmissionService, maxUpload int64) *SubmissionController {
	return &SubmissionController{service: service, maxUpload: maxUpload}
}

// SubmitComplete handles POST /postulante/proceso-completo
func (c *SubmissionController) SubmitComplete(ctx *gin.Context) {
	var req dtos.SubmissionDTO
	form, err := bindPayload(ctx, c.maxUpload, &req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.Files = applicantFiles(form)
	attachSectionFiles(form, &req.DossierSectionsDTO)
	attachDocumentFiles(form, req.Documents)

	result, err := c.service.Submit(ctx.Request.Context(), req)
	if errors.Is(err, services.ErrNoApplicationsCreated) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": "No se pudo procesar la postulación. Verifique que la convocatoria esté abierta.",
			"errores": result.Errors,
		})
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":       "Postulación completada exitosamente",
		"postulante":    result.Applicant,
		"postulaciones": result.Applications,
		"errores":       result.Errors,
	})
}
