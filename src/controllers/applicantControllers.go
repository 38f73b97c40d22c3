package controllers

import (
	"errors"
	"net/http"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

// ApplicantController serves the public, CI-keyed applicant endpoints.
type ApplicantController struct {
	applicants   *services.ApplicantService
	dossier      *services.DossierService
	applications *services.ApplicationService
	maxUpload    int64
}

func NewApplicantController(applicants *services.ApplicantService, dossier *services.DossierService, applications *services.ApplicationService, maxUpload int64) *ApplicantController {
	return &ApplicantController{
		applicants:   applicants,
		dossier:      dossier,
		applications: applications,
		maxUpload:    maxUpload,
	}
}

// CheckNationalID handles POST /check-ci
func (c *ApplicantController) CheckNationalID(ctx *gin.Context) {
	var req dtos.NationalIDDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := c.applicants.CheckNationalID(ctx.Request.Context(), req.NationalID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Register handles POST /postulante/registrar
func (c *ApplicantController) Register(ctx *gin.Context) {
	var req dtos.PersonalDataDTO
	form, err := bindPayload(ctx, c.maxUpload, &req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	applicant, err := c.applicants.UpsertApplicant(ctx.Request.Context(), req, applicantFiles(form))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Datos guardados exitosamente", "postulante": applicant})
}

// SaveDossier handles POST /postulante/expediente
func (c *ApplicantController) SaveDossier(ctx *gin.Context) {
	var req dtos.DossierDTO
	form, err := bindPayload(ctx, c.maxUpload, &req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attachSectionFiles(form, &req.DossierSectionsDTO)

	applicant, err := c.dossier.SaveDossier(ctx.Request.Context(), req.NationalID, req.DossierSectionsDTO)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Expediente guardado exitosamente", "postulante": applicant})
}

// DeleteDossierEntry handles DELETE /postulante/expediente
func (c *ApplicantController) DeleteDossierEntry(ctx *gin.Context) {
	var req dtos.DeleteDossierEntryDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := c.dossier.DeleteEntry(ctx.Request.Context(), req.NationalID, req.Variant, req.ID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Registro eliminado"})
}

// SendApplications handles POST /postulante/enviar
func (c *ApplicantController) SendApplications(ctx *gin.Context) {
	var req dtos.SendApplicationsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := c.applications.SendApplications(ctx.Request.Context(), req.NationalID, req.OfferingIDs)
	if errors.Is(err, services.ErrNoApplicationsCreated) {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{
			"message":       "No se pudieron enviar las postulaciones",
			"postulaciones": outcome.Applied,
			"errores":       outcome.Errors,
		})
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message":       "Postulaciones enviadas exitosamente",
		"postulaciones": outcome.Applied,
		"errores":       outcome.Errors,
	})
}

// StatusLookup handles POST /consultar-estado
func (c *ApplicantController) StatusLookup(ctx *gin.Context) {
	var req dtos.NationalIDDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := c.applicants.ApplicationStatusByNationalID(ctx.Request.Context(), req.NationalID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetDossier handles GET /admin/postulantes/:id/expediente
func (c *ApplicantController) GetDossier(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	applicant, err := c.dossier.LoadDossier(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, applicant)
}
