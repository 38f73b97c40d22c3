package controllers

import (
	"net/http"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

type ApplicationController struct {
	service *services.ApplicationService
}

func NewApplicationController(service *services.ApplicationService) *ApplicationController {
	return &ApplicationController{service: service}
}

// applicationFilter reads convocatoria_id, sede_id, cargo_id and estado.
func applicationFilter(ctx *gin.Context) (dtos.ApplicationFilter, bool) {
	var filter dtos.ApplicationFilter
	var ok bool
	if filter.CallID, ok = queryInt(ctx, "convocatoria_id"); !ok {
		return filter, false
	}
	if filter.SiteID, ok = queryInt(ctx, "sede_id"); !ok {
		return filter, false
	}
	if filter.PositionID, ok = queryInt(ctx, "cargo_id"); !ok {
		return filter, false
	}
	if raw := ctx.Query("estado"); raw != "" {
		status := models.ApplicationStatus(raw)
		if !status.Valid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estado"})
			return filter, false
		}
		filter.Status = &status
	}
	return filter, true
}

// ListApplications handles GET /admin/postulaciones
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	filter, ok := applicationFilter(ctx)
	if !ok {
		return
	}
	applications, err := c.service.ListApplications(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, applications)
}

// GetApplication handles GET /admin/postulaciones/:id
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	application, err := c.service.GetApplication(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, application)
}

// CreateApplication handles POST /admin/postulaciones
func (c *ApplicationController) CreateApplication(ctx *gin.Context) {
	var req dtos.CreateApplicationDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	application, err := c.service.CreateApplication(ctx.Request.Context(), req.ApplicantID, req.OfferingID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, application)
}

// TransitionStatus handles PATCH /admin/postulaciones/:id/estado
func (c *ApplicationController) TransitionStatus(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req dtos.TransitionStatusDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	application, err := c.service.TransitionStatus(ctx.Request.Context(), id, req.Status, req.Notes)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Estado actualizado", "postulacion": application})
}

// CallStatistics handles GET /admin/convocatorias/:id/estadisticas
func (c *ApplicationController) CallStatistics(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	stats, err := c.service.CallStatistics(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
