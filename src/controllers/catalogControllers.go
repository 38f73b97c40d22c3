package controllers

import (
	"net/http"

	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController(service *services.CatalogService) *CatalogController {
	return &CatalogController{service: service}
}

// OpenCalls handles GET /convocatorias/abiertas
func (c *CatalogController) OpenCalls(ctx *gin.Context) {
	calls, err := c.service.OpenCalls(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, calls)
}

// ActiveSites handles GET /sedes/activas
func (c *CatalogController) ActiveSites(ctx *gin.Context) {
	sites, err := c.service.ActiveSites(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, sites)
}

// ActivePositions handles GET /cargos/activos
func (c *CatalogController) ActivePositions(ctx *gin.Context) {
	positions, err := c.service.ActivePositions(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, positions)
}

// DocumentTypes handles GET /tipos-documento
func (c *CatalogController) DocumentTypes(ctx *gin.Context) {
	types, err := c.service.ActiveDocumentTypes(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, types)
}

// AcademicLevels handles GET /catalogos/niveles-academicos
func (c *CatalogController) AcademicLevels(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.service.AcademicLevels())
}
