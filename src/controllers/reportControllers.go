package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/services"
	"github.com/gin-gonic/gin"
)

type ReportController struct {
	service *services.ReportService
}

func NewReportController(service *services.ReportService) *ReportController {
	return &ReportController{service: service}
}

// Dashboard handles GET /admin/reportes?period=all|30|90|365
func (c *ReportController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.service.Dashboard(ctx.Request.Context(), ctx.DefaultQuery("period", "all"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dashboard)
}

// Export handles GET /admin/reportes/exportar
func (c *ReportController) Export(ctx *gin.Context) {
	filter, ok := applicationFilter(ctx)
	if !ok {
		return
	}

	f, err := c.service.ExportApplications(ctx.Request.Context(), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("postulaciones_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Status(http.StatusOK)
	if err := f.Write(ctx.Writer); err != nil {
		log.Printf("[REPORTES] could not write export: %v", err)
	}
}
