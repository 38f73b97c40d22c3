package dtos

import "github.com/convocatorias/convocatorias-backend/src/models"

type ChartDTO struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type NameTotalDTO struct {
	Name  string `json:"nombre"`
	Total int64  `json:"total"`
}

type OpenCallSummaryDTO struct {
	ID            int    `json:"id"`
	Title         string `json:"titulo"`
	Applications  int64  `json:"postulaciones"`
	DaysRemaining int    `json:"dias_restantes"`
}

// DashboardDTO is the admin reports landing payload.
type DashboardDTO struct {
	TotalApplications  int64                     `json:"total_postulaciones"`
	UniqueApplicants   int64                     `json:"postulantes_unicos"`
	OpenCalls          int64                     `json:"convocatorias_activas"`
	EnabledRate        float64                   `json:"tasa_habilitacion"`
	ByStatus           ChartDTO                  `json:"por_estado"`
	ByMonth            ChartDTO                  `json:"por_mes"`
	TopSites           []NameTotalDTO            `json:"top_sedes"`
	TopPositions       []NameTotalDTO            `json:"top_cargos"`
	Calls              []OpenCallSummaryDTO      `json:"convocatorias"`
	LatestApplications []models.ApplicationModel `json:"ultimas_postulaciones"`
}
