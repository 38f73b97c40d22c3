package dtos

import "github.com/convocatorias/convocatorias-backend/src/models"

// AppliedOfferingDTO names an offering the applicant is now applied to.
type AppliedOfferingDTO struct {
	OfferingID int    `json:"oferta_id"`
	Position   string `json:"cargo"`
	Site       string `json:"sede"`
	Existing   bool   `json:"ya_existia"`
}

// ApplicationFilter narrows the admin listing; nil fields are ignored.
type ApplicationFilter struct {
	CallID     *int
	SiteID     *int
	PositionID *int
	Status     *models.ApplicationStatus
}

type CreateApplicationDTO struct {
	ApplicantID int `json:"postulante_id"`
	OfferingID  int `json:"oferta_id"`
}

type TransitionStatusDTO struct {
	Status models.ApplicationStatus `json:"estado"`
	Notes  *string                  `json:"observaciones"`
}

type CheckNationalIDResponse struct {
	Status     string                 `json:"status"`
	Message    string                 `json:"message,omitempty"`
	Applicant  *models.ApplicantModel `json:"postulante,omitempty"`
	HasDossier *bool                  `json:"tiene_expediente,omitempty"`
}

// ApplicationStatusDTO is the public view of one application.
type ApplicationStatusDTO struct {
	ID         int                      `json:"id"`
	Call       string                   `json:"convocatoria"`
	Position   string                   `json:"cargo"`
	Site       string                   `json:"sede"`
	Status     models.ApplicationStatus `json:"estado"`
	StatusText string                   `json:"estado_texto"`
	Notes      *string                  `json:"observaciones"`
	Date       string                   `json:"fecha"`
}

type StatusLookupResponse struct {
	Found        bool                   `json:"encontrado"`
	Message      string                 `json:"message,omitempty"`
	Applicant    *ApplicantSummaryDTO   `json:"postulante,omitempty"`
	Applications []ApplicationStatusDTO `json:"postulaciones,omitempty"`
}

type ApplicantSummaryDTO struct {
	Name       string `json:"nombre"`
	NationalID string `json:"ci"`
}

// CallStatisticsDTO aggregates applications of one call.
type CallStatisticsDTO struct {
	TotalOfferings    int            `json:"total_ofertas"`
	TotalApplications int            `json:"total_postulaciones"`
	ByStatus          map[string]int `json:"por_estado"`
	BySite            map[string]int `json:"por_sede"`
	ByPosition        map[string]int `json:"por_cargo"`
}

// SitePositionsDTO groups the active offerings of a call by site.
type SitePositionsDTO struct {
	Site      *models.SiteModel    `json:"sede"`
	Positions []PositionVacancyDTO `json:"cargos"`
}

type PositionVacancyDTO struct {
	OfferingID int                   `json:"id"`
	Position   *models.PositionModel `json:"cargo"`
	Vacancies  int                   `json:"vacantes"`
}

type OpenCallDTO struct {
	Call            models.CallModel   `json:"convocatoria"`
	OfferingsBySite []SitePositionsDTO `json:"ofertas_por_sede"`
}

type LabelValueDTO struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
