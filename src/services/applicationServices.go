package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/metrics"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationService struct {
	db      *gorm.DB
	catalog *CatalogService
	now     func() time.Time
}

// NewApplicationService creates a new instance of ApplicationService
func NewApplicationService(db *gorm.DB, catalog *CatalogService) *ApplicationService {
	return &ApplicationService{db: db, catalog: catalog, now: time.Now}
}

// ApplyOutcome reports, per offering, what happened when applying.
type ApplyOutcome struct {
	Applied []dtos.AppliedOfferingDTO
	Errors  []string
}

// insertApplication creates a pending application unless the pair already
// exists. It reports whether a row was created, and returns
// ErrApplicationWithdrawn when the existing row is soft-deleted.
func insertApplication(tx *gorm.DB, applicantID, offeringID int) (*models.ApplicationModel, bool, error) {
	application := models.ApplicationModel{
		ApplicantID: applicantID,
		OfferingID:  offeringID,
		Status:      models.StatusPending,
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "postulante_id"}, {Name: "oferta_id"}},
		DoNothing: true,
	}).Create(&application)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		var existing models.ApplicationModel
		err := tx.Unscoped().
			Where("postulante_id = ? AND oferta_id = ?", applicantID, offeringID).
			First(&existing).Error
		if err != nil {
			return nil, false, err
		}
		if existing.DeletedAt.Valid {
			return nil, false, ErrApplicationWithdrawn
		}
		return &existing, false, nil
	}
	metrics.ApplicationsCreated.Inc()
	return &application, true, nil
}

// applyToOfferings find-or-creates an application for every offering id in
// order. Missing and closed offerings become per-item errors; an existing
// application is an error only when duplicateIsError is set.
func (s *ApplicationService) applyToOfferings(tx *gorm.DB, applicant *models.ApplicantModel, offeringIDs []int, duplicateIsError bool) (*ApplyOutcome, error) {
	outcome := &ApplyOutcome{Applied: []dtos.AppliedOfferingDTO{}, Errors: []string{}}
	now := s.now()

	for _, id := range offeringIDs {
		offering, err := s.catalog.GetOffering(tx, id)
		if err != nil {
			if errors.Is(err, ErrOfferingNotFound) {
				metrics.OfferingRejections.WithLabelValues("not_found").Inc()
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("Oferta no encontrada: %d", id))
				continue
			}
			return nil, err
		}

		position, site := offering.Label()
		if offering.Call == nil || !offering.Call.IsOpen(now) {
			metrics.OfferingRejections.WithLabelValues("closed").Inc()
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("Convocatoria cerrada para %s en %s", position, site))
			continue
		}

		_, created, err := insertApplication(tx, applicant.ID, offering.ID)
		if errors.Is(err, ErrApplicationWithdrawn) {
			metrics.OfferingRejections.WithLabelValues("withdrawn").Inc()
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("La postulación para %s en %s fue retirada", position, site))
			continue
		}
		if err != nil {
			return nil, err
		}
		if !created && duplicateIsError {
			metrics.OfferingRejections.WithLabelValues("duplicate").Inc()
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("Ya tiene una postulación para %s en %s", position, site))
			continue
		}

		outcome.Applied = append(outcome.Applied, dtos.AppliedOfferingDTO{
			OfferingID: offering.ID,
			Position:   position,
			Site:       site,
			Existing:   !created,
		})
	}
	return outcome, nil
}

// CreateApplication applies an applicant to one offering.
func (s *ApplicationService) CreateApplication(ctx context.Context, applicantID, offeringID int) (*models.ApplicationModel, error) {
	var application *models.ApplicationModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var applicant models.ApplicantModel
		if err := tx.First(&applicant, applicantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicantNotFound
			}
			return err
		}

		offering, err := s.catalog.GetOffering(tx, offeringID)
		if err != nil {
			return err
		}
		if offering.Call == nil || !offering.Call.IsOpen(s.now()) {
			return ErrOfferingClosed
		}

		created, ok, err := insertApplication(tx, applicantID, offeringID)
		if errors.Is(err, ErrApplicationWithdrawn) {
			return ErrDuplicateApplication
		}
		if err != nil {
			return err
		}
		if !ok {
			return ErrDuplicateApplication
		}
		application = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetApplication(ctx, application.ID)
}

// TransitionStatus moves an application to status. Any status may follow
// any other; notes replace the previous ones only when given.
func (s *ApplicationService) TransitionStatus(ctx context.Context, id int, status models.ApplicationStatus, notes *string) (*models.ApplicationModel, error) {
	if !status.Valid() {
		names := make([]string, len(models.ApplicationStatuses))
		for i, st := range models.ApplicationStatuses {
			names[i] = string(st)
		}
		return nil, NewValidationError("estado", "debe ser uno de: "+strings.Join(names, " "))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application models.ApplicationModel
		if err := forUpdate(tx).First(&application, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}

		updates := map[string]interface{}{"estado": status}
		if notes != nil {
			updates["observaciones"] = *notes
		}
		return tx.Model(&application).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(status)).Inc()
	log.Printf("[POSTULACIONES] application %d moved to %s", id, status)
	return s.GetApplication(ctx, id)
}

func (s *ApplicationService) withRelations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Applicant").
		Preload("Offering.Call").
		Preload("Offering.Site").
		Preload("Offering.Position")
}

// filtered applies the admin filters; all are AND-combined.
func filtered(tx *gorm.DB, filter dtos.ApplicationFilter) *gorm.DB {
	if filter.CallID != nil || filter.SiteID != nil || filter.PositionID != nil {
		tx = tx.Joins("JOIN convocatoria_sede_cargo ON convocatoria_sede_cargo.id = postulaciones.oferta_id")
	}
	if filter.CallID != nil {
		tx = tx.Where("convocatoria_sede_cargo.convocatoria_id = ?", *filter.CallID)
	}
	if filter.SiteID != nil {
		tx = tx.Where("convocatoria_sede_cargo.sede_id = ?", *filter.SiteID)
	}
	if filter.PositionID != nil {
		tx = tx.Where("convocatoria_sede_cargo.cargo_id = ?", *filter.PositionID)
	}
	if filter.Status != nil {
		tx = tx.Where("postulaciones.estado = ?", *filter.Status)
	}
	return tx
}

// ListApplications returns applications matching filter, newest first.
func (s *ApplicationService) ListApplications(ctx context.Context, filter dtos.ApplicationFilter) ([]models.ApplicationModel, error) {
	var applications []models.ApplicationModel
	err := filtered(s.withRelations(s.db.WithContext(ctx)), filter).
		Order("postulaciones.created_at DESC").
		Order("postulaciones.id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}
	return applications, nil
}

// GetApplication returns one application with applicant and offering.
func (s *ApplicationService) GetApplication(ctx context.Context, id int) (*models.ApplicationModel, error) {
	var application models.ApplicationModel
	if err := s.withRelations(s.db.WithContext(ctx)).First(&application, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &application, nil
}

// CallStatistics counts the applications of a call per status, site and position.
func (s *ApplicationService) CallStatistics(ctx context.Context, callID int) (*dtos.CallStatisticsDTO, error) {
	db := s.db.WithContext(ctx)

	var call models.CallModel
	if err := db.First(&call, callID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCallNotFound
		}
		return nil, err
	}

	var offerings int64
	if err := db.Model(&models.OfferingModel{}).Where("convocatoria_id = ?", callID).Count(&offerings).Error; err != nil {
		return nil, err
	}

	applications, err := s.ListApplications(ctx, dtos.ApplicationFilter{CallID: &callID})
	if err != nil {
		return nil, err
	}

	stats := &dtos.CallStatisticsDTO{
		TotalOfferings:    int(offerings),
		TotalApplications: len(applications),
		ByStatus:          map[string]int{},
		BySite:            map[string]int{},
		ByPosition:        map[string]int{},
	}
	for _, st := range models.ApplicationStatuses {
		stats.ByStatus[string(st)] = 0
	}
	for _, a := range applications {
		stats.ByStatus[string(a.Status)]++
		if a.Offering != nil {
			position, site := a.Offering.Label()
			stats.BySite[site]++
			stats.ByPosition[position]++
		}
	}
	return stats, nil
}

// SendApplications applies an already registered applicant with a dossier
// to several offerings. Existing applications are reported as errors.
func (s *ApplicationService) SendApplications(ctx context.Context, ci string, offeringIDs []int) (*ApplyOutcome, error) {
	if strings.TrimSpace(ci) == "" {
		return nil, NewValidationError("ci", "es obligatorio")
	}
	if len(offeringIDs) == 0 {
		return nil, NewValidationError("ofertas", "debe seleccionar al menos una oferta")
	}

	var outcome *ApplyOutcome
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicant, err := findApplicant(tx, ci)
		if err != nil {
			return err
		}

		var educations int64
		if err := tx.Model(&models.EducationModel{}).Where("postulante_id = ?", applicant.ID).Count(&educations).Error; err != nil {
			return err
		}
		if educations == 0 {
			return ErrDossierRequired
		}

		outcome, err = s.applyToOfferings(tx, applicant, offeringIDs, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(outcome.Applied) == 0 {
		return outcome, ErrNoApplicationsCreated
	}
	return outcome, nil
}
