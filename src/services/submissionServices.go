package services

import (
	"context"
	"errors"
	"log"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/metrics"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"gorm.io/gorm"
)

// SubmissionService runs the complete public application process.
type SubmissionService struct {
	db           *gorm.DB
	store        storage.FileStore
	applicants   *ApplicantService
	dossier      *DossierService
	documents    *DocumentService
	applications *ApplicationService
}

// SubmissionResult is returned after commit, also when no offering was applied.
type SubmissionResult struct {
	Applicant    *models.ApplicantModel
	Applications []dtos.AppliedOfferingDTO
	Errors       []string
}

func NewSubmissionService(db *gorm.DB, store storage.FileStore, applicants *ApplicantService, dossier *DossierService, documents *DocumentService, applications *ApplicationService) *SubmissionService {
	return &SubmissionService{
		db:           db,
		store:        store,
		applicants:   applicants,
		dossier:      dossier,
		documents:    documents,
		applications: applications,
	}
}

// Submit validates the whole request, then in one transaction upserts the
// applicant, the dossier and the required documents and applies to every
// offering. When no offering could be applied the writes stay committed
// and ErrNoApplicationsCreated is returned along with the result.
func (s *SubmissionService) Submit(ctx context.Context, req dtos.SubmissionDTO) (*SubmissionResult, error) {
	verr := &ValidationError{}

	personal, perr := ValidatePersonalData(req.PersonalDataDTO)
	verr.merge("", perr)

	sections, serr := s.dossier.CheckSections(req.DossierSectionsDTO)
	verr.merge("", serr)

	docs, err := s.documents.CheckDocuments(ctx, req.Documents)
	if err != nil {
		var derr *ValidationError
		if !errors.As(err, &derr) {
			return nil, err
		}
		verr.merge("", derr)
	}

	if len(req.OfferingIDs) == 0 {
		verr.add("ofertas", "debe seleccionar al menos una oferta")
	}
	if len(verr.Fields) > 0 {
		metrics.SubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, verr
	}

	var applicantID int
	var outcome *ApplyOutcome
	batch := newUploadBatch(s.store)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicant, err := s.applicants.upsert(tx, batch, personal, req.Files)
		if err != nil {
			return err
		}
		applicantID = applicant.ID

		if err := s.dossier.upsertSections(tx, batch, applicant, sections); err != nil {
			return err
		}
		if err := s.documents.replaceDocuments(tx, batch, applicant, docs); err != nil {
			return err
		}

		outcome, err = s.applications.applyToOfferings(tx, applicant, req.OfferingIDs, false)
		return err
	})
	if err != nil {
		batch.discard()
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		log.Printf("[SUBMISSION] ci %s rolled back: %v", personal.NationalID, err)
		return nil, err
	}

	applicant, err := s.dossier.LoadDossier(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	result := &SubmissionResult{
		Applicant:    applicant,
		Applications: outcome.Applied,
		Errors:       outcome.Errors,
	}
	if len(outcome.Applied) == 0 {
		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		log.Printf("[SUBMISSION] ci %s: no application created: %v", personal.NationalID, outcome.Errors)
		return result, ErrNoApplicationsCreated
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	log.Printf("[SUBMISSION] ci %s applied to %d offering(s)", personal.NationalID, len(outcome.Applied))
	return result, nil
}
