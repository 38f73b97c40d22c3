package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"gorm.io/gorm"
)

const (
	minYear = 1900
	maxYear = 2100

	// Experiences that ended before currentYear-experienceWindow are not stored.
	experienceWindow = 5
)

// sectionSpec describes how one dossier variant is filtered, keyed and stored.
// I is the incoming item, M the persisted row.
type sectionSpec[I any, M any] struct {
	variant models.DossierVariant
	// prepare applies defaults and reports whether the item is kept.
	prepare func(item I, now time.Time) (I, bool)
	years   func(item I) map[string]*int
	key     func(item I) map[string]interface{}
	file    func(item I) (*storage.Upload, *string)
	apply   func(row *M, applicantID int, item I, file *string)
}

// check filters the items and validates the kept ones. Years of skipped
// items are still range checked.
func (sp sectionSpec[I, M]) check(items []I, now time.Time) ([]I, *ValidationError) {
	verr := &ValidationError{}
	kept := make([]I, 0, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("%s.%d.", sp.variant, i)
		item, ok := sp.prepare(item, now)
		if !ok {
			for name, year := range sp.years(item) {
				if year != nil && (*year < minYear || *year > maxYear) {
					verr.add(prefix+name, "debe estar entre 1900 y 2100")
				}
			}
			continue
		}
		verr.merge(prefix, validateStruct(item))
		kept = append(kept, item)
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return kept, nil
}

// upsert stores every item, updating the row that shares its natural key.
// The attachment is the new upload, else the item's existing reference, else null.
func (sp sectionSpec[I, M]) upsert(tx *gorm.DB, batch *uploadBatch, applicant *models.ApplicantModel, items []I) error {
	dir := path.Join("expedientes", applicant.NationalID, string(sp.variant))
	for _, item := range items {
		var row M
		err := tx.Where("postulante_id = ?", applicant.ID).Where(sp.key(item)).First(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		upload, existing := sp.file(item)
		file, err := batch.resolve(dir, upload, existing)
		if err != nil {
			return err
		}

		sp.apply(&row, applicant.ID, item, file)
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("could not save %s: %w", sp.variant, err)
		}
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s = strings.TrimSpace(s); s == "" {
		return fallback
	}
	return s
}

var educationSpec = sectionSpec[dtos.EducationDTO, models.EducationModel]{
	variant: models.VariantEducation,
	prepare: func(item dtos.EducationDTO, _ time.Time) (dtos.EducationDTO, bool) {
		item.Title = strings.TrimSpace(item.Title)
		item.Institution = strings.TrimSpace(item.Institution)
		item.Level = strings.ToLower(strings.TrimSpace(item.Level))
		return item, item.Title != "" && item.Institution != ""
	},
	years: func(item dtos.EducationDTO) map[string]*int {
		return map[string]*int{"anio_emision": item.IssueYear}
	},
	key: func(item dtos.EducationDTO) map[string]interface{} {
		return map[string]interface{}{"titulo_profesion": item.Title, "universidad": item.Institution}
	},
	file: func(item dtos.EducationDTO) (*storage.Upload, *string) { return item.Upload, trimmed(item.File) },
	apply: func(row *models.EducationModel, applicantID int, item dtos.EducationDTO, file *string) {
		row.ApplicantID = applicantID
		row.Title = item.Title
		row.Institution = item.Institution
		row.Level = models.AcademicLevel(item.Level)
		row.IssueYear = *item.IssueYear
		row.File = file
	},
}

var experienceSpec = sectionSpec[dtos.ExperienceDTO, models.ExperienceModel]{
	variant: models.VariantExperience,
	prepare: func(item dtos.ExperienceDTO, now time.Time) (dtos.ExperienceDTO, bool) {
		item.Position = strings.TrimSpace(item.Position)
		item.Organization = strings.TrimSpace(item.Organization)
		if item.Position == "" || item.Organization == "" {
			return item, false
		}
		if item.EndYear != nil && *item.EndYear < now.Year()-experienceWindow {
			return item, false
		}
		return item, true
	},
	years: func(item dtos.ExperienceDTO) map[string]*int {
		return map[string]*int{"anio_inicio": item.StartYear, "anio_fin": item.EndYear}
	},
	key: func(item dtos.ExperienceDTO) map[string]interface{} {
		return map[string]interface{}{
			"cargo_desempenado":   item.Position,
			"empresa_institucion": item.Organization,
			"anio_inicio":         *item.StartYear,
		}
	},
	file: func(item dtos.ExperienceDTO) (*storage.Upload, *string) { return item.Upload, trimmed(item.File) },
	apply: func(row *models.ExperienceModel, applicantID int, item dtos.ExperienceDTO, file *string) {
		row.ApplicantID = applicantID
		row.Position = item.Position
		row.Organization = item.Organization
		row.StartYear = *item.StartYear
		row.EndYear = item.EndYear
		row.Duties = trimmed(item.Duties)
		row.File = file
	},
}

var trainingSpec = sectionSpec[dtos.TrainingDTO, models.TrainingModel]{
	variant: models.VariantTraining,
	prepare: func(item dtos.TrainingDTO, _ time.Time) (dtos.TrainingDTO, bool) {
		item.CourseName = strings.TrimSpace(item.CourseName)
		item.Institution = orDefault(item.Institution, "S/N")
		return item, item.CourseName != ""
	},
	years: func(item dtos.TrainingDTO) map[string]*int {
		return map[string]*int{"anio": item.Year}
	},
	key: func(item dtos.TrainingDTO) map[string]interface{} {
		return map[string]interface{}{"nombre_curso": item.CourseName, "institucion_emisora": item.Institution}
	},
	file: func(item dtos.TrainingDTO) (*storage.Upload, *string) { return item.Upload, trimmed(item.File) },
	apply: func(row *models.TrainingModel, applicantID int, item dtos.TrainingDTO, file *string) {
		row.ApplicantID = applicantID
		row.CourseName = item.CourseName
		row.Institution = item.Institution
		row.Hours = item.Hours
		row.Year = item.Year
		row.File = file
	},
}

var publicationSpec = sectionSpec[dtos.PublicationDTO, models.PublicationModel]{
	variant: models.VariantPublication,
	prepare: func(item dtos.PublicationDTO, _ time.Time) (dtos.PublicationDTO, bool) {
		item.Title = strings.TrimSpace(item.Title)
		item.Type = strings.ToLower(orDefault(item.Type, string(models.PublicationOther)))
		return item, item.Title != ""
	},
	years: func(item dtos.PublicationDTO) map[string]*int {
		return map[string]*int{"anio": item.Year}
	},
	key: func(item dtos.PublicationDTO) map[string]interface{} {
		return map[string]interface{}{"titulo": item.Title, "tipo": item.Type}
	},
	file: func(item dtos.PublicationDTO) (*storage.Upload, *string) { return item.Upload, trimmed(item.File) },
	apply: func(row *models.PublicationModel, applicantID int, item dtos.PublicationDTO, file *string) {
		row.ApplicantID = applicantID
		row.Title = item.Title
		row.Type = models.PublicationType(item.Type)
		row.Description = trimmed(item.Description)
		row.Year = item.Year
		row.File = file
	},
}

var awardSpec = sectionSpec[dtos.AwardDTO, models.AwardModel]{
	variant: models.VariantAward,
	prepare: func(item dtos.AwardDTO, _ time.Time) (dtos.AwardDTO, bool) {
		keep := strings.TrimSpace(item.Title) != "" || strings.TrimSpace(item.AwardType) != ""
		item.Title = orDefault(item.Title, "S/T")
		item.AwardType = orDefault(item.AwardType, "S/R")
		return item, keep
	},
	years: func(item dtos.AwardDTO) map[string]*int {
		return map[string]*int{"anio": item.Year}
	},
	key: func(item dtos.AwardDTO) map[string]interface{} {
		return map[string]interface{}{"titulo": item.Title, "tipo_reconocimiento": item.AwardType}
	},
	file: func(item dtos.AwardDTO) (*storage.Upload, *string) { return item.Upload, trimmed(item.File) },
	apply: func(row *models.AwardModel, applicantID int, item dtos.AwardDTO, file *string) {
		row.ApplicantID = applicantID
		row.Title = item.Title
		row.AwardType = item.AwardType
		row.GrantedBy = trimmed(item.GrantedBy)
		row.Year = item.Year
		row.File = file
	},
}

type DossierService struct {
	db    *gorm.DB
	store storage.FileStore
	now   func() time.Time
}

// NewDossierService creates a new instance of DossierService
func NewDossierService(db *gorm.DB, store storage.FileStore) *DossierService {
	return &DossierService{db: db, store: store, now: time.Now}
}

// CheckSections drops skippable items, applies defaults and validates the
// rest. The returned sections contain only items that will be stored.
func (s *DossierService) CheckSections(sections dtos.DossierSectionsDTO) (dtos.DossierSectionsDTO, *ValidationError) {
	now := s.now()
	verr := &ValidationError{}
	var out dtos.DossierSectionsDTO
	var e *ValidationError

	out.Educations, e = educationSpec.check(sections.Educations, now)
	verr.merge("", e)
	out.Experiences, e = experienceSpec.check(sections.Experiences, now)
	verr.merge("", e)
	out.Trainings, e = trainingSpec.check(sections.Trainings, now)
	verr.merge("", e)
	out.Publications, e = publicationSpec.check(sections.Publications, now)
	verr.merge("", e)
	out.Awards, e = awardSpec.check(sections.Awards, now)
	verr.merge("", e)

	if len(verr.Fields) > 0 {
		return dtos.DossierSectionsDTO{}, verr
	}
	return out, nil
}

// upsertSection stores one checked variant of the dossier inside tx.
func (s *DossierService) upsertSection(tx *gorm.DB, batch *uploadBatch, applicant *models.ApplicantModel, variant models.DossierVariant, sections dtos.DossierSectionsDTO) error {
	switch variant {
	case models.VariantEducation:
		return educationSpec.upsert(tx, batch, applicant, sections.Educations)
	case models.VariantExperience:
		return experienceSpec.upsert(tx, batch, applicant, sections.Experiences)
	case models.VariantTraining:
		return trainingSpec.upsert(tx, batch, applicant, sections.Trainings)
	case models.VariantPublication:
		return publicationSpec.upsert(tx, batch, applicant, sections.Publications)
	case models.VariantAward:
		return awardSpec.upsert(tx, batch, applicant, sections.Awards)
	}
	return fmt.Errorf("unknown dossier variant %q", variant)
}

func (s *DossierService) upsertSections(tx *gorm.DB, batch *uploadBatch, applicant *models.ApplicantModel, sections dtos.DossierSectionsDTO) error {
	for _, variant := range models.DossierVariants {
		if err := s.upsertSection(tx, batch, applicant, variant, sections); err != nil {
			return err
		}
	}
	return nil
}

// SaveDossier upserts dossier sections for an already registered applicant.
func (s *DossierService) SaveDossier(ctx context.Context, ci string, sections dtos.DossierSectionsDTO) (*models.ApplicantModel, error) {
	if strings.TrimSpace(ci) == "" {
		return nil, NewValidationError("ci", "es obligatorio")
	}
	checked, verr := s.CheckSections(sections)
	if verr != nil {
		return nil, verr
	}

	var applicantID int
	batch := newUploadBatch(s.store)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicant, err := findApplicant(tx, ci)
		if err != nil {
			return err
		}
		applicantID = applicant.ID
		return s.upsertSections(tx, batch, applicant, checked)
	})
	if err != nil {
		batch.discard()
		return nil, err
	}

	return s.LoadDossier(ctx, applicantID)
}

// LoadDossier returns the applicant with every dossier collection and document.
func (s *DossierService) LoadDossier(ctx context.Context, applicantID int) (*models.ApplicantModel, error) {
	return loadDossier(s.db.WithContext(ctx), applicantID)
}

func loadDossier(tx *gorm.DB, applicantID int) (*models.ApplicantModel, error) {
	var applicant models.ApplicantModel
	err := tx.
		Preload("Educations").
		Preload("Experiences").
		Preload("Trainings").
		Preload("Publications").
		Preload("Awards").
		Preload("Documents.DocumentType").
		First(&applicant, applicantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, err
	}
	return &applicant, nil
}

func deleteEntry[M any](tx *gorm.DB, applicantID, id int, file func(M) *string) (*string, error) {
	var row M
	if err := tx.Where("id = ? AND postulante_id = ?", id, applicantID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDossierEntryNotFound
		}
		return nil, err
	}
	if err := tx.Delete(&row).Error; err != nil {
		return nil, err
	}
	return file(row), nil
}

// DeleteEntry removes one dossier row owned by the applicant and its stored file.
func (s *DossierService) DeleteEntry(ctx context.Context, ci string, variantName string, id int) error {
	variant, ok := models.ParseDossierVariant(strings.TrimSpace(variantName))
	if !ok {
		return NewValidationError("tipo", "debe ser uno de: formacion experiencia capacitacion produccion reconocimiento")
	}
	if id <= 0 {
		return NewValidationError("id", "es obligatorio")
	}

	var file *string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		applicant, err := findApplicant(tx, ci)
		if err != nil {
			return err
		}
		switch variant {
		case models.VariantEducation:
			file, err = deleteEntry(tx, applicant.ID, id, func(m models.EducationModel) *string { return m.File })
		case models.VariantExperience:
			file, err = deleteEntry(tx, applicant.ID, id, func(m models.ExperienceModel) *string { return m.File })
		case models.VariantTraining:
			file, err = deleteEntry(tx, applicant.ID, id, func(m models.TrainingModel) *string { return m.File })
		case models.VariantPublication:
			file, err = deleteEntry(tx, applicant.ID, id, func(m models.PublicationModel) *string { return m.File })
		case models.VariantAward:
			file, err = deleteEntry(tx, applicant.ID, id, func(m models.AwardModel) *string { return m.File })
		}
		return err
	})
	if err != nil {
		return err
	}

	if file != nil {
		removeLater(s.store, []string{*file})
	}
	return nil
}
