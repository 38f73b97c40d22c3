package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicantService struct {
	db    *gorm.DB
	store storage.FileStore
}

// NewApplicantService creates a new instance of ApplicantService
func NewApplicantService(db *gorm.DB, store storage.FileStore) *ApplicantService {
	return &ApplicantService{db: db, store: store}
}

// forUpdate takes a row lock on dialects that support SELECT ... FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizePersonalData(data dtos.PersonalDataDTO) dtos.PersonalDataDTO {
	data.NationalID = strings.TrimSpace(data.NationalID)
	data.FirstNames = strings.TrimSpace(data.FirstNames)
	data.LastNames = strings.TrimSpace(data.LastNames)
	data.Phone = strings.TrimSpace(data.Phone)
	data.IssuedIn = trimmed(data.IssuedIn)
	data.Email = trimmed(data.Email)
	data.BirthDate = trimmed(data.BirthDate)
	data.Gender = trimmed(data.Gender)
	data.Nationality = trimmed(data.Nationality)
	data.Address = trimmed(data.Address)
	return data
}

// ValidatePersonalData normalizes and checks the personal fields.
func ValidatePersonalData(data dtos.PersonalDataDTO) (dtos.PersonalDataDTO, *ValidationError) {
	data = normalizePersonalData(data)
	return data, validateStruct(data)
}

// UpsertApplicant creates or updates the applicant identified by data.NationalID.
func (s *ApplicantService) UpsertApplicant(ctx context.Context, data dtos.PersonalDataDTO, files dtos.ApplicantFiles) (*models.ApplicantModel, error) {
	data, verr := ValidatePersonalData(data)
	if verr != nil {
		return nil, verr
	}

	batch := newUploadBatch(s.store)
	var applicant *models.ApplicantModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		applicant, err = s.upsert(tx, batch, data, files)
		return err
	})
	if err != nil {
		batch.discard()
		return nil, err
	}
	return applicant, nil
}

// upsert runs inside the caller's transaction. data must be validated.
func (s *ApplicantService) upsert(tx *gorm.DB, batch *uploadBatch, data dtos.PersonalDataDTO, files dtos.ApplicantFiles) (*models.ApplicantModel, error) {
	placeholder := models.ApplicantModel{
		NationalID: data.NationalID,
		FirstNames: data.FirstNames,
		LastNames:  data.LastNames,
		Phone:      data.Phone,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ci"}},
		DoNothing: true,
	}).Create(&placeholder).Error
	if err != nil {
		return nil, err
	}

	var applicant models.ApplicantModel
	if err := forUpdate(tx.Unscoped()).Where("ci = ?", data.NationalID).First(&applicant).Error; err != nil {
		return nil, err
	}

	applyPersonalData(&applicant, data)

	dir := "postulantes/" + data.NationalID
	if applicant.ProfilePhoto, err = batch.resolve(dir+"/fotos", files.Photo, applicant.ProfilePhoto); err != nil {
		return nil, err
	}
	if applicant.CoverLetterFile, err = batch.resolve(dir+"/cartas", files.CoverLetter, applicant.CoverLetterFile); err != nil {
		return nil, err
	}
	if applicant.CurriculumFile, err = batch.resolve(dir+"/curriculum", files.Curriculum, applicant.CurriculumFile); err != nil {
		return nil, err
	}
	if applicant.IDScanFile, err = batch.resolve(dir+"/ci", files.IDScan, applicant.IDScanFile); err != nil {
		return nil, err
	}

	// A soft-deleted applicant re-registering is restored.
	applicant.DeletedAt = gorm.DeletedAt{}
	if err := tx.Unscoped().Omit(clause.Associations).Save(&applicant).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

func applyPersonalData(applicant *models.ApplicantModel, data dtos.PersonalDataDTO) {
	applicant.IssuedIn = data.IssuedIn
	applicant.FirstNames = data.FirstNames
	applicant.LastNames = data.LastNames
	applicant.Email = data.Email
	applicant.Phone = data.Phone
	applicant.Nationality = data.Nationality
	applicant.Address = data.Address

	applicant.BirthDate = nil
	if data.BirthDate != nil {
		if t, err := time.Parse("2006-01-02", *data.BirthDate); err == nil {
			applicant.BirthDate = &t
		}
	}
	applicant.Gender = nil
	if data.Gender != nil {
		g := models.Gender(*data.Gender)
		applicant.Gender = &g
	}
}

// FindByNationalID returns the active applicant with the given CI.
func (s *ApplicantService) FindByNationalID(ctx context.Context, ci string) (*models.ApplicantModel, error) {
	return findApplicant(s.db.WithContext(ctx), ci)
}

func findApplicant(tx *gorm.DB, ci string) (*models.ApplicantModel, error) {
	var applicant models.ApplicantModel
	err := tx.Where("ci = ?", strings.TrimSpace(ci)).First(&applicant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, err
	}
	return &applicant, nil
}

// CheckNationalID tells the public form whether the CI is new or already
// registered, returning the stored dossier in the latter case.
func (s *ApplicantService) CheckNationalID(ctx context.Context, ci string) (*dtos.CheckNationalIDResponse, error) {
	if strings.TrimSpace(ci) == "" {
		return nil, NewValidationError("ci", "es obligatorio")
	}

	var applicant models.ApplicantModel
	err := s.db.WithContext(ctx).
		Preload("Educations").
		Preload("Experiences").
		Preload("Trainings").
		Preload("Publications").
		Preload("Awards").
		Where("ci = ?", strings.TrimSpace(ci)).
		First(&applicant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dtos.CheckNationalIDResponse{
				Status:  "nuevo",
				Message: "CI no registrado. Por favor complete sus datos.",
			}, nil
		}
		return nil, err
	}

	hasDossier := len(applicant.Educations) > 0
	return &dtos.CheckNationalIDResponse{
		Status:     "existente",
		Applicant:  &applicant,
		HasDossier: &hasDossier,
	}, nil
}

// ApplicationStatusByNationalID lists the applicant's applications, newest first.
func (s *ApplicantService) ApplicationStatusByNationalID(ctx context.Context, ci string) (*dtos.StatusLookupResponse, error) {
	if strings.TrimSpace(ci) == "" {
		return nil, NewValidationError("ci", "es obligatorio")
	}

	applicant, err := s.FindByNationalID(ctx, ci)
	if err != nil {
		if errors.Is(err, ErrApplicantNotFound) {
			return &dtos.StatusLookupResponse{
				Found:   false,
				Message: "No se encontraron postulaciones con este CI.",
			}, nil
		}
		return nil, err
	}

	var applications []models.ApplicationModel
	err = s.db.WithContext(ctx).
		Preload("Offering.Call").
		Preload("Offering.Site").
		Preload("Offering.Position").
		Where("postulante_id = ?", applicant.ID).
		Order("created_at DESC").Order("id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, err
	}

	items := make([]dtos.ApplicationStatusDTO, 0, len(applications))
	for _, a := range applications {
		item := dtos.ApplicationStatusDTO{
			ID:         a.ID,
			Call:       "-",
			Position:   "-",
			Site:       "-",
			Status:     a.Status,
			StatusText: a.Status.Label(),
			Notes:      a.Notes,
			Date:       a.CreatedAt.Format("02/01/2006"),
		}
		if a.Offering != nil {
			item.Position, item.Site = a.Offering.Label()
			if a.Offering.Call != nil {
				item.Call = a.Offering.Call.Title
			}
		}
		items = append(items, item)
	}

	return &dtos.StatusLookupResponse{
		Found: true,
		Applicant: &dtos.ApplicantSummaryDTO{
			Name:       applicant.FullName(),
			NationalID: applicant.NationalID,
		},
		Applications: items,
	}, nil
}
