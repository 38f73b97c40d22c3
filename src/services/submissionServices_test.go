package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type SubmissionServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *memStore
	service *SubmissionService
	fixture *catalogFixture
	ctx     context.Context
}

func (s *SubmissionServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.store = newMemStore()
	s.service = NewSubmissionService(
		s.db,
		s.store,
		NewApplicantService(s.db, s.store),
		NewDossierService(s.db, s.store),
		NewDocumentService(s.db, s.store),
		newApplicationService(s.db),
	)
	s.fixture = seedCatalog(s.T(), s.db)
	s.ctx = context.Background()
}

func TestSubmissionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceSuite))
}

func (s *SubmissionServiceSuite) request(ci string, offerings ...int) dtos.SubmissionDTO {
	edu := bachelor("Ingeniería de Sistemas")
	edu.Upload = pdf("titulo.pdf")
	return dtos.SubmissionDTO{
		PersonalDataDTO: personalData(ci),
		DossierSectionsDTO: dtos.DossierSectionsDTO{
			Educations:  []dtos.EducationDTO{edu},
			Experiences: []dtos.ExperienceDTO{{Position: "Docente", Organization: "UMSA", StartYear: intPtr(2020)}},
		},
		Documents: []dtos.DocumentDTO{{
			DocumentTypeID: s.fixture.academic.ID,
			Metadata:       map[string]interface{}{"universidad": "UMSA", "fecha_titulo": "2015-12-01"},
			Upload:         pdf("diploma.pdf"),
		}},
		OfferingIDs: offerings,
		Files: dtos.ApplicantFiles{
			Photo:  pdf("foto.jpg"),
			IDScan: pdf("ci.pdf"),
		},
	}
}

func (s *SubmissionServiceSuite) count(model interface{}) int64 {
	var n int64
	s.Require().NoError(s.db.Model(model).Count(&n).Error)
	return n
}

func (s *SubmissionServiceSuite) TestSubmit() {
	s.Run("stores everything and applies to the offering", func() {
		result, err := s.service.Submit(s.ctx, s.request("12345678", s.fixture.openMath.ID))
		s.Require().NoError(err)

		s.Equal("12345678", result.Applicant.NationalID)
		s.Len(result.Applicant.Educations, 1)
		s.Len(result.Applicant.Experiences, 1)
		s.Require().Len(result.Applicant.Documents, 1)
		s.Require().NotNil(result.Applicant.Documents[0].DocumentType)
		s.Equal("FORMACIÓN ACADÉMICA", result.Applicant.Documents[0].DocumentType.Name)
		s.Require().NotNil(result.Applicant.ProfilePhoto)

		s.Require().Len(result.Applications, 1)
		s.Equal(dtos.AppliedOfferingDTO{
			OfferingID: 7,
			Position:   "Docente de Matemáticas",
			Site:       "Sede Central",
		}, result.Applications[0])
		s.Empty(result.Errors)

		var application models.ApplicationModel
		s.Require().NoError(s.db.Where("postulante_id = ? AND oferta_id = ?", result.Applicant.ID, 7).First(&application).Error)
		s.Equal(models.StatusPending, application.Status)
	})

	s.Run("submitting twice leaves one applicant, one dossier and one application", func() {
		second, err := s.service.Submit(s.ctx, s.request("12345678", s.fixture.openMath.ID))
		s.Require().NoError(err)
		s.Require().Len(second.Applications, 1)
		s.True(second.Applications[0].Existing)

		s.Equal(int64(1), s.count(&models.ApplicantModel{}))
		s.Equal(int64(1), s.count(&models.EducationModel{}))
		s.Equal(int64(1), s.count(&models.ExperienceModel{}))
		s.Equal(int64(1), s.count(&models.RequiredDocumentModel{}))
		s.Equal(int64(1), s.count(&models.ApplicationModel{}))
	})
}

func (s *SubmissionServiceSuite) TestConcurrentSubmissionsForOneCI() {
	const writers = 6
	names := make([]string, writers)
	results := make([]*SubmissionResult, writers)
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		names[i] = fmt.Sprintf("Postulante %d", i)
		req := s.request("12345678", s.fixture.openMath.ID)
		req.FirstNames = names[i]
		wg.Add(1)
		go func(i int, req dtos.SubmissionDTO) {
			defer wg.Done()
			results[i], errs[i] = s.service.Submit(s.ctx, req)
		}(i, req)
	}
	wg.Wait()

	created := 0
	for i := range errs {
		s.Require().NoError(errs[i], "submission %d", i)
		s.Require().Len(results[i].Applications, 1)
		if !results[i].Applications[0].Existing {
			created++
		}
	}
	s.Equal(1, created)

	s.Equal(int64(1), s.count(&models.ApplicantModel{}))
	s.Equal(int64(1), s.count(&models.EducationModel{}))
	s.Equal(int64(1), s.count(&models.ApplicationModel{}))

	var applicant models.ApplicantModel
	s.Require().NoError(s.db.Where("ci = ?", "12345678").First(&applicant).Error)
	s.Contains(names, applicant.FirstNames)
}

func (s *SubmissionServiceSuite) TestSubmitWithoutAnyOpenOffering() {
	result, err := s.service.Submit(s.ctx, s.request("222", s.fixture.closedMath.ID, 4242))
	s.Require().ErrorIs(err, ErrNoApplicationsCreated)
	s.Require().NotNil(result)
	s.Equal([]string{
		"Convocatoria cerrada para Docente de Matemáticas en Sede Central",
		"Oferta no encontrada: 4242",
	}, result.Errors)

	// The applicant and dossier are kept for a later attempt.
	s.Equal(int64(1), s.count(&models.ApplicantModel{}))
	s.Equal(int64(1), s.count(&models.EducationModel{}))
	s.Zero(s.count(&models.ApplicationModel{}))
}

func (s *SubmissionServiceSuite) TestSubmitReportsWithdrawnApplications() {
	first, err := s.service.Submit(s.ctx, s.request("444", s.fixture.openMath.ID))
	s.Require().NoError(err)
	s.Require().NoError(s.db.Where("postulante_id = ?", first.Applicant.ID).Delete(&models.ApplicationModel{}).Error)

	result, err := s.service.Submit(s.ctx, s.request("444", s.fixture.openMath.ID))
	s.Require().ErrorIs(err, ErrNoApplicationsCreated)
	s.Empty(result.Applications)
	s.Equal([]string{"La postulación para Docente de Matemáticas en Sede Central fue retirada"}, result.Errors)

	var applications []models.ApplicationModel
	s.Require().NoError(s.db.Unscoped().Where("postulante_id = ?", first.Applicant.ID).Find(&applications).Error)
	s.Require().Len(applications, 1)
	s.True(applications[0].DeletedAt.Valid)
}

func (s *SubmissionServiceSuite) TestSubmitMixedOfferings() {
	result, err := s.service.Submit(s.ctx, s.request("333", s.fixture.openMath.ID, s.fixture.closedMath.ID, s.fixture.openSystems.ID))
	s.Require().NoError(err)
	s.Len(result.Applications, 2)
	s.Len(result.Errors, 1)
}

func (s *SubmissionServiceSuite) TestSubmitValidation() {
	req := s.request("", s.fixture.openMath.ID)
	req.Educations[0].IssueYear = intPtr(1850)
	req.Documents[0].Metadata = map[string]interface{}{}
	req.OfferingIDs = nil

	_, err := s.service.Submit(s.ctx, req)
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "ci")
	s.Contains(verr.Fields, "formaciones.0.anio_emision")
	s.Contains(verr.Fields, "documentos.0.metadatos.universidad")
	s.Contains(verr.Fields, "ofertas")

	s.Zero(s.count(&models.ApplicantModel{}))
	s.Empty(s.store.files)
}

func (s *SubmissionServiceSuite) TestSubmitRollsBackOnStorageFailure() {
	s.store.failOn = "documentos"

	_, err := s.service.Submit(s.ctx, s.request("444", s.fixture.openMath.ID))
	s.Require().ErrorIs(err, ErrStorageFailure)

	s.Zero(s.count(&models.ApplicantModel{}))
	s.Zero(s.count(&models.EducationModel{}))
	s.Zero(s.count(&models.ApplicationModel{}))
	s.Empty(s.store.files)
	s.Len(s.store.removed, 3)
}
