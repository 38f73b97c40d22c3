package services

import (
	"context"
	"testing"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ApplicationServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ApplicationService
	fixture *catalogFixture
	ctx     context.Context
}

func (s *ApplicationServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.service = newApplicationService(s.db)
	s.fixture = seedCatalog(s.T(), s.db)
	s.ctx = context.Background()
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceSuite))
}

func (s *ApplicationServiceSuite) TestCreateApplication() {
	applicant := registerWithDossier(s.T(), s.db, "12345678")

	s.Run("creates a pending application", func() {
		application, err := s.service.CreateApplication(s.ctx, applicant.ID, s.fixture.openMath.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, application.Status)
		s.Require().NotNil(application.Offering)
		s.Equal("Sede Central", application.Offering.Site.Name)
		s.Require().NotNil(application.Applicant)
		s.Equal("12345678", application.Applicant.NationalID)
	})

	s.Run("rejects a duplicate pair", func() {
		_, err := s.service.CreateApplication(s.ctx, applicant.ID, s.fixture.openMath.ID)
		s.ErrorIs(err, ErrDuplicateApplication)
	})

	s.Run("a withdrawn application still blocks the pair", func() {
		withdrawn, err := s.service.CreateApplication(s.ctx, applicant.ID, s.fixture.openSystems.ID)
		s.Require().NoError(err)
		s.Require().NoError(s.db.Delete(&models.ApplicationModel{}, withdrawn.ID).Error)

		_, err = s.service.CreateApplication(s.ctx, applicant.ID, s.fixture.openSystems.ID)
		s.ErrorIs(err, ErrDuplicateApplication)
	})

	s.Run("rejects closed offerings", func() {
		_, err := s.service.CreateApplication(s.ctx, applicant.ID, s.fixture.closedMath.ID)
		s.ErrorIs(err, ErrOfferingClosed)
	})

	s.Run("unknown applicant or offering", func() {
		_, err := s.service.CreateApplication(s.ctx, 9999, s.fixture.openMath.ID)
		s.ErrorIs(err, ErrApplicantNotFound)

		_, err = s.service.CreateApplication(s.ctx, applicant.ID, 9999)
		s.ErrorIs(err, ErrOfferingNotFound)
	})
}

func (s *ApplicationServiceSuite) TestTransitionStatus() {
	applicant := registerWithDossier(s.T(), s.db, "500")
	application, err := s.service.CreateApplication(s.ctx, applicant.ID, s.fixture.openMath.ID)
	s.Require().NoError(err)

	s.Run("any status may follow any other", func() {
		updated, err := s.service.TransitionStatus(s.ctx, application.ID, models.StatusObserved, strPtr("Falta título"))
		s.Require().NoError(err)
		s.Equal(models.StatusObserved, updated.Status)

		updated, err = s.service.TransitionStatus(s.ctx, application.ID, models.StatusEnabled, strPtr("Cumple requisitos"))
		s.Require().NoError(err)
		s.Equal(models.StatusEnabled, updated.Status)
		s.Require().NotNil(updated.Notes)
		s.Equal("Cumple requisitos", *updated.Notes)
	})

	s.Run("keeps notes when none are given", func() {
		updated, err := s.service.TransitionStatus(s.ctx, application.ID, models.StatusSelected, nil)
		s.Require().NoError(err)
		s.Equal(models.StatusSelected, updated.Status)
		s.Require().NotNil(updated.Notes)
		s.Equal("Cumple requisitos", *updated.Notes)
	})

	s.Run("rejects unknown statuses", func() {
		_, err := s.service.TransitionStatus(s.ctx, application.ID, "aprobado", nil)
		var verr *ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Contains(verr.Fields, "estado")
	})

	s.Run("unknown application", func() {
		_, err := s.service.TransitionStatus(s.ctx, 9999, models.StatusRejected, nil)
		s.ErrorIs(err, ErrApplicationNotFound)
	})
}

func (s *ApplicationServiceSuite) TestListAndStatistics() {
	first := registerWithDossier(s.T(), s.db, "601")
	second := registerWithDossier(s.T(), s.db, "602")

	a1, err := s.service.CreateApplication(s.ctx, first.ID, s.fixture.openMath.ID)
	s.Require().NoError(err)
	_, err = s.service.CreateApplication(s.ctx, first.ID, s.fixture.openSystems.ID)
	s.Require().NoError(err)
	_, err = s.service.CreateApplication(s.ctx, second.ID, s.fixture.openMath.ID)
	s.Require().NoError(err)
	_, err = s.service.TransitionStatus(s.ctx, a1.ID, models.StatusEnabled, nil)
	s.Require().NoError(err)

	s.Run("filters are combined", func() {
		all, err := s.service.ListApplications(s.ctx, dtos.ApplicationFilter{})
		s.Require().NoError(err)
		s.Len(all, 3)

		site := s.fixture.central.ID
		bySite, err := s.service.ListApplications(s.ctx, dtos.ApplicationFilter{SiteID: &site})
		s.Require().NoError(err)
		s.Len(bySite, 2)

		status := models.StatusEnabled
		enabled, err := s.service.ListApplications(s.ctx, dtos.ApplicationFilter{SiteID: &site, Status: &status})
		s.Require().NoError(err)
		s.Require().Len(enabled, 1)
		s.Equal(a1.ID, enabled[0].ID)

		position := s.fixture.systems.ID
		bySystems, err := s.service.ListApplications(s.ctx, dtos.ApplicationFilter{PositionID: &position})
		s.Require().NoError(err)
		s.Len(bySystems, 1)
	})

	s.Run("call statistics count every status", func() {
		stats, err := s.service.CallStatistics(s.ctx, s.fixture.openCall.ID)
		s.Require().NoError(err)
		s.Equal(2, stats.TotalOfferings)
		s.Equal(3, stats.TotalApplications)
		s.Len(stats.ByStatus, len(models.ApplicationStatuses))
		s.Equal(2, stats.ByStatus["pendiente"])
		s.Equal(1, stats.ByStatus["habilitado"])
		s.Equal(0, stats.ByStatus["rechazado"])
		s.Equal(2, stats.BySite["Sede Central"])
		s.Equal(1, stats.ByPosition["Docente de Sistemas"])
	})

	s.Run("unknown call", func() {
		_, err := s.service.CallStatistics(s.ctx, 9999)
		s.ErrorIs(err, ErrCallNotFound)
	})
}

func (s *ApplicationServiceSuite) TestSendApplications() {
	s.Run("requires a dossier", func() {
		_, err := NewApplicantService(s.db, newMemStore()).UpsertApplicant(s.ctx, personalData("700"), dtos.ApplicantFiles{})
		s.Require().NoError(err)

		_, err = s.service.SendApplications(s.ctx, "700", []int{s.fixture.openMath.ID})
		s.ErrorIs(err, ErrDossierRequired)
	})

	s.Run("reports per-offering failures and applies the rest", func() {
		registerWithDossier(s.T(), s.db, "701")

		outcome, err := s.service.SendApplications(s.ctx, "701", []int{s.fixture.openMath.ID, s.fixture.closedMath.ID, 4242})
		s.Require().NoError(err)
		s.Require().Len(outcome.Applied, 1)
		s.Equal(s.fixture.openMath.ID, outcome.Applied[0].OfferingID)
		s.Equal([]string{
			"Convocatoria cerrada para Docente de Matemáticas en Sede Central",
			"Oferta no encontrada: 4242",
		}, outcome.Errors)
	})

	s.Run("an existing application counts as a failure", func() {
		outcome, err := s.service.SendApplications(s.ctx, "701", []int{s.fixture.openMath.ID})
		s.Require().ErrorIs(err, ErrNoApplicationsCreated)
		s.Equal([]string{"Ya tiene una postulación para Docente de Matemáticas en Sede Central"}, outcome.Errors)
	})

	s.Run("requires offerings", func() {
		_, err := s.service.SendApplications(s.ctx, "701", nil)
		var verr *ValidationError
		s.ErrorAs(err, &verr)
	})
}
