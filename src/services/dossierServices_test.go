package services

import (
	"context"
	"testing"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type DossierServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *memStore
	service *DossierService
	ctx     context.Context
}

func (s *DossierServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.store = newMemStore()
	s.service = NewDossierService(s.db, s.store)
	s.service.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local) }
	s.ctx = context.Background()
}

func TestDossierServiceSuite(t *testing.T) {
	suite.Run(t, new(DossierServiceSuite))
}

func (s *DossierServiceSuite) TestCheckSections() {
	s.Run("drops items missing their identifying fields", func() {
		out, verr := s.service.CheckSections(dtos.DossierSectionsDTO{
			Educations:   []dtos.EducationDTO{bachelor("Ingeniería"), {Level: "maestria", Title: "  ", IssueYear: intPtr(2020)}},
			Trainings:    []dtos.TrainingDTO{{CourseName: ""}, {CourseName: "Docker"}},
			Publications: []dtos.PublicationDTO{{Title: ""}, {Title: "Compiladores"}},
			Awards:       []dtos.AwardDTO{{}, {Title: "Mejor docente"}},
		})
		s.Require().Nil(verr)
		s.Len(out.Educations, 1)
		s.Require().Len(out.Trainings, 1)
		s.Equal("S/N", out.Trainings[0].Institution)
		s.Require().Len(out.Publications, 1)
		s.Equal("otro", out.Publications[0].Type)
		s.Require().Len(out.Awards, 1)
		s.Equal("S/R", out.Awards[0].AwardType)
	})

	s.Run("keeps experiences inside the five year window", func() {
		out, verr := s.service.CheckSections(dtos.DossierSectionsDTO{
			Experiences: []dtos.ExperienceDTO{
				{Position: "Docente", Organization: "UPEA", StartYear: intPtr(2010), EndYear: intPtr(2019)},
				{Position: "Docente", Organization: "UMSA", StartYear: intPtr(2015), EndYear: intPtr(2020)},
				{Position: "Analista", Organization: "ENTEL", StartYear: intPtr(2018), EndYear: intPtr(2021)},
				{Position: "Jefe", Organization: "YPFB", StartYear: intPtr(2022)},
			},
		})
		s.Require().Nil(verr)
		s.Require().Len(out.Experiences, 3)
		s.Equal("UMSA", out.Experiences[0].Organization)
		s.Equal("ENTEL", out.Experiences[1].Organization)
		s.Nil(out.Experiences[2].EndYear)
	})

	s.Run("range checks years of skipped items", func() {
		_, verr := s.service.CheckSections(dtos.DossierSectionsDTO{
			Experiences: []dtos.ExperienceDTO{
				{Position: "Docente", Organization: "UPEA", StartYear: intPtr(1800), EndYear: intPtr(1801)},
			},
		})
		s.Require().NotNil(verr)
		s.Contains(verr.Fields, "experiencias.0.anio_inicio")
	})

	s.Run("reports indexed field errors", func() {
		_, verr := s.service.CheckSections(dtos.DossierSectionsDTO{
			Educations: []dtos.EducationDTO{
				bachelor("Ingeniería"),
				{Level: "bachiller", Title: "Contaduría", Institution: "UCB", IssueYear: intPtr(2200)},
			},
		})
		s.Require().NotNil(verr)
		s.Contains(verr.Fields, "formaciones.1.nivel")
		s.Contains(verr.Fields, "formaciones.1.anio_emision")
		s.NotContains(verr.Fields, "formaciones.0.nivel")
	})
}

func (s *DossierServiceSuite) TestSaveDossier() {
	registerWithDossier(s.T(), s.db, "700")

	s.Run("unknown applicant", func() {
		_, err := s.service.SaveDossier(s.ctx, "701", dtos.DossierSectionsDTO{})
		s.ErrorIs(err, ErrApplicantNotFound)
	})

	s.Run("updates rows sharing the natural key instead of duplicating", func() {
		edu := bachelor("Ingeniería de Sistemas")
		edu.Upload = pdf("titulo.pdf")
		sections := dtos.DossierSectionsDTO{
			Educations: []dtos.EducationDTO{edu},
			Trainings:  []dtos.TrainingDTO{{CourseName: "Go avanzado", Hours: intPtr(40)}},
		}

		first, err := s.service.SaveDossier(s.ctx, "700", sections)
		s.Require().NoError(err)
		s.Require().Len(first.Educations, 1)
		s.Require().NotNil(first.Educations[0].File)
		s.Contains(*first.Educations[0].File, "expedientes/700/formaciones")

		sections.Educations[0].Upload = nil
		sections.Educations[0].IssueYear = intPtr(2016)
		sections.Trainings[0].Hours = intPtr(80)
		second, err := s.service.SaveDossier(s.ctx, "700", sections)
		s.Require().NoError(err)
		s.Require().Len(second.Educations, 1)
		s.Equal(first.Educations[0].ID, second.Educations[0].ID)
		s.Equal(2016, second.Educations[0].IssueYear)
		s.Require().Len(second.Trainings, 1)
		s.Equal(80, *second.Trainings[0].Hours)
	})

	s.Run("attachment follows upload, then reference, then null", func() {
		edu := bachelor("Pedagogía")
		edu.Upload = pdf("pedagogia.pdf")
		sections := dtos.DossierSectionsDTO{Educations: []dtos.EducationDTO{edu}}

		saved, err := s.service.SaveDossier(s.ctx, "700", sections)
		s.Require().NoError(err)
		stored := findEducation(saved, "Pedagogía")
		s.Require().NotNil(stored)
		s.Require().NotNil(stored.File)
		ref := *stored.File

		sections.Educations[0].Upload = nil
		sections.Educations[0].File = strPtr(ref)
		saved, err = s.service.SaveDossier(s.ctx, "700", sections)
		s.Require().NoError(err)
		kept := findEducation(saved, "Pedagogía")
		s.Require().NotNil(kept)
		s.Equal(stored.ID, kept.ID)
		s.Require().NotNil(kept.File)
		s.Equal(ref, *kept.File)

		sections.Educations[0].File = nil
		saved, err = s.service.SaveDossier(s.ctx, "700", sections)
		s.Require().NoError(err)
		cleared := findEducation(saved, "Pedagogía")
		s.Require().NotNil(cleared)
		s.Equal(stored.ID, cleared.ID)
		s.Nil(cleared.File)
	})

	s.Run("nothing is written when validation fails", func() {
		_, err := s.service.SaveDossier(s.ctx, "700", dtos.DossierSectionsDTO{
			Publications: []dtos.PublicationDTO{{Title: "Libro", Type: "poema"}},
		})
		var verr *ValidationError
		s.Require().ErrorAs(err, &verr)
		s.Contains(verr.Fields, "producciones.0.tipo")

		var count int64
		s.db.Model(&models.PublicationModel{}).Count(&count)
		s.Zero(count)
	})
}

func (s *DossierServiceSuite) TestDeleteEntry() {
	owner := registerWithDossier(s.T(), s.db, "800")
	other := registerWithDossier(s.T(), s.db, "801")

	award := models.AwardModel{ApplicantID: owner.ID, AwardType: "Premio", Title: "Mejor tesis", File: strPtr("expedientes/800/reconocimientos/x.pdf")}
	s.Require().NoError(s.db.Create(&award).Error)
	foreign := models.AwardModel{ApplicantID: other.ID, AwardType: "Premio", Title: "Ajeno"}
	s.Require().NoError(s.db.Create(&foreign).Error)

	s.Run("rejects unknown variants", func() {
		err := s.service.DeleteEntry(s.ctx, "800", "hobbies", award.ID)
		var verr *ValidationError
		s.ErrorAs(err, &verr)
	})

	s.Run("cannot delete another applicant's row", func() {
		err := s.service.DeleteEntry(s.ctx, "800", "reconocimiento", foreign.ID)
		s.ErrorIs(err, ErrDossierEntryNotFound)
	})

	s.Run("deletes the row and its file", func() {
		s.Require().NoError(s.service.DeleteEntry(s.ctx, "800", "reconocimiento", award.ID))

		var count int64
		s.db.Model(&models.AwardModel{}).Where("id = ?", award.ID).Count(&count)
		s.Zero(count)
		s.Contains(s.store.removed, "expedientes/800/reconocimientos/x.pdf")
	})
}

func findEducation(applicant *models.ApplicantModel, title string) *models.EducationModel {
	for i := range applicant.Educations {
		if applicant.Educations[i].Title == title {
			return &applicant.Educations[i]
		}
	}
	return nil
}
