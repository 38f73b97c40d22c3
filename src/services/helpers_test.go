package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	database "github.com/convocatorias/convocatorias-backend/src/db"
	"github.com/convocatorias/convocatorias-backend/src/dtos"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/storage"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// memStore keeps uploads in memory and can be told to fail for a directory.
type memStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	removed []string
	failOn  string
	seq     int
}

func newMemStore() *memStore {
	return &memStore{files: map[string][]byte{}}
}

func (m *memStore) Save(dir string, upload *storage.Upload) (string, error) {
	if m.failOn != "" && strings.Contains(dir, m.failOn) {
		return "", errors.New("disk full")
	}
	r, err := upload.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	ref := fmt.Sprintf("%s/%d_%s", dir, m.seq, upload.Filename)
	m.files[ref] = data
	return ref, nil
}

func (m *memStore) Remove(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	m.removed = append(m.removed, ref)
	return nil
}

func (m *memStore) Resolve(ref string) (string, error) {
	return "/mem/" + ref, nil
}

func pdf(name string) *storage.Upload {
	return storage.FromBytes(name, "application/pdf", []byte("%PDF-1.4 "+name))
}

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

type catalogFixture struct {
	openCall    models.CallModel
	closedCall  models.CallModel
	central     models.SiteModel
	alto        models.SiteModel
	math        models.PositionModel
	systems     models.PositionModel
	openMath    models.OfferingModel
	openSystems models.OfferingModel
	closedMath  models.OfferingModel
	academic    models.DocumentTypeModel
	idCard      models.DocumentTypeModel
}

// seedCatalog creates an open call with offerings 7 (math, central) and
// 8 (systems, el alto), a closed call with offering 9 and two document types.
func seedCatalog(t *testing.T, db *gorm.DB) *catalogFixture {
	t.Helper()
	now := time.Now()
	f := &catalogFixture{
		central: models.SiteModel{Name: "Sede Central", Active: true},
		alto:    models.SiteModel{Name: "Sede El Alto", Active: true},
		math:    models.PositionModel{Name: "Docente de Matemáticas", Active: true},
		systems: models.PositionModel{Name: "Docente de Sistemas", Active: true},
		openCall: models.CallModel{
			Title:     "Convocatoria Abierta",
			Slug:      "abierta",
			StartDate: now.AddDate(0, 0, -10),
			CloseDate: now.AddDate(0, 0, 10),
			Status:    models.CallActive,
		},
		closedCall: models.CallModel{
			Title:     "Convocatoria Pasada",
			Slug:      "pasada",
			StartDate: now.AddDate(0, -2, 0),
			CloseDate: now.AddDate(0, -1, 0),
			Status:    models.CallActive,
		},
	}
	require.NoError(t, db.Create(&f.central).Error)
	require.NoError(t, db.Create(&f.alto).Error)
	require.NoError(t, db.Create(&f.math).Error)
	require.NoError(t, db.Create(&f.systems).Error)
	require.NoError(t, db.Create(&f.openCall).Error)
	require.NoError(t, db.Create(&f.closedCall).Error)

	f.openMath = models.OfferingModel{ID: 7, CallID: f.openCall.ID, SiteID: f.central.ID, PositionID: f.math.ID, Vacancies: 2, Active: true}
	f.openSystems = models.OfferingModel{ID: 8, CallID: f.openCall.ID, SiteID: f.alto.ID, PositionID: f.systems.ID, Vacancies: 1, Active: true}
	f.closedMath = models.OfferingModel{ID: 9, CallID: f.closedCall.ID, SiteID: f.central.ID, PositionID: f.math.ID, Vacancies: 1, Active: true}
	require.NoError(t, db.Create(&f.openMath).Error)
	require.NoError(t, db.Create(&f.openSystems).Error)
	require.NoError(t, db.Create(&f.closedMath).Error)

	f.academic = models.DocumentTypeModel{
		Name:           "FORMACIÓN ACADÉMICA",
		Category:       "academico",
		AllowsMultiple: true,
		Active:         true,
		Order:          1,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{
			{Name: "universidad", Label: "Universidad", Kind: models.FieldText, Required: true},
			{Name: "fecha_titulo", Label: "Fecha de Título", Kind: models.FieldDate, Required: true},
			{Name: "tipo", Label: "Tipo", Kind: models.FieldSelect, Options: []string{"Diplomado", "Maestría"}},
			{Name: "carga_horaria", Label: "Horas", Kind: models.FieldNumber},
		}),
	}
	f.idCard = models.DocumentTypeModel{
		Name:     "Cédula de Identidad",
		Category: "personal",
		Active:   true,
		Order:    8,
		Fields:   datatypes.NewJSONType([]models.FieldDescriptor{}),
	}
	require.NoError(t, db.Create(&f.academic).Error)
	require.NoError(t, db.Create(&f.idCard).Error)
	return f
}

func personalData(ci string) dtos.PersonalDataDTO {
	return dtos.PersonalDataDTO{
		NationalID: ci,
		FirstNames: "Ana",
		LastNames:  "Quispe",
		Phone:      "70000000",
		Email:      strPtr("ana@example.com"),
		BirthDate:  strPtr("1990-05-17"),
		Gender:     strPtr("F"),
	}
}

func bachelor(title string) dtos.EducationDTO {
	return dtos.EducationDTO{
		Level:       "licenciatura",
		Title:       title,
		Institution: "UMSA",
		IssueYear:   intPtr(2015),
	}
}

func newApplicationService(db *gorm.DB) *ApplicationService {
	return NewApplicationService(db, NewCatalogService(db, NewMemoryCache(), time.Minute))
}

// registerWithDossier stores an applicant with one education row.
func registerWithDossier(t *testing.T, db *gorm.DB, ci string) *models.ApplicantModel {
	t.Helper()
	applicants := NewApplicantService(db, newMemStore())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	applicant, err := applicants.UpsertApplicant(ctx, personalData(ci), dtos.ApplicantFiles{})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.EducationModel{
		ApplicantID: applicant.ID,
		Level:       models.LevelBachelor,
		Title:       "Ingeniería de Sistemas",
		Institution: "UMSA",
		IssueYear:   2015,
	}).Error)
	return applicant
}
