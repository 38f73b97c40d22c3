package dtos

import "github.com/convocatorias/convocatorias-backend/src/storage"

// PersonalDataDTO is the full personal-data set persisted on every upsert.
type PersonalDataDTO struct {
	NationalID  string  `json:"ci" validate:"required,max=20"`
	IssuedIn    *string `json:"ci_expedido" validate:"omitempty,max=5"`
	FirstNames  string  `json:"nombres" validate:"required,max=100"`
	LastNames   string  `json:"apellidos" validate:"required,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=100"`
	Phone       string  `json:"celular" validate:"required,max=20"`
	BirthDate   *string `json:"fecha_nacimiento" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"genero" validate:"omitempty,oneof=M F Otro"`
	Nationality *string `json:"nacionalidad" validate:"omitempty,max=100"`
	Address     *string `json:"direccion" validate:"omitempty,max=255"`
}

// ApplicantFiles are the single-instance attachments of an applicant.
// A nil field leaves the stored reference untouched.
type ApplicantFiles struct {
	Photo       *storage.Upload
	CoverLetter *storage.Upload
	Curriculum  *storage.Upload
	IDScan      *storage.Upload
}

type EducationDTO struct {
	Level       string          `json:"nivel" validate:"required,oneof=licenciatura maestria doctorado diplomado especialidad"`
	Title       string          `json:"titulo_profesion" validate:"max=255"`
	Institution string          `json:"universidad" validate:"max=255"`
	IssueYear   *int            `json:"anio_emision" validate:"required,gte=1900,lte=2100"`
	File        *string         `json:"archivo_pdf"`
	Upload      *storage.Upload `json:"-"`
}

type ExperienceDTO struct {
	Position     string          `json:"cargo_desempenado" validate:"max=255"`
	Organization string          `json:"empresa_institucion" validate:"max=255"`
	StartYear    *int            `json:"anio_inicio" validate:"required,gte=1900,lte=2100"`
	EndYear      *int            `json:"anio_fin" validate:"omitempty,gte=1900,lte=2100"`
	Duties       *string         `json:"funciones"`
	File         *string         `json:"archivo_pdf"`
	Upload       *storage.Upload `json:"-"`
}

type TrainingDTO struct {
	CourseName  string          `json:"nombre_curso" validate:"max=255"`
	Institution string          `json:"institucion_emisora" validate:"max=255"`
	Hours       *int            `json:"carga_horaria" validate:"omitempty,min=0"`
	Year        *int            `json:"anio" validate:"omitempty,gte=1900,lte=2100"`
	File        *string         `json:"archivo_pdf"`
	Upload      *storage.Upload `json:"-"`
}

type PublicationDTO struct {
	Type        string          `json:"tipo" validate:"omitempty,oneof=libro articulo software investigacion proyecto otro"`
	Title       string          `json:"titulo" validate:"max=255"`
	Description *string         `json:"descripcion"`
	Year        *int            `json:"anio" validate:"omitempty,gte=1900,lte=2100"`
	File        *string         `json:"archivo_pdf"`
	Upload      *storage.Upload `json:"-"`
}

type AwardDTO struct {
	AwardType string          `json:"tipo_reconocimiento" validate:"max=255"`
	Title     string          `json:"titulo" validate:"max=255"`
	GrantedBy *string         `json:"otorgado_por" validate:"omitempty,max=255"`
	Year      *int            `json:"anio" validate:"omitempty,gte=1900,lte=2100"`
	File      *string         `json:"archivo_pdf"`
	Upload    *storage.Upload `json:"-"`
}

// DossierSectionsDTO holds the five merit collections. A nil slice means
// the caller omitted the section.
type DossierSectionsDTO struct {
	Educations   []EducationDTO   `json:"formaciones"`
	Experiences  []ExperienceDTO  `json:"experiencias"`
	Trainings    []TrainingDTO    `json:"capacitaciones"`
	Publications []PublicationDTO `json:"producciones"`
	Awards       []AwardDTO       `json:"reconocimientos"`
}

type DocumentDTO struct {
	DocumentTypeID int                    `json:"tipo_documento_id"`
	File           *string                `json:"archivo_pdf"`
	Metadata       map[string]interface{} `json:"metadatos"`
	Upload         *storage.Upload        `json:"-"`
}

// SubmissionDTO is the body of the complete application process.
type SubmissionDTO struct {
	PersonalDataDTO
	DossierSectionsDTO
	Documents   []DocumentDTO  `json:"documentos"`
	OfferingIDs []int          `json:"ofertas"`
	Files       ApplicantFiles `json:"-"`
}

// DossierDTO saves dossier sections for an already registered applicant.
type DossierDTO struct {
	NationalID string `json:"ci"`
	DossierSectionsDTO
}

type SendApplicationsDTO struct {
	NationalID  string `json:"ci"`
	OfferingIDs []int  `json:"ofertas"`
}

type DeleteDossierEntryDTO struct {
	NationalID string `json:"ci"`
	Variant    string `json:"tipo"`
	ID         int    `json:"id"`
}

type NationalIDDTO struct {
	NationalID string `json:"ci"`
}
