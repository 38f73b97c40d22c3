package models

import "time"

// DossierVariant identifies one of the five merit collections.
type DossierVariant string

const (
	VariantEducation   DossierVariant = "formaciones"
	VariantExperience  DossierVariant = "experiencias"
	VariantTraining    DossierVariant = "capacitaciones"
	VariantPublication DossierVariant = "producciones"
	VariantAward       DossierVariant = "reconocimientos"
)

// DossierVariants in the order they are usually rendered.
var DossierVariants = []DossierVariant{
	VariantEducation,
	VariantExperience,
	VariantTraining,
	VariantPublication,
	VariantAward,
}

// ParseDossierVariant accepts both the collection name and the singular
// form used by the delete endpoint ("formacion", "experiencia", ...).
func ParseDossierVariant(s string) (DossierVariant, bool) {
	switch s {
	case "formaciones", "formacion":
		return VariantEducation, true
	case "experiencias", "experiencia":
		return VariantExperience, true
	case "capacitaciones", "capacitacion":
		return VariantTraining, true
	case "producciones", "produccion":
		return VariantPublication, true
	case "reconocimientos", "reconocimiento":
		return VariantAward, true
	}
	return "", false
}

type AcademicLevel string

const (
	LevelBachelor  AcademicLevel = "licenciatura"
	LevelMaster    AcademicLevel = "maestria"
	LevelDoctorate AcademicLevel = "doctorado"
	LevelDiploma   AcademicLevel = "diplomado"
	LevelSpecialty AcademicLevel = "especialidad"
)

// AcademicLevelLabels keeps catalog order and display names.
var AcademicLevelLabels = []struct {
	Value AcademicLevel
	Label string
}{
	{LevelBachelor, "Licenciatura"},
	{LevelMaster, "Maestría"},
	{LevelDoctorate, "Doctorado"},
	{LevelDiploma, "Diplomado"},
	{LevelSpecialty, "Especialidad"},
}

// Rank orders levels for "highest degree" reporting.
func (l AcademicLevel) Rank() int {
	switch l {
	case LevelDoctorate:
		return 5
	case LevelMaster:
		return 4
	case LevelSpecialty:
		return 3
	case LevelDiploma:
		return 2
	case LevelBachelor:
		return 1
	}
	return 0
}

type PublicationType string

const (
	PublicationBook     PublicationType = "libro"
	PublicationArticle  PublicationType = "articulo"
	PublicationSoftware PublicationType = "software"
	PublicationResearch PublicationType = "investigacion"
	PublicationProject  PublicationType = "proyecto"
	PublicationOther    PublicationType = "otro"
)

type EducationModel struct {
	ID          int           `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID int           `json:"postulante_id" gorm:"column:postulante_id;not null;index"`
	Level       AcademicLevel `json:"nivel" gorm:"column:nivel;type:varchar(20);not null"`
	Title       string        `json:"titulo_profesion" gorm:"column:titulo_profesion;type:varchar(255);not null"`
	Institution string        `json:"universidad" gorm:"column:universidad;type:varchar(255);not null"`
	IssueYear   int           `json:"anio_emision" gorm:"column:anio_emision;not null"`
	File        *string       `json:"archivo_pdf" gorm:"column:archivo_pdf;type:varchar(500)"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (EducationModel) TableName() string { return "formaciones" }

type ExperienceModel struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID  int       `json:"postulante_id" gorm:"column:postulante_id;not null;index"`
	Position     string    `json:"cargo_desempenado" gorm:"column:cargo_desempenado;type:varchar(255);not null"`
	Organization string    `json:"empresa_institucion" gorm:"column:empresa_institucion;type:varchar(255);not null"`
	StartYear    int       `json:"anio_inicio" gorm:"column:anio_inicio;not null"`
	EndYear      *int      `json:"anio_fin" gorm:"column:anio_fin"`
	Duties       *string   `json:"funciones" gorm:"column:funciones;type:text"`
	File         *string   `json:"archivo_pdf" gorm:"column:archivo_pdf;type:varchar(500)"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ExperienceModel) TableName() string { return "experiencias" }

type TrainingModel struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID int       `json:"postulante_id" gorm:"column:postulante_id;not null;index"`
	CourseName  string    `json:"nombre_curso" gorm:"column:nombre_curso;type:varchar(255);not null"`
	Institution string    `json:"institucion_emisora" gorm:"column:institucion_emisora;type:varchar(255);not null"`
	Hours       *int      `json:"carga_horaria" gorm:"column:carga_horaria"`
	Year        *int      `json:"anio" gorm:"column:anio"`
	File        *string   `json:"archivo_pdf" gorm:"column:archivo_pdf;type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TrainingModel) TableName() string { return "capacitaciones" }

type PublicationModel struct {
	ID          int             `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID int             `json:"postulante_id" gorm:"column:postulante_id;not null;index"`
	Type        PublicationType `json:"tipo" gorm:"column:tipo;type:varchar(20);not null"`
	Title       string          `json:"titulo" gorm:"column:titulo;type:varchar(255);not null"`
	Description *string         `json:"descripcion" gorm:"column:descripcion;type:text"`
	Year        *int            `json:"anio" gorm:"column:anio"`
	File        *string         `json:"archivo_pdf" gorm:"column:archivo_pdf;type:varchar(500)"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (PublicationModel) TableName() string { return "producciones" }

type AwardModel struct {
	ID          int       `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID int       `json:"postulante_id" gorm:"column:postulante_id;not null;index"`
	AwardType   string    `json:"tipo_reconocimiento" gorm:"column:tipo_reconocimiento;type:varchar(255);not null"`
	Title       string    `json:"titulo" gorm:"column:titulo;type:varchar(255);not null"`
	GrantedBy   *string   `json:"otorgado_por" gorm:"column:otorgado_por;type:varchar(255)"`
	Year        *int      `json:"anio" gorm:"column:anio"`
	File        *string   `json:"archivo_pdf" gorm:"column:archivo_pdf;type:varchar(500)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (AwardModel) TableName() string { return "reconocimientos" }
