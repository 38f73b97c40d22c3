package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "Otro"
)

// ApplicantModel is the single identity record per national ID (CI).
type ApplicantModel struct {
	ID              int                     `json:"id" gorm:"primaryKey;autoIncrement"`
	NationalID      string                  `json:"ci" gorm:"column:ci;type:varchar(20);not null;uniqueIndex:idx_postulantes_ci"`
	IssuedIn        *string                 `json:"ci_expedido" gorm:"column:ci_expedido;type:varchar(5)"`
	FirstNames      string                  `json:"nombres" gorm:"column:nombres;type:varchar(100);not null"`
	LastNames       string                  `json:"apellidos" gorm:"column:apellidos;type:varchar(100);not null"`
	Email           *string                 `json:"email" gorm:"column:email;type:varchar(100)"`
	Phone           string                  `json:"celular" gorm:"column:celular;type:varchar(20);not null"`
	BirthDate       *time.Time              `json:"fecha_nacimiento" gorm:"column:fecha_nacimiento;type:date"`
	Gender          *Gender                 `json:"genero" gorm:"column:genero;type:varchar(10)"`
	Nationality     *string                 `json:"nacionalidad" gorm:"column:nacionalidad;type:varchar(100)"`
	Address         *string                 `json:"direccion" gorm:"column:direccion;type:varchar(255)"`
	ProfilePhoto    *string                 `json:"foto_perfil" gorm:"column:foto_perfil;type:varchar(500)"`
	CoverLetterFile *string                 `json:"carta_postulacion_pdf" gorm:"column:carta_postulacion_pdf;type:varchar(500)"`
	CurriculumFile  *string                 `json:"curriculum_vitae_pdf" gorm:"column:curriculum_vitae_pdf;type:varchar(500)"`
	IDScanFile      *string                 `json:"ci_documento_pdf" gorm:"column:ci_documento_pdf;type:varchar(500)"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	DeletedAt       gorm.DeletedAt          `json:"-" gorm:"index"`
	Educations      []EducationModel        `json:"formaciones,omitempty" gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Experiences     []ExperienceModel       `json:"experiencias,omitempty" gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Trainings       []TrainingModel         `json:"capacitaciones,omitempty" gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Publications    []PublicationModel      `json:"producciones,omitempty" gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Awards          []AwardModel            `json:"reconocimientos,omitempty" gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Documents       []RequiredDocumentModel `json:"documentos,omitempty" gorm:"foreignKey:ApplicantID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Applications    []ApplicationModel      `json:"postulaciones,omitempty" gorm:"foreignKey:ApplicantID"`
}

func (ApplicantModel) TableName() string {
	return "postulantes"
}

// FullName joins given names and surnames.
func (a ApplicantModel) FullName() string {
	if a.LastNames == "" {
		return a.FirstNames
	}
	return a.FirstNames + " " + a.LastNames
}
