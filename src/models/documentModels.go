package models

import (
	"time"

	"gorm.io/datatypes"
)

type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldDate   FieldKind = "date"
	FieldSelect FieldKind = "select"
	FieldFile   FieldKind = "file"
)

// FieldDescriptor describes one dynamic form field of a document type.
type FieldDescriptor struct {
	Name     string    `json:"nombre"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"tipo"`
	Required bool      `json:"obligatorio"`
	Options  []string  `json:"opciones,omitempty"`
}

// DocumentTypeModel is the catalog of required-document kinds.
type DocumentTypeModel struct {
	ID             int                                  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name           string                               `json:"nombre" gorm:"column:nombre;type:varchar(255);not null"`
	Slug           *string                              `json:"slug" gorm:"column:slug;type:varchar(255)"`
	Description    *string                              `json:"descripcion" gorm:"column:descripcion;type:varchar(500)"`
	Fields         datatypes.JSONType[[]FieldDescriptor] `json:"campos" gorm:"column:campos"`
	Category       string                               `json:"categoria" gorm:"column:categoria;type:varchar(50);default:general;not null"`
	AllowsMultiple bool                                 `json:"permite_multiples" gorm:"column:permite_multiples;default:false;not null"`
	Icon           string                               `json:"icono" gorm:"column:icono;type:varchar(50);default:description;not null"`
	Active         bool                                 `json:"activo" gorm:"column:activo;default:true;not null"`
	Order          int                                  `json:"orden" gorm:"column:orden;default:0;not null"`
	CreatedAt      time.Time                            `json:"created_at"`
	UpdatedAt      time.Time                            `json:"updated_at"`
}

func (DocumentTypeModel) TableName() string { return "tipos_documento" }

// RequiredDocumentModel is a category-specific document uploaded by an applicant.
type RequiredDocumentModel struct {
	ID             int                `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID    int                `json:"postulante_id" gorm:"column:postulante_id;not null;index"`
	DocumentTypeID int                `json:"tipo_documento_id" gorm:"column:tipo_documento_id;not null;index"`
	DocumentType   *DocumentTypeModel `json:"tipo_documento,omitempty" gorm:"foreignKey:DocumentTypeID;references:ID"`
	File           string             `json:"archivo_pdf" gorm:"column:archivo_pdf;type:varchar(500);not null"`
	Metadata       datatypes.JSONMap  `json:"metadatos" gorm:"column:metadatos"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func (RequiredDocumentModel) TableName() string { return "documentos_postulante" }
