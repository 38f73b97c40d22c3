package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplicationStatus string

// The state graph pendiente -> en_revision -> {observado, habilitado,
// rechazado, seleccionado} is advisory; transitions are not guarded.
const (
	StatusPending  ApplicationStatus = "pendiente"
	StatusInReview ApplicationStatus = "en_revision"
	StatusObserved ApplicationStatus = "observado"
	StatusEnabled  ApplicationStatus = "habilitado"
	StatusRejected ApplicationStatus = "rechazado"
	StatusSelected ApplicationStatus = "seleccionado"
)

var ApplicationStatuses = []ApplicationStatus{
	StatusPending,
	StatusInReview,
	StatusObserved,
	StatusEnabled,
	StatusRejected,
	StatusSelected,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the human readable status used in exports.
func (s ApplicationStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusInReview:
		return "En Revisión"
	case StatusObserved:
		return "Observado"
	case StatusEnabled:
		return "Habilitado"
	case StatusRejected:
		return "Rechazado"
	case StatusSelected:
		return "Seleccionado"
	}
	return string(s)
}

// ApplicationModel links one applicant to one offering.
type ApplicationModel struct {
	ID          int               `json:"id" gorm:"primaryKey;autoIncrement"`
	ApplicantID int               `json:"postulante_id" gorm:"column:postulante_id;not null;uniqueIndex:idx_postulacion_unica"`
	Applicant   *ApplicantModel   `json:"postulante,omitempty" gorm:"foreignKey:ApplicantID;references:ID"`
	OfferingID  int               `json:"oferta_id" gorm:"column:oferta_id;not null;uniqueIndex:idx_postulacion_unica"`
	Offering    *OfferingModel    `json:"oferta,omitempty" gorm:"foreignKey:OfferingID;references:ID"`
	Status      ApplicationStatus `json:"estado" gorm:"column:estado;type:varchar(20);default:pendiente;not null;index"`
	Notes       *string           `json:"observaciones" gorm:"column:observaciones;type:text"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time         `json:"updated_at"`
	DeletedAt   gorm.DeletedAt    `json:"-" gorm:"index"`
}

func (ApplicationModel) TableName() string { return "postulaciones" }
