package models

import (
	"time"

	"gorm.io/gorm"
)

type CallStatus string

const (
	CallDraft    CallStatus = "borrador"
	CallActive   CallStatus = "activa"
	CallClosed   CallStatus = "cerrada"
	CallFinished CallStatus = "finalizada"
)

type SiteModel struct {
	ID        int            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"nombre" gorm:"column:nombre;type:varchar(255);not null"`
	Address   *string        `json:"direccion" gorm:"column:direccion;type:varchar(500)"`
	City      *string        `json:"ciudad" gorm:"column:ciudad;type:varchar(100)"`
	Active    bool           `json:"activo" gorm:"column:activo;default:true;not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (SiteModel) TableName() string { return "sedes" }

type PositionModel struct {
	ID           int            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string         `json:"nombre" gorm:"column:nombre;type:varchar(255);not null"`
	Description  *string        `json:"descripcion" gorm:"column:descripcion;type:text"`
	Requirements *string        `json:"requisitos" gorm:"column:requisitos;type:text"`
	Active       bool           `json:"activo" gorm:"column:activo;default:true;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (PositionModel) TableName() string { return "cargos" }

// CallModel is a recruitment campaign (convocatoria) with an application window.
type CallModel struct {
	ID          int            `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string         `json:"titulo" gorm:"column:titulo;type:varchar(255);not null"`
	Slug        string         `json:"slug" gorm:"column:slug;type:varchar(255);not null;uniqueIndex"`
	Description *string        `json:"descripcion" gorm:"column:descripcion;type:text"`
	StartDate   time.Time      `json:"fecha_inicio" gorm:"column:fecha_inicio;type:date;not null"`
	CloseDate   time.Time      `json:"fecha_cierre" gorm:"column:fecha_cierre;type:date;not null"`

	// DeadlineTime is the "HH:MM:SS" closing hour on CloseDate.
	DeadlineTime *string         `json:"hora_limite" gorm:"column:hora_limite;type:varchar(8)"`
	Status       CallStatus      `json:"estado" gorm:"column:estado;type:varchar(20);default:borrador;not null"`
	Offerings    []OfferingModel `json:"ofertas,omitempty" gorm:"foreignKey:CallID"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (CallModel) TableName() string { return "convocatorias" }

// Deadline returns the instant the call stops accepting applications.
// Calendar dates are read in the server's local time zone.
func (c CallModel) Deadline() time.Time {
	hour, min, sec := 23, 59, 59
	if c.DeadlineTime != nil {
		if t, err := time.Parse("15:04:05", *c.DeadlineTime); err == nil {
			hour, min, sec = t.Hour(), t.Minute(), t.Second()
		} else if t, err := time.Parse("15:04", *c.DeadlineTime); err == nil {
			hour, min, sec = t.Hour(), t.Minute(), 59
		}
	}
	y, m, d := c.CloseDate.Date()
	return time.Date(y, m, d, hour, min, sec, 0, time.Local)
}

// IsOpen reports whether start date <= now <= close date (plus deadline hour).
func (c CallModel) IsOpen(now time.Time) bool {
	y, m, d := c.StartDate.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return !now.Before(start) && !now.After(c.Deadline())
}

// OfferingModel is one (call, site, position) combination.
type OfferingModel struct {
	ID         int            `json:"id" gorm:"primaryKey;autoIncrement"`
	CallID     int            `json:"convocatoria_id" gorm:"column:convocatoria_id;not null;uniqueIndex:idx_convocatoria_sede_cargo"`
	Call       *CallModel     `json:"convocatoria,omitempty" gorm:"foreignKey:CallID;references:ID"`
	SiteID     int            `json:"sede_id" gorm:"column:sede_id;not null;uniqueIndex:idx_convocatoria_sede_cargo"`
	Site       *SiteModel     `json:"sede,omitempty" gorm:"foreignKey:SiteID;references:ID"`
	PositionID int            `json:"cargo_id" gorm:"column:cargo_id;not null;uniqueIndex:idx_convocatoria_sede_cargo"`
	Position   *PositionModel `json:"cargo,omitempty" gorm:"foreignKey:PositionID;references:ID"`
	Vacancies  int            `json:"vacantes" gorm:"column:vacantes;default:1;not null"`
	Active     bool           `json:"activo" gorm:"column:activo;default:true;not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (OfferingModel) TableName() string { return "convocatoria_sede_cargo" }

// Label names the position and site, used in per-offering messages.
func (o OfferingModel) Label() (position string, site string) {
	position, site = "-", "-"
	if o.Position != nil {
		position = o.Position.Name
	}
	if o.Site != nil {
		site = o.Site.Name
	}
	return position, site
}
