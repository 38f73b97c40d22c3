package seed

import (
	"log"
	"time"

	"github.com/convocatorias/convocatorias-backend/src/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Admin credentials used only when no administrator exists yet.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

func strPtr(s string) *string { return &s }

func text(name, label string, required bool) models.FieldDescriptor {
	return models.FieldDescriptor{Name: name, Label: label, Kind: models.FieldText, Required: required}
}

func date(name, label string, required bool) models.FieldDescriptor {
	return models.FieldDescriptor{Name: name, Label: label, Kind: models.FieldDate, Required: required}
}

var documentTypes = []models.DocumentTypeModel{
	{
		Name: "FORMACIÓN ACADÉMICA", Slug: strPtr("formacion-academica"),
		Description: strPtr("FORMACIÓN A NIVEL DE LICENCIATURA"),
		Category:    "academico", AllowsMultiple: true, Icon: "school", Order: 1,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{
			text("nivel", "Nivel (Ej. Licenciatura)", true),
			text("universidad", "Universidad", true),
			text("profesion", "Profesión (Nombre del título)", true),
			date("fecha_diploma", "Fecha de Diploma Académico", true),
			date("fecha_titulo", "Fecha de Título Profesional", true),
		}),
	},
	{
		Name: "FORMACIÓN EN POSGRADO", Slug: strPtr("formacion-en-posgrado"),
		Description: strPtr("PROGRAMAS CURSADOS DE DIPLOMADO, ESPECIALIDAD, MAESTRÍA, DOCTORADO O POSDOCTORADO"),
		Category:    "academico", AllowsMultiple: true, Icon: "workspace_premium", Order: 2,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{
			{Name: "tipo_posgrado", Label: "Tipo de Posgrado", Kind: models.FieldSelect, Required: true,
				Options: []string{"Diplomado", "Especialidad", "Maestría", "Doctorado", "Posdoctorado"}},
			text("nombre_programa", "Nombre del programa", true),
			date("fecha_certificacion", "Fecha de certificación", true),
			text("institucion", "Institución/Universidad", true),
		}),
	},
	{
		Name: "EXPERIENCIAS PROFESIONALES", Slug: strPtr("experiencias-profesionales"),
		Description: strPtr("FUNCIONES DESEMPEÑADAS CORRESPONDIENTES A SU ÁREA DE FORMACIÓN"),
		Category:    "laboral", AllowsMultiple: true, Icon: "work", Order: 4,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{
			text("institucion_empresa", "Institución/Empresa", true),
			text("cargo_ocupado", "Cargo ocupado", true),
			date("fecha_inicio", "Fecha de inicio", true),
			date("fecha_conclusion", "Fecha de conclusión", false),
		}),
	},
	{
		Name: "CAPACITACIONES ADICIONALES", Slug: strPtr("capacitaciones-adicionales"),
		Description: strPtr("CURSOS DE FORMACIÓN CONTINUA, TALLERES U OTROS MAYORES A 40 HORAS"),
		Category:    "capacitacion", AllowsMultiple: true, Icon: "menu_book", Order: 5,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{
			text("nombre_programa", "Nombre o Título del programa", true),
			date("fecha_capacitacion", "Fecha de capacitación", true),
			text("institucion_organizadora", "Institución organizadora", true),
			{Name: "carga_horaria", Label: "Carga horaria (en horas)", Kind: models.FieldNumber, Required: true},
		}),
	},
	{
		Name: "Cédula de Identidad", Slug: strPtr("cedula-de-identidad"),
		Description: strPtr("Cédula de Identidad (Archivo PDF/JPG)"),
		Category:    "personal", AllowsMultiple: false, Icon: "badge", Order: 8,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{}),
	},
	{
		Name: "Curriculum Vitae", Slug: strPtr("curriculum-vitae"),
		Description: strPtr("Curriculum Vitae (Archivo)"),
		Category:    "personal", AllowsMultiple: false, Icon: "description", Order: 10,
		Fields: datatypes.NewJSONType([]models.FieldDescriptor{}),
	},
}

// Seed loads the admin account, the document catalog and a demo call.
// Every step is skipped when its rows already exist.
func Seed(db *gorm.DB) {
	// Users
	var admins int64
	db.Model(&models.UserModel{}).Count(&admins)
	if admins > 0 {
		log.Println("Admin user already exists")
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
		admin := models.UserModel{Username: DefaultAdminUsername, Password: string(hashedPassword)}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("Failed to create admin user: %v\n", err)
		} else {
			log.Printf("User '%s' created\n", DefaultAdminUsername)
		}
	}

	// Document types
	createdTypes := 0
	for _, docType := range documentTypes {
		var existing models.DocumentTypeModel
		if db.Where("slug = ?", *docType.Slug).First(&existing).Error == nil {
			continue
		}
		docType.Active = true
		if err := db.Create(&docType).Error; err != nil {
			log.Printf("Failed to create document type %s: %v\n", docType.Name, err)
			continue
		}
		createdTypes++
	}
	log.Printf("Document types: %d created\n", createdTypes)

	seedDemoCall(db)
}

func seedDemoCall(db *gorm.DB) {
	const slug = "convocatoria-docentes-demo"
	var existing models.CallModel
	if db.Where("slug = ?", slug).First(&existing).Error == nil {
		log.Println("Demo call already exists")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		sites := []models.SiteModel{
			{Name: "Sede Central", City: strPtr("La Paz"), Active: true},
			{Name: "Sede El Alto", City: strPtr("El Alto"), Active: true},
		}
		if err := tx.Create(&sites).Error; err != nil {
			return err
		}
		positions := []models.PositionModel{
			{Name: "Docente de Matemáticas", Active: true},
			{Name: "Docente de Sistemas", Active: true},
		}
		if err := tx.Create(&positions).Error; err != nil {
			return err
		}

		today := time.Now()
		call := models.CallModel{
			Title:     "Convocatoria Docentes " + today.Format("2006"),
			Slug:      slug,
			StartDate: today.AddDate(0, 0, -1),
			CloseDate: today.AddDate(0, 1, 0),
			Status:    models.CallActive,
		}
		if err := tx.Create(&call).Error; err != nil {
			return err
		}

		for _, site := range sites {
			for _, position := range positions {
				offering := models.OfferingModel{
					CallID:     call.ID,
					SiteID:     site.ID,
					PositionID: position.ID,
					Vacancies:  1,
					Active:     true,
				}
				if err := tx.Create(&offering).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to create demo call: %v\n", err)
		return
	}
	log.Println("Demo call created")
}
