package db

import (
	"log"

	"github.com/convocatorias/convocatorias-backend/src/config"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Println("Error al conectar a la base de datos:", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLife)

	log.Println("Convocatorias DB connected successfully!")

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.SiteModel{},
		&models.PositionModel{},
		&models.CallModel{},
		&models.OfferingModel{},
		&models.DocumentTypeModel{},
		&models.ApplicantModel{},
		&models.EducationModel{},
		&models.ExperienceModel{},
		&models.TrainingModel{},
		&models.PublicationModel{},
		&models.AwardModel{},
		&models.RequiredDocumentModel{},
		&models.ApplicationModel{},
	)
}
