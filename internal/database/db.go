package database

import (
	"log"

	"github.com/alaazayood/viatica-backend/internal/config"
	"github.com/alaazayood/viatica-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Drug{},
		&models.Offer{},
		&models.Order{},
		&models.OrderLine{},
		&models.PharmacistStock{},
		&models.LedgerEntry{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	log.Println("database connected, migration complete")
}
