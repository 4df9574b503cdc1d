package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/alqadhi/legal-office-api/pkg/config"
	"github.com/alqadhi/legal-office-api/pkg/logger"
)

func Init(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("failed to connect database")
	}
	return db
}
