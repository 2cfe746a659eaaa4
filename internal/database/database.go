package database

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ledgerdesk/config"
	"ledgerdesk/internal/domain"
	"ledgerdesk/internal/models"
	"ledgerdesk/internal/repository"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate creates/updates the schema for all models. The unique index on
// clients.email and the transaction FK cascade come from the model tags; the
// index is the real enforcer behind the services' uniqueness pre-checks.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Admin{},
		&models.Client{},
		&models.Transaction{},
	)
}

// SeedAdmin creates the bootstrap admin from config when it does not exist.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig, log *logrus.Logger) {
	if cfg.Email == "" || cfg.Password == "" {
		return
	}
	admins := repository.NewAdminRepository(db)
	_, err := admins.FindByEmail(context.Background(), cfg.Email)
	if err == nil {
		return
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		log.WithError(err).Warn("admin seed lookup failed")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Warn("admin seed hash failed")
		return
	}
	admin := &models.Admin{Email: cfg.Email, PasswordHash: string(hash)}
	if err := admins.Create(context.Background(), admin); err != nil {
		log.WithError(err).Warn("admin seed failed")
		return
	}
	log.WithField("email", cfg.Email).Info("bootstrap admin created")
}
