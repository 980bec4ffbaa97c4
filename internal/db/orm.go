package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"larpilot/backoffice/internal/config"
	"larpilot/backoffice/internal/logging"
	gormModels "larpilot/backoffice/internal/models/gorm"
)

// InitORM opens the gorm connection for the configured driver.
func InitORM(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: gormLogger(cfg.AppEnv)}

	switch cfg.DBDriver {
	case "postgres":
		return InitPostgresORM(cfg.PostgresDSN(), gormCfg)
	case "sqlite":
		return InitSQLiteORM(cfg.SQLitePath, gormCfg)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

func InitPostgresORM(dsn string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// InitSQLiteORM serves local mode. SQLite allows one writer, so the pool is
// capped at a single connection.
func InitSQLiteORM(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	logging.Info("Opened SQLite via GORM", "path", path)
	return db, nil
}

// AutoMigrate creates or updates every backoffice table.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&gormModels.Plan{},
		&gormModels.User{},
		&gormModels.Location{},
		&gormModels.Larp{},
		&gormModels.Participant{},
		&gormModels.LarpStatusChange{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func gormLogger(appEnv string) logger.Interface {
	if appEnv == "development" {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Error)
}
