package cmd

import (
	"fmt"
	"log/slog"

	"custody/internal/adapters/out/memory"
	"custody/internal/adapters/out/postgres"
	"custody/internal/core/ports"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenStorage returns the unit of work factory selected by cfg.Storage and a function that
// releases it. Postgres schemas are migrated on open.
func OpenStorage(cfg Config, logger *slog.Logger) (ports.UnitOfWorkFactory, func() error, error) {
	if cfg.Storage == StorageMemory {
		logger.Warn("using in-memory storage, state is lost on exit")
		return memory.NewUnitOfWorkFactory(memory.NewStore()), func() error { return nil }, nil
	}

	db, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	if err = postgres.Migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return postgres.NewGormUnitOfWorkFactory(db), sqlDB.Close, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
