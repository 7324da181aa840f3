package repository

import (
	"context"
	"fmt"

	"coldmail-backend/internal/ratelimit/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store on an existing GORM connection and migrates its table.
func NewGormStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&domain.RateLimitCounter{}); err != nil {
		return nil, fmt.Errorf("migrate rate_limit_counters: %w", err)
	}
	return &gormStore{db: db}, nil
}

// NewPostgresStore opens a PostgreSQL connection from a DSN.
func NewPostgresStore(dsn string) (Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return NewGormStore(db)
}

func (s *gormStore) Load(ctx context.Context) (*domain.Tables, error) {
	var rows []domain.RateLimitCounter
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return domain.TablesFromCounters(rows), nil
}

// Save replaces all rows in one transaction.
func (s *gormStore) Save(ctx context.Context, tables *domain.Tables) error {
	rows := tables.Normalize().ToCounters()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.RateLimitCounter{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
