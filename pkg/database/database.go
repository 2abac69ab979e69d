package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/nexgencrm/backend/pkg/models"
)

// DB wraps the gorm connection used as the entity store.
type DB struct {
	Gorm *gorm.DB
}

// New opens a Postgres-backed store and runs migrations.
func New(databaseURL string) (*DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  databaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed getting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed running migrations: %w", err)
	}

	return &DB{Gorm: db}, nil
}

// Migrate creates or updates the schema for every stored entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Party{},
		&models.LeadFollowUp{},
		&models.Inquiry{},
		&models.InquiryFollowUp{},
		&models.Quotation{},
		&models.ProformaInvoice{},
		&models.Product{},
		&models.LeadSource{},
		&models.Task{},
	)
}

// Ping checks the underlying connection.
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (d *DB) Close() error {
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
