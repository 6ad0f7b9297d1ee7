package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// constraints are applied after AutoMigrate. Each one is idempotent.
var constraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$ BEGIN
		ALTER TABLE appointments ADD CONSTRAINT appointments_time_order CHECK (end_at > start_at);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE appointments ADD CONSTRAINT appointments_status_valid
			CHECK (status IN ('confirmed', 'completed', 'cancelled', 'no_show'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE availability_windows ADD CONSTRAINT availability_windows_range
			CHECK (day_of_week BETWEEN 0 AND 6 AND start_minutes >= 0 AND end_minutes <= 1440 AND end_minutes > start_minutes);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE barber_time_off ADD CONSTRAINT barber_time_off_range CHECK (end_date >= start_date);
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE barber_time_off ADD CONSTRAINT barber_time_off_type
			CHECK (type IN ('time_off', 'sick', 'other'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	// A barber can never hold two overlapping confirmed appointments.
	`DO $$ BEGIN
		ALTER TABLE appointments ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (barber_id WITH =, tstzrange(start_at, end_at, '[)') WITH &&)
			WHERE (status = 'confirmed');
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Barber{},
		&models.Service{},
		&models.AvailabilityWindow{},
		&models.TimeOff{},
		&models.Appointment{},
		&models.StaffUser{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	raw := db.Session(&gorm.Session{PrepareStmt: false, Context: ctx})
	for _, stmt := range constraints {
		if err := raw.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}

// Ping is used by the health check.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
