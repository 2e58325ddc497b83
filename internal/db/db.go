package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/vetclinic-api/internal/config"
	"github.com/BruksfildServices01/vetclinic-api/internal/models"
	"github.com/BruksfildServices01/vetclinic-api/internal/timezone"
)

// zapWriter routes gorm's logger through zap.
type zapWriter struct {
	log *zap.SugaredLogger
}

func (w zapWriter) Printf(format string, args ...any) {
	w.log.Warnf(format, args...)
}

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	gormLog := logger.New(zapWriter{log: log.Named("gorm").Sugar()}, logger.Config{
		SlowThreshold:             cfg.DBSlowQueryTime,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Clinic{},
		&models.Doctor{},
		&models.Pet{},
		&models.Appointment{},
		&models.AuditLog{},
		&models.Plan{},
		&models.Subscription{},
	); err != nil {
		return nil, fmt.Errorf("migrating: %w", err)
	}

	if err := backfillTimezones(db); err != nil {
		return nil, fmt.Errorf("backfilling clinic timezones: %w", err)
	}

	if err := seedPlans(db); err != nil {
		return nil, fmt.Errorf("seeding plans: %w", err)
	}

	return db, nil
}

// backfillTimezones gives clinics created before the timezone column
// existed the default zone.
func backfillTimezones(db *gorm.DB) error {
	return db.Exec(`
        UPDATE clinics
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone).Error
}

// DefaultPlans are inserted once; existing rows with the same name are
// left untouched so prices edited in the database survive restarts.
var DefaultPlans = []models.Plan{
	{Name: "Básico", PriceInCents: 4990, MaxDoctors: 2, Active: true},
	{Name: "Profissional", PriceInCents: 9990, MaxDoctors: 5, Active: true},
	{Name: "Clínica Plus", PriceInCents: 19990, MaxDoctors: 20, Active: true},
}

func seedPlans(db *gorm.DB) error {
	plans := make([]models.Plan, len(DefaultPlans))
	copy(plans, DefaultPlans)
	for i := range plans {
		plans[i].ID = uuid.New()
	}

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&plans).Error
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
