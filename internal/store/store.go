// Package store persists formulations through gorm. Production runs
// against postgres; tests and single-user setups use sqlite files or
// in-memory databases, selected by the connection URL.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"formulator/internal/config"
	"formulator/models"
)

// ErrNotFound is returned when no formulation with the requested name
// exists.
var ErrNotFound = errors.New("formulation not found")

// Initialize opens the database described by cfg without migrating it.
func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("database URL must not be empty")
	}

	gormCfg := &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: false,
		},
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	db, err := gorm.Open(openDialector(cfg.URL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// openDialector picks the driver from the URL shape. Postgres URLs carry
// a scheme or keyword DSN; everything else is treated as a sqlite path.
func openDialector(url string) gorm.Dialector {
	trimmed := strings.TrimSpace(url)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "postgres://"),
		strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "host="):
		return postgres.Open(trimmed)
	}
	return sqlite.Open(trimmed)
}

// AutoMigrate creates or updates the formulation tables.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database handle is nil")
	}

	return db.AutoMigrate(
		&FormulationRecord{},
		&IngredientRecord{},
		&ProcessCostRecord{},
		&PackagingItemRecord{},
		&CurrencyRateRecord{},
	)
}

// Configure opens and migrates the database, returning a ready Store.
func Configure(cfg config.DatabaseConfig) (*Store, error) {
	db, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return New(db), nil
}

// Store reads and writes formulation snapshots.
type Store struct {
	db *gorm.DB
}

// New wraps an already-opened database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save writes the formulation as a complete snapshot under its name,
// replacing any previous snapshot with that name.
func (s *Store) Save(f *models.Formulation) error {
	if f == nil {
		return fmt.Errorf("formulation is nil")
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("validate formulation: %w", err)
	}

	rec, err := newFormulationRecord(f)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing FormulationRecord
		err := tx.Where("name = ?", f.Name).First(&existing).Error
		switch {
		case err == nil:
			if err := deleteChildren(tx, existing.ID); err != nil {
				return err
			}
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(rec).Error; err != nil {
				return fmt.Errorf("update formulation %q: %w", f.Name, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(rec).Error; err != nil {
				return fmt.Errorf("save formulation %q: %w", f.Name, err)
			}
		default:
			return fmt.Errorf("look up formulation %q: %w", f.Name, err)
		}
		return nil
	})
}

func deleteChildren(tx *gorm.DB, formulationID uint) error {
	for _, child := range []any{
		&IngredientRecord{},
		&ProcessCostRecord{},
		&PackagingItemRecord{},
		&CurrencyRateRecord{},
	} {
		if err := tx.Where("formulation_id = ?", formulationID).Delete(child).Error; err != nil {
			return fmt.Errorf("clear previous snapshot: %w", err)
		}
	}
	return nil
}

// Load reads the named formulation.
func (s *Store) Load(name string) (*models.Formulation, error) {
	var rec FormulationRecord
	err := s.db.
		Preload("Ingredients", orderByPosition).
		Preload("ProcessCosts", orderByPosition).
		Preload("PackagingItems", orderByPosition).
		Preload("CurrencyRates", orderByPosition).
		Where("name = ?", name).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load formulation %q: %w", name, err)
	}
	return rec.toModel()
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// List returns the stored formulation names in alphabetical order.
func (s *Store) List() ([]string, error) {
	var names []string
	if err := s.db.Model(&FormulationRecord{}).
		Order("name ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list formulations: %w", err)
	}
	return names, nil
}

// Delete removes the named formulation and its child rows.
func (s *Store) Delete(name string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var rec FormulationRecord
		err := tx.Where("name = ?", name).First(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("look up formulation %q: %w", name, err)
		}
		if err := deleteChildren(tx, rec.ID); err != nil {
			return err
		}
		if err := tx.Delete(&rec).Error; err != nil {
			return fmt.Errorf("delete formulation %q: %w", name, err)
		}
		return nil
	})
}
