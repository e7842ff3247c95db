package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/nikhil00shinde/pokemon-api/internal/models"
)

// Config contains database connection options.
type Config struct {
	Driver string
	Path   string // SQLite database path when Driver == sqlite
	DSN    string // Optional DSN override

	// Host based parameters used by the postgres driver.
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Options  map[string]string

	// Pool limits. Zero values fall back to the defaults below.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxIdleTime = 5 * time.Minute
)

// Open initialises a gorm.DB using the provided configuration and applies
// the bounded connection pool settings.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(cfg.Driver)
	if driver == "" {
		driver = "sqlite"
	}

	var (
		db  *gorm.DB
		err error
	)

	switch driver {
	case "sqlite":
		db, err = openSQLite(cfg)
	case "postgres", "postgresql":
		db, err = openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := applyPoolSettings(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

func applyPoolSettings(db *gorm.DB, cfg Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql pool: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	idleTime := cfg.ConnMaxIdleTime
	if idleTime <= 0 {
		idleTime = defaultConnMaxIdleTime
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxIdleTime(idleTime)
	return nil
}

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Pokemon{},
		&models.CacheEntry{},
	)
}

// SeedData inserts the starter records used by local development environments.
// It is idempotent: existing rows with the same name are left alone.
func SeedData(db *gorm.DB) error {
	starters := []models.Pokemon{
		{Name: "Pikachu", Type: "Electric", Level: 25},
		{Name: "Charizard", Type: "Fire", Level: 50},
		{Name: "Blastoise", Type: "Water", Level: 48},
	}

	for _, p := range starters {
		if err := db.Where(models.Pokemon{Name: p.Name}).Attrs(p).FirstOrCreate(&models.Pokemon{}).Error; err != nil {
			return err
		}
	}
	return nil
}

// AutoMigrateAndSeed convenience helper used during application start-up.
func AutoMigrateAndSeed(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := SeedData(db); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}

	return nil
}
