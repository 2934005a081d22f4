package database

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var defaultMenu = []entities.MainMenu{
	{Item: "Home", Link: "/"},
	{Item: "Post Book", Link: "/postbook"},
	{Item: "Display Books", Link: "/books"},
	{Item: "My Books", Link: "/mybooks"},
	{Item: "Search", Link: "/search"},
	{Item: "About Us", Link: "/about"},
}

// Models lists every entity managed by AutoMigrate, parents before children.
var Models = []any{
	&entities.User{},
	&entities.MainMenu{},
	&entities.Book{},
	&entities.Comment{},
	&entities.Rating{},
	&entities.Favorite{},
	&entities.AuditEvent{},
}

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Database struct {
	DB     *gorm.DB
	Driver config.DatabaseDriver
}

// NewDatabase opens (or creates) a SQLite database at dbPath.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     dbPath,
		LogLevel: "warn",
	})
}

// Open connects using the configured driver, migrates the schema and seeds the menu.
func Open(cfg config.Database) (*Database, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, Driver: cfg.Driver}

	if err := database.seedMenu(); err != nil {
		return nil, fmt.Errorf("failed to seed menu: %w", err)
	}

	log.Printf("Database initialized successfully (%s)", cfg.Driver)

	return database, nil
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DatabaseDriverSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	case config.DatabaseDriverPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres driver")
		}
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// sqliteDSN enables foreign keys so ON DELETE CASCADE constraints apply,
// and a busy timeout so concurrent writers wait instead of failing.
func sqliteDSN(path string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + "_foreign_keys=on&_busy_timeout=5000"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks database connectivity.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) seedMenu() error {
	for _, entry := range defaultMenu {
		var existing entities.MainMenu
		result := d.DB.Where("item = ?", entry.Item).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			entry := entry
			if err := d.DB.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to create menu item %s: %w", entry.Item, err)
			}
			log.Printf("Created menu item: %s", entry.Item)
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}
