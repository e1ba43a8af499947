package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pactum-io/pactum/internal/model"
	sqliteopts "github.com/pactum-io/pactum/pkg/options/sqlite"
)

// datastore is the gorm-backed Factory.
type datastore struct {
	db *gorm.DB
}

// NewSQLiteFactory opens the SQLite database and returns a store factory.
func NewSQLiteFactory(opts *sqliteopts.Options) (Factory, error) {
	db, err := gorm.Open(sqlite.Open(opts.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", opts.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)

	return &datastore{db: db}, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Contracts returns the contract store.
func (ds *datastore) Contracts() ContractStore {
	return newContracts(ds.db)
}

// Collaborators returns the collaboration grant store.
func (ds *datastore) Collaborators() CollaboratorStore {
	return newCollaborators(ds.db)
}

// AutoMigrate creates or updates the database schema.
func (ds *datastore) AutoMigrate() error {
	return ds.db.AutoMigrate(
		&model.Contract{},
		&model.Collaborator{},
	)
}

// Close closes the underlying database connection.
func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
