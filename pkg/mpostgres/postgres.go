package mpostgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/quantora/ledger/pkg/mlog"
)

// PostgresConnection manages the database handle for one component,
// connecting lazily and running pending migrations on first use.
type PostgresConnection struct {
	ConnectionString   string
	DBName             string
	Component          string
	MigrationsPath     string
	MaxOpenConnections int
	MaxIdleConnections int
	Logger             mlog.Logger

	db        *sql.DB
	Connected bool
}

// GetDB returns the database handle, establishing the connection on the
// first call.
func (pc *PostgresConnection) GetDB() (*sql.DB, error) {
	if pc.Connected {
		return pc.db, nil
	}

	db, err := sql.Open("pgx", pc.ConnectionString)
	if err != nil {
		pc.Logger.Errorf("failed to open postgres connection: %v", err)

		return nil, err
	}

	if pc.MaxOpenConnections > 0 {
		db.SetMaxOpenConns(pc.MaxOpenConnections)
	}

	if pc.MaxIdleConnections > 0 {
		db.SetMaxIdleConns(pc.MaxIdleConnections)
	}

	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		pc.Logger.Errorf("failed to ping postgres: %v", err)

		return nil, err
	}

	if pc.MigrationsPath != "" {
		if err := pc.migrateUp(db); err != nil {
			pc.Logger.Errorf("failed to run migrations: %v", err)

			return nil, err
		}
	}

	pc.db = db
	pc.Connected = true

	pc.Logger.Infof("Connected to postgres database %s", pc.DBName)

	return pc.db, nil
}

func (pc *PostgresConnection) migrateUp(db *sql.DB) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{DatabaseName: pc.DBName})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(pc.MigrationsPath, pc.DBName, driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// HealthCheck reports whether the database answers a ping.
func (pc *PostgresConnection) HealthCheck() bool {
	if !pc.Connected {
		return false
	}

	return pc.db.Ping() == nil
}

// NewWithDB wraps an already-open database handle. Used by tests and
// by callers that manage the pool themselves.
func NewWithDB(db *sql.DB, logger mlog.Logger) *PostgresConnection {
	return &PostgresConnection{db: db, Connected: true, Logger: logger}
}
