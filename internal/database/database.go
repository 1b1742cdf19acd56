package database

import (
	"log"
	"strings"
	"sync"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

// Open dials a new connection. A postgres:// DSN selects PostgreSQL,
// anything else is treated as a SQLite path (local development, tests).
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

var (
	mu   sync.Mutex
	conn *gorm.DB
)

// Connect opens (or returns) the process-wide connection. Repeated calls
// are idempotent and return the same handle.
func Connect(dsn string) (*gorm.DB, error) {
	mu.Lock()
	defer mu.Unlock()

	if conn != nil {
		return conn, nil
	}

	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	conn = db
	return conn, nil
}

// Disconnect closes the process-wide connection. Safe to call more than
// once and from multiple shutdown signal paths.
func Disconnect() error {
	mu.Lock()
	defer mu.Unlock()

	if conn == nil {
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	conn = nil
	return sqlDB.Close()
}
