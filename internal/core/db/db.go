package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pomotrack/pomotrack/internal/core/models"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Every store method runs against it, so the same code serves both the
// plain connection and the finalize-cycle transaction.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Store exposes the persistence operations over some querier.
type Store struct {
	q querier
}

// DB wraps a SQLite database connection.
type DB struct {
	Store
	conn *sql.DB
}

// Tx is a Store scoped to one transaction. All writes of a
// finalize-and-aggregate cycle go through a single Tx so they commit or
// roll back as a unit.
type Tx struct {
	Store
	tx *sql.Tx
}

// New opens (creating if needed) the database at dbPath and initializes
// the schema.
func New(dbPath string) (*DB, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, models.NewStorageError("create database directory", err)
	}

	// WAL mode so statistics reads can run concurrently with the tick
	// loop's writes while still observing committed snapshots.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, models.NewStorageError("open database", err)
	}

	conn.SetMaxOpenConns(1) // SQLite only supports one writer
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{Store: Store{q: conn}, conn: conn}

	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, models.NewStorageError("initialize schema", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// WithTx runs fn inside a transaction, retrying the whole function on
// transient SQLite errors. fn must be safe to re-run after a rollback:
// every caller recomputes its writes from persisted state, so a retry
// simply repeats the computation against the same snapshot.
func (db *DB) WithTx(fn func(*Tx) error) error {
	var lastErr error
	for attempt := 0; attempt <= defaultRetry.maxRetries; attempt++ {
		if attempt > 0 {
			sleepBackoff(attempt)
		}

		tx, err := db.conn.Begin()
		if err != nil {
			lastErr = err
			if isTransientErr(err) {
				continue
			}
			return models.NewStorageError("begin transaction", err)
		}

		err = fn(&Tx{Store: Store{q: tx}, tx: tx})
		if err != nil {
			_ = tx.Rollback()
			if isTransientErr(err) {
				lastErr = err
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			lastErr = err
			if isTransientErr(err) {
				continue
			}
			return models.NewStorageError("commit transaction", err)
		}
		return nil
	}
	return models.NewStorageError(fmt.Sprintf("transaction after %d retries", defaultRetry.maxRetries), lastErr)
}
