package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/cardbot/internal/config"
	"github.com/example/cardbot/internal/logger"
)

const (
	driverSQLite   = "sqlite3"
	driverPostgres = "postgres"
)

// DB is the bot storage. All reads and writes go through transactions
// created by RunInTransaction.
type DB struct {
	db  *sqlx.DB
	log *logger.Logger
}

// Connect establishes a connection to the database and creates the schema
func Connect(cfg config.DatabaseConfig, log *logger.Logger) (*DB, error) {
	dsn := cfg.DSN()
	if cfg.Driver == driverSQLite {
		if err := ensureDataDir(dsn); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == driverSQLite {
		if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers, and an in-memory
		// database lives only as long as its single connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	d := &DB{db: db, log: log.Named("database")}

	if cfg.ClearData {
		d.log.Warn("Dropping all tables", "driver", cfg.Driver)
		if err := d.dropSchema(); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := d.initializeSchema(); err != nil {
		db.Close()
		return nil, err
	}

	d.log.Debug("Database connection is OK", "driver", cfg.Driver)
	return d, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// sqliteDSN turns on foreign keys for every connection the pool opens,
// unless the DSN already sets them
func sqliteDSN(dsn string) string {
	path, query, hasQuery := strings.Cut(dsn, "?")
	if !hasQuery {
		return path + "?_foreign_keys=on"
	}
	for _, param := range strings.Split(query, "&") {
		key, _, _ := strings.Cut(param, "=")
		if key == "_foreign_keys" || key == "_fk" {
			return dsn
		}
	}
	if query == "" {
		return dsn + "_foreign_keys=on"
	}
	return dsn + "&_foreign_keys=on"
}

func ensureDataDir(dsn string) error {
	path, _, _ := strings.Cut(dsn, "?")
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// tableNames lists tables in dependency order, children first
var tableNames = []string{
	"learning_distractors",
	"learning_questions",
	"learning_progress",
	"add_card_progress",
	"user_cards",
	"cards",
	"words",
	"users",
}

func (d *DB) dropSchema() error {
	for _, name := range tableNames {
		if _, err := d.db.Exec("DROP TABLE IF EXISTS " + name); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", name, err)
		}
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func (d *DB) initializeSchema() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if d.db.DriverName() == driverPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}

	statements := []struct {
		table string
		query string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id BIGINT PRIMARY KEY,
				username VARCHAR(32) NOT NULL DEFAULT '',
				first_name VARCHAR(64) NOT NULL DEFAULT '',
				last_name VARCHAR(64) NOT NULL DEFAULT '',
				state VARCHAR(32) NOT NULL DEFAULT 'unknown_state',
				created_at TIMESTAMP,
				updated_at TIMESTAMP
			)`},
		{"words", `
			CREATE TABLE IF NOT EXISTS words (
				id ` + serial + `,
				text VARCHAR(64) NOT NULL,
				language VARCHAR(2) NOT NULL CHECK (language IN ('ru', 'en')),
				UNIQUE(text, language)
			)`},
		{"cards", `
			CREATE TABLE IF NOT EXISTS cards (
				id ` + serial + `,
				source_word_id BIGINT NOT NULL REFERENCES words(id),
				target_word_id BIGINT NOT NULL REFERENCES words(id),
				UNIQUE(source_word_id, target_word_id)
			)`},
		{"user_cards", `
			CREATE TABLE IF NOT EXISTS user_cards (
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				card_id BIGINT NOT NULL REFERENCES cards(id) ON DELETE CASCADE,
				PRIMARY KEY (user_id, card_id)
			)`},
		{"add_card_progress", `
			CREATE TABLE IF NOT EXISTS add_card_progress (
				user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				source_word_id BIGINT NOT NULL REFERENCES words(id),
				created_at TIMESTAMP NOT NULL
			)`},
		{"learning_questions", `
			CREATE TABLE IF NOT EXISTS learning_questions (
				id ` + serial + `,
				user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				order_index INTEGER NOT NULL,
				card_id BIGINT NOT NULL REFERENCES cards(id),
				answer_position INTEGER NOT NULL,
				created_at TIMESTAMP NOT NULL,
				UNIQUE(user_id, order_index)
			)`},
		{"learning_distractors", `
			CREATE TABLE IF NOT EXISTS learning_distractors (
				question_id BIGINT NOT NULL REFERENCES learning_questions(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				card_id BIGINT NOT NULL REFERENCES cards(id),
				PRIMARY KEY (question_id, position)
			)`},
		{"learning_progress", `
			CREATE TABLE IF NOT EXISTS learning_progress (
				user_id BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
				succeeded_count INTEGER NOT NULL DEFAULT 0,
				failed_count INTEGER NOT NULL DEFAULT 0,
				skipped_count INTEGER NOT NULL DEFAULT 0
			)`},
	}

	for _, st := range statements {
		if _, err := d.db.Exec(st.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", st.table, err)
		}
	}
	return nil
}
