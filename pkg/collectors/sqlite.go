package collectors

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/yair/eventify/pkg/filters"
)

// DriverName is the sqlite3 driver with the eventify SQL functions loaded.
const DriverName = "sqlite3_eventify"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			// SQLite's lower() only folds ASCII; district and title matching
			// needs Unicode folding to agree with the in-memory evaluator.
			return conn.RegisterFunc(filters.LowerFunc, strings.ToLower, true)
		},
	})
}

// NewSQLiteDB opens the database at path and verifies the connection.
func NewSQLiteDB(path string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}
