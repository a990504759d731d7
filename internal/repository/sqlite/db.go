package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName    = "sqlite"
	maxOpenConns  = 10
	dbPingTimeout = 5 * time.Second
)

// DB is the process-wide connection pool handle. It is constructed once and
// passed explicitly to every repository; nothing in this package reaches for
// a hidden singleton.
type DB struct {
	*sql.DB
}

// Open opens the database file with the pragmas the consistency protocol
// depends on: foreign keys enforced and a busy timeout so concurrent writers
// queue instead of failing immediately.
func Open(path string) (*DB, error) {
	db, err := sql.Open(driverName, dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + path + "?" + q.Encode()
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}
