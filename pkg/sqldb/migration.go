package sqldb

import (
	"database/sql"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/pressly/goose/v3"
)

// Migrate applies the goose migrations found under <driver>/ in fsys.
// PostgreSQL migrations run over a dedicated lib/pq connection; SQLite reuses
// the write handle since a second connection to an in-memory file would see a
// different database.
func Migrate(db *DB, cfg Config, fsys fs.FS) error {
	goose.SetBaseFS(fsys)
	goose.SetLogger(logger.GetLogger())

	var (
		conn *sql.DB
		err  error
	)
	switch cfg.driver() {
	case DriverPostgres:
		if err = goose.SetDialect("postgres"); err != nil {
			return err
		}
		conn, err = newPostgresConnection(cfg)
		if err != nil {
			return err
		}
		defer conn.Close()
	default:
		if err = goose.SetDialect("sqlite3"); err != nil {
			return err
		}
		conn, err = db.write.DB()
		if err != nil {
			return err
		}
	}

	return goose.Up(conn, cfg.driver())
}

// Version reports the current applied migration version.
func Version(db *DB, cfg Config, fsys fs.FS) (int64, error) {
	goose.SetBaseFS(fsys)
	dialect := "sqlite3"
	if cfg.driver() == DriverPostgres {
		dialect = "postgres"
	}
	if err := goose.SetDialect(dialect); err != nil {
		return 0, err
	}
	conn, err := db.write.DB()
	if err != nil {
		return 0, err
	}
	return goose.GetDBVersion(conn)
}
