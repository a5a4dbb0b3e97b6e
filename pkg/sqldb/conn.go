package sqldb

import (
	"database/sql"
	"fmt"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string `env:"DRIVER"`

	// SQLite
	Path string `env:"SQLITE_PATH"`

	// PostgreSQL
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
}

func (c Config) driver() string {
	if c.Driver == "" {
		return DriverSQLite
	}
	return strings.ToLower(c.Driver)
}

func (c Config) postgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", c.Host, c.User, c.Password, c.Database, c.Port)
}

// sqliteDSN enables foreign keys on every connection. WAL is skipped for
// in-memory databases where it has no effect.
func (c Config) sqliteDSN() string {
	path := c.Path
	if path == "" {
		path = "customer_supplier.db"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn := path + sep + "_foreign_keys=on&_busy_timeout=5000"
	if !strings.Contains(path, ":memory:") && !strings.Contains(path, "mode=memory") {
		dsn += "&_journal_mode=WAL"
	}
	return dsn
}

func newPostgresConnection(config Config) (*sql.DB, error) {
	return sql.Open("postgres", config.postgresDSN())
}
