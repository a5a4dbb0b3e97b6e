package sqldb

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type txContextKey string

const txKey txContextKey = "trx"

// DB holds separate read and write handles. Repositories call Write/Read with
// the request context; inside WithinTransaction both resolve to the open
// transaction so a record write and its balance update commit together.
type DB struct {
	read   *gorm.DB
	write  *gorm.DB
	driver string
}

func Create(config Config, withDebug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.driver() {
	case DriverPostgres:
		dialector = postgres.Open(config.postgresDSN())
	case DriverSQLite:
		dialector = sqlite.Open(config.sqliteDSN())
	default:
		return nil, fmt.Errorf("sqldb: unsupported driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector,
		&gorm.Config{
			NamingStrategy: schema.NamingStrategy{
				SingularTable: true,
			},
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		})
	if err != nil {
		return nil, err
	}

	if config.driver() == DriverSQLite {
		// SQLite allows a single writer; one pooled connection serializes
		// balance updates instead of surfacing SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if withDebug {
		db = db.Debug()
	}
	return db, nil
}

func CreateReadWrite(readConfig Config, writeConfig Config, withDebug bool) (*DB, error) {
	write, err := Create(writeConfig, withDebug)
	if err != nil {
		return nil, err
	}
	// SQLite has one file and one connection; reuse the writer for reads.
	if writeConfig.driver() == DriverSQLite {
		return &DB{read: write, write: write, driver: DriverSQLite}, nil
	}
	read, err := Create(readConfig, withDebug)
	if err != nil {
		return nil, err
	}
	return &DB{read: read, write: write, driver: writeConfig.driver()}, nil
}

// Wrap builds a DB from already opened gorm handles.
func Wrap(read, write *gorm.DB, driver string) *DB {
	return &DB{read: read, write: write, driver: driver}
}

func (r *DB) Driver() string {
	return r.driver
}

func (r *DB) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return fn(ctx)
	}
	return r.write.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ctx = context.WithValue(ctx, txKey, tx)
		return fn(ctx)
	})
}

func (r *DB) Write(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	tx = r.write.WithContext(ctx)

	return tx
}

func (r *DB) Read(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	if ok {
		return tx
	}

	tx = r.read.WithContext(ctx)

	return tx
}

// Ping checks the write connection.
func (r *DB) Ping(ctx context.Context) error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *DB) Close() error {
	seen := map[*gorm.DB]bool{}
	for _, g := range []*gorm.DB{r.write, r.read} {
		if g == nil || seen[g] {
			continue
		}
		seen[g] = true
		sqlDB, err := g.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.Close(); err != nil {
			return err
		}
	}
	return nil
}
