package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/trade-ledger/pkg/logger"
	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every configuration value of the ledger processes. Only this
// struct must be used to read configuration; no direct access to env or any
// other config source should be made elsewhere.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=trade_ledger"`
	AppDebug            bool   `env:"APP_DEBUG,default=false"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=5s"`

	DBDriver      string `env:"DB_DRIVER,default=sqlite"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE,default=true"`
	SQLitePath    string `env:"SQLITE_PATH,default=customer_supplier.db"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=ledger:"`

	SessionTTL time.Duration `env:"SESSION_TTL,default=12h"`

	// Used only when the user table is empty on startup. Replace with
	// `cli user create` in any real deployment.
	DefaultAdminUsername string `env:"DEFAULT_ADMIN_USERNAME,default=admin"`
	DefaultAdminPassword string `env:"DEFAULT_ADMIN_PASSWORD,default=admin123"`

	PromNamespace string `env:"PROM_NAMESPACE,default=ledger"`

	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL,default=0s"`
	ReconcileWorkers  int           `env:"RECONCILE_WORKERS,default=2"`
	ReconcileRepair   bool          `env:"RECONCILE_REPAIR,default=false"`
	ReconcileLockTTL  time.Duration `env:"RECONCILE_LOCK_TTL,default=5m"`

	LogLevel string `env:"LOG_LEVEL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	_, err = env.UnmarshalFromEnviron(c)
	if err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}

	if c.LogLevel != "" {
		if err := logger.SetLevel(c.LogLevel); err != nil {
			logger.Warn("ignoring invalid LOG_LEVEL", "value", c.LogLevel, "error", err)
		}
	}

	config = c
	return nil
}

// Set installs an already built configuration, used by tests and the CLI.
func Set(c *Config) {
	config = c
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}

func (c *Config) ReadDB() sqldb.Config {
	return sqldb.Config{
		Driver:   c.DBDriver,
		Path:     c.SQLitePath,
		User:     c.PostgresReadUser,
		Host:     c.PostgresReadHost,
		Port:     c.PostgresReadPort,
		Password: c.PostgresReadPassword,
		Database: c.PostgresReadDatabase,
	}
}

func (c *Config) WriteDB() sqldb.Config {
	return sqldb.Config{
		Driver:   c.DBDriver,
		Path:     c.SQLitePath,
		User:     c.PostgresWriteUser,
		Host:     c.PostgresWriteHost,
		Port:     c.PostgresWritePort,
		Password: c.PostgresWritePassword,
		Database: c.PostgresWriteDatabase,
	}
}
