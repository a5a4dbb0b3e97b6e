package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nimasrn/trade-ledger/pkg/sqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv removes keys for the duration of the test. Keys loaded by
// godotenv during the test are removed again on cleanup.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		k := k
		old, had := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		t.Cleanup(func() {
			if had {
				_ = os.Setenv(k, old)
			} else {
				_ = os.Unsetenv(k)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "DB_DRIVER", "SQLITE_PATH", "SESSION_TTL", "DEFAULT_ADMIN_USERNAME",
		"DEFAULT_ADMIN_PASSWORD", "RECONCILE_INTERVAL", "RECONCILE_WORKERS", "RECONCILE_REPAIR",
		"RECONCILE_LOCK_TTL")

	require.NoError(t, Load(""))
	c := Get()

	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "customer_supplier.db", c.SQLitePath)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.Equal(t, "admin", c.DefaultAdminUsername)
	assert.Equal(t, "admin123", c.DefaultAdminPassword)
	assert.Equal(t, time.Duration(0), c.ReconcileInterval)
	assert.Equal(t, 2, c.ReconcileWorkers)
	assert.False(t, c.ReconcileRepair)
	assert.Equal(t, 5*time.Minute, c.ReconcileLockTTL)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_DRIVER=postgres\nPOSTGRES_WRITE_HOST=db\nPOSTGRES_WRITE_PORT=5433\nRECONCILE_INTERVAL=1m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables that are already set.
	unsetEnv(t, "DB_DRIVER", "POSTGRES_WRITE_HOST", "POSTGRES_WRITE_PORT", "RECONCILE_INTERVAL")

	require.NoError(t, Load(path))
	c := Get()

	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, time.Minute, c.ReconcileInterval)

	w := c.WriteDB()
	assert.Equal(t, sqldb.DriverPostgres, w.Driver)
	assert.Equal(t, "db", w.Host)
	assert.Equal(t, "5433", w.Port)
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
