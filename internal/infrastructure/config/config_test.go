package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"STOREADMIN_APP_NAME",
	"STOREADMIN_APP_ENV",
	"STOREADMIN_APP_PORT",
	"STOREADMIN_DATABASE_HOST",
	"STOREADMIN_DATABASE_PORT",
	"STOREADMIN_DATABASE_USER",
	"STOREADMIN_DATABASE_PASSWORD",
	"STOREADMIN_DATABASE_DBNAME",
	"STOREADMIN_DATABASE_SSLMODE",
	"STOREADMIN_DATABASE_MAX_OPEN_CONNS",
	"STOREADMIN_DATABASE_MAX_IDLE_CONNS",
	"STOREADMIN_JWT_SECRET",
	"STOREADMIN_STRIPE_WEBHOOK_SECRET",
	"STOREADMIN_WEBHOOK_LEDGER",
	"STOREADMIN_KAFKA_ENABLED",
	"STOREADMIN_KAFKA_BROKERS",
	"STOREADMIN_STORAGE_ENABLED",
	"STOREADMIN_STORAGE_BUCKET",
	"STOREADMIN_TELEMETRY_METRICS_ENABLED",
	"STOREADMIN_TELEMETRY_METRICS_INTERVAL",
}

// isolateEnv clears the managed variables for the duration of the test
func isolateEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string)
	for _, k := range managedEnv {
		if v, ok := os.LookupEnv(k); ok {
			original[k] = v
		}
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range managedEnv {
			if v, ok := original[k]; ok {
				os.Setenv(k, v)
			} else {
				os.Unsetenv(k)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		isolateEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storeadmin-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "storeadmin", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, LedgerDatabase, cfg.Webhook.Ledger)
		assert.Equal(t, 72*time.Hour, cfg.Webhook.LedgerTTL)
		assert.Equal(t, "0 3 * * *", cfg.Webhook.PruneSchedule)
		assert.Equal(t, 300*time.Second, cfg.Stripe.Tolerance)
		assert.Equal(t, "orders.paid", cfg.Kafka.Topic)
		assert.False(t, cfg.Kafka.Enabled)
		assert.False(t, cfg.Storage.Enabled)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsInterval)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads metrics export settings", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STOREADMIN_TELEMETRY_METRICS_ENABLED", "true")
		os.Setenv("STOREADMIN_TELEMETRY_METRICS_INTERVAL", "15s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricsInterval)
	})

	t.Run("loads values from environment variables with STOREADMIN prefix", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STOREADMIN_APP_PORT", "9000")
		os.Setenv("STOREADMIN_DATABASE_HOST", "testdb.local")
		os.Setenv("STOREADMIN_DATABASE_PORT", "5433")
		os.Setenv("STOREADMIN_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("STOREADMIN_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("STOREADMIN_STRIPE_WEBHOOK_SECRET", "whsec_test")
		os.Setenv("STOREADMIN_WEBHOOK_LEDGER", "redis")
		os.Setenv("STOREADMIN_KAFKA_ENABLED", "true")
		os.Setenv("STOREADMIN_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "whsec_test", cfg.Stripe.WebhookSecret)
		assert.Equal(t, LedgerRedis, cfg.Webhook.Ledger)
		assert.True(t, cfg.Kafka.Enabled)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STOREADMIN_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("STOREADMIN_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown ledger backend", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STOREADMIN_WEBHOOK_LEDGER", "etcd")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook.ledger")
	})

	t.Run("requires brokers when kafka is enabled", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STOREADMIN_KAFKA_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "kafka.brokers")
	})

	t.Run("requires bucket when storage is enabled", func(t *testing.T) {
		isolateEnv(t)
		os.Setenv("STOREADMIN_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func() {
		os.Setenv("STOREADMIN_APP_ENV", "production")
		os.Setenv("STOREADMIN_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("STOREADMIN_DATABASE_PASSWORD", "secure-password")
		os.Setenv("STOREADMIN_DATABASE_SSLMODE", "require")
		os.Setenv("STOREADMIN_STRIPE_WEBHOOK_SECRET", "whsec_live")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("requires webhook secret in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Unsetenv("STOREADMIN_STRIPE_WEBHOOK_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stripe.webhook_secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STOREADMIN_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STOREADMIN_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("rejects in-memory ledger in production", func(t *testing.T) {
		isolateEnv(t)
		setValidProductionBase()
		os.Setenv("STOREADMIN_WEBHOOK_LEDGER", "memory")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "webhook.ledger=memory")
	})
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("does not override variables already set", func(t *testing.T) {
		isolateEnv(t)
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("STOREADMIN_APP_NAME=from-dotenv\nSTOREADMIN_APP_PORT=7000\n"), 0o600))
		os.Setenv("STOREADMIN_APP_PORT", "9100")

		require.NoError(t, loadDotEnv(path))

		assert.Equal(t, "from-dotenv", os.Getenv("STOREADMIN_APP_NAME"))
		assert.Equal(t, "9100", os.Getenv("STOREADMIN_APP_PORT"))
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList([]string{"a, b", "c"}))
	assert.Nil(t, splitList(nil))
}
