package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[server]
http_port = 9090
shutdown_timeout = 5

[logs]
level = "debug"

[metrics]
enabled = true
path = "/metrics"
service_name = "coach"

[cors]
allowed_origins = ["https://coach.example"]

[admin]
password = "from-file"

[site]
public_base_url = "https://coach.example"

[storage]
driver = "postgres"

[database]
host = "db"
port = 5433
user = "coach"
password = "pw"
dbname = "coach"
sslmode = "require"

[email]
provider = "ses"
from_email = "noreply@coach.example"
coach_email = "coach@coach.example"

[notifications]
mode = "queue"

[redis]
addr = "redis:6379"

[ratelimit]
rps = 1.5
burst = 3
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

func TestLoad_File(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, t.TempDir(), "config.toml", sampleTOML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 5, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10, cfg.Server.ReadTimeout, "defaults survive partial sections")
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, []string{"https://coach.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "slot:", cfg.Storage.KeyPrefix)
	assert.Equal(t, "host=db port=5433 user=coach password=pw dbname=coach sslmode=require", cfg.Database.DSN())
	assert.Equal(t, ModeQueue, cfg.Notifications.Mode)
	assert.Equal(t, 1.5, cfg.RateLimit.RPS)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, t.TempDir(), "config.toml", sampleTOML)

	t.Setenv("ADMIN_PASSWORD", "from-env")
	t.Setenv("DATABASE_DSN", "postgres://coach@db/coach")
	t.Setenv("REDIS_URL", "redis://:pw@cache:6379/1")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Admin.Password)
	assert.Equal(t, "postgres://coach@db/coach", cfg.Database.DSN())
	assert.Equal(t, "redis://:pw@cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.RateLimit.TrustedProxies)

	t.Setenv("HTTP_PORT", "eighty")
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", "SENDGRID_API_KEY=SG.test\nEMAIL_PROVIDER=sendgrid\nEMAIL_FROM=noreply@coach.example\nCOACH_EMAIL=coach@coach.example\n")
	t.Cleanup(func() {
		for _, key := range []string{"SENDGRID_API_KEY", "EMAIL_PROVIDER", "EMAIL_FROM", "COACH_EMAIL"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := Load("missing.toml")
	require.NoError(t, err)
	assert.Equal(t, ProviderSendGrid, cfg.Email.Provider)
	assert.Equal(t, "SG.test", cfg.Email.SendGridAPIKey)
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("missing.toml")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)

	t.Setenv("CONFIG_PATH", "missing.toml")
	assert.Equal(t, "missing.toml", Path())
	_, err = Load(Path())
	assert.Error(t, err)
}

func TestLoad_BrokenFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeFile(t, t.TempDir(), "config.toml", "[server\nhttp_port = ")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"memory driver", func(c *Config) { c.Storage.Driver = DriverMemory }, true},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }, false},
		{"dynamodb without table", func(c *Config) { c.Storage.Driver = DriverDynamoDB; c.DynamoDB.Table = "" }, false},
		{"unknown mode", func(c *Config) { c.Notifications.Mode = "carrier-pigeon" }, false},
		{"async without workers", func(c *Config) { c.Notifications.Workers = 0 }, false},
		{"sendgrid without key", func(c *Config) {
			c.Email.Provider = ProviderSendGrid
			c.Email.FromEmail = "a@b.c"
			c.Email.CoachEmail = "c@b.c"
		}, false},
		{"ses without coach email", func(c *Config) { c.Email.Provider = ProviderSES; c.Email.FromEmail = "a@b.c" }, false},
		{"relative base url", func(c *Config) { c.Site.PublicBaseURL = "coach.example" }, false},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 70000 }, false},
		{"metrics path", func(c *Config) { c.Metrics.Enabled = true; c.Metrics.Path = "metrics" }, false},
		{"trusted proxies", func(c *Config) { c.RateLimit.TrustedProxies = []string{"10.0.0.0/8", "::1"} }, true},
		{"bad trusted proxy", func(c *Config) { c.RateLimit.TrustedProxies = []string{"lb.internal"} }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
