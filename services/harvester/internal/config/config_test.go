package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultFolder, cfg.Folder)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultLoginURL, cfg.Auth.LoginURL)
	assert.Equal(t, DefaultGraphURL, cfg.Graph.APIURL)
	assert.Equal(t, DefaultTimeout, cfg.HTTP.Timeout)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
tenant_id: tenant-1
client_id: client-1
client_secret: s3cret
mailbox: SPF_review@example.com
folder: SPF
output: out.csv
auth:
  login_url: http://localhost:8080/login/
graph:
  api_url: http://localhost:8080/graph/v1.0/
http:
  timeout: 5s
archive:
  enabled: true
database:
  url: postgres://localhost/harvest
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, Credentials{TenantID: "tenant-1", ClientID: "client-1", ClientSecret: "s3cret"}, cfg.Credentials)
	assert.Equal(t, "SPF_review@example.com", cfg.Mailbox)
	assert.Equal(t, "SPF", cfg.Folder)
	assert.Equal(t, "out.csv", cfg.Output)
	assert.Equal(t, "http://localhost:8080/login", cfg.Auth.LoginURL)
	assert.Equal(t, "http://localhost:8080/graph/v1.0", cfg.Graph.APIURL)
	assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "postgres://localhost/harvest", cfg.Database.URL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HARVESTER_TENANT_ID", "env-tenant")
	t.Setenv("HARVESTER_GRAPH_API_URL", "http://graph.test")

	v := viper.New()
	v.SetEnvPrefix("HARVESTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "env-tenant", cfg.TenantID)
	assert.Equal(t, "http://graph.test", cfg.Graph.APIURL)
}

func TestValidateReportsAllMissing(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	cfg.Archive.Enabled = true

	err = cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"tenant_id", "client_id", "client_secret", "mailbox", "database.url"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "folder")
}

func TestValidateNegativeTimeout(t *testing.T) {
	v := viper.New()
	v.Set("tenant_id", "t")
	v.Set("client_id", "c")
	v.Set("client_secret", "s")
	v.Set("mailbox", "m@example.com")
	v.Set("http.timeout", "-1s")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.Validate(), "http.timeout")
}
