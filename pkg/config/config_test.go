package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
server:
  addr: ":9000"
  read_timeout: 5s
manifest:
  source: s3
  s3:
    bucket: assets
    endpoint: http://localhost:9000
    use_path_style: true
desktop:
  max_desktops: 3
kv:
  driver: sqlite
  dsn: /tmp/kv.db
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset fields keep defaults")
	assert.Equal(t, "s3", cfg.Manifest.Source)
	assert.Equal(t, "assets", cfg.Manifest.S3.Bucket)
	assert.Equal(t, "filesystem-manifest.json", cfg.Manifest.S3.Key)
	assert.True(t, cfg.Manifest.S3.UsePathStyle)
	assert.Equal(t, 3, cfg.Desktop.MaxDesktops)
	assert.Equal(t, 1440, cfg.Desktop.ViewportWidth)
	assert.Equal(t, "sqlite", cfg.KV.Driver)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WEBDESK_ADDR", ":7070")
	t.Setenv("WEBDESK_MANIFEST_WATCH", "true")
	t.Setenv("WEBDESK_MAX_DESKTOPS", "12")
	t.Setenv("WEBDESK_SKIP_BOOT", "not-a-bool")
	t.Setenv("WEBDESK_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("WEBDESK_LOG_LEVEL", "warn")

	cfg, err := Load(writeFile(t, "server:\n  addr: \":9000\"\n"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr, "environment wins over the file")
	assert.True(t, cfg.Manifest.Watch)
	assert.Equal(t, 12, cfg.Desktop.MaxDesktops)
	assert.False(t, cfg.Desktop.SkipBoot, "unparsable values fall back")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config")

	tests := map[string]string{
		"source":   "manifest:\n  source: ftp\n",
		"http url": "manifest:\n  source: http\n",
		"watch":    "manifest:\n  source: http\n  url: http://x\n  watch: true\n",
		"driver":   "kv:\n  driver: redis\n",
		"dsn":      "kv:\n  driver: postgres\n",
		"tls":      "server:\n  tls_cert_file: cert.pem\n",
		"viewport": "desktop:\n  viewport_width: 0\n",
		"format":   "logging:\n  format: xml\n",
	}
	for name, body := range tests {
		_, err := Load(writeFile(t, body))
		assert.Error(t, err, name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Desktop.SkipBoot = true
	cfg.Server.IdleTimeout = time.Minute

	path := filepath.Join(t.TempDir(), "nested", "webdesk.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestTLSEnabled(t *testing.T) {
	assert.False(t, ServerConfig{}.TLSEnabled())
	assert.True(t, ServerConfig{TLSCertFile: "c", TLSKeyFile: "k"}.TLSEnabled())
}
