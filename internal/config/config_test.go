package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"design2prompt/internal/domain"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, 20.0, cfg.Grid.CellSize)
	assert.True(t, cfg.WatchCatalog())
	assert.Equal(t, domain.DefaultGrid(), cfg.GridDefaults())
}

func TestLoad_OverridesAndExpands(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := Load(writeFile(t, `
[storage]
path = "~/canvas/test.db"

[catalog]
watch = false

[grid]
cell_size = 10
snap = false

[backup]
schedule = ""
keep = 2

[log]
level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "canvas", "test.db"), cfg.Storage.Path)
	assert.False(t, cfg.WatchCatalog())
	assert.Equal(t, domain.GridConfig{CellSize: 10, Visible: true, SnapEnabled: false}, cfg.GridDefaults())
	assert.Empty(t, cfg.Backup.Schedule)
	assert.Equal(t, 2, cfg.Backup.Keep)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "127.0.0.1:7420", cfg.Server.Addr, "untouched sections keep defaults")
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":    "[grid]\ncell = 5\n",
		"bad backend":    "[storage]\nbackend = \"oracle\"\n",
		"mysql no dsn":   "[storage]\nbackend = \"mysql\"\n",
		"zero cell":      "[grid]\ncell_size = 0\n",
		"sub-pixel cell": "[grid]\ncell_size = 0.5\n",
		"negative keep":  "[backup]\nkeep = -1\n",
		"malformed toml": "[grid\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, body))
			assert.Error(t, err)
		})
	}
}

type fixedSecrets map[string]string

func (f fixedSecrets) Set(string, []byte) error { return nil }
func (f fixedSecrets) Get(k string) ([]byte, error) {
	if v, ok := f[k]; ok {
		return []byte(v), nil
	}
	return nil, nil
}
func (f fixedSecrets) Delete(string) error { return nil }

func TestResolveDSN(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "postgres"
	cfg.Storage.DSN = "postgres://app:<password>@db:5432/canvas"

	dsn, err := cfg.ResolveDSN(fixedSecrets{"db-password": "pw"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://app:pw@db:5432/canvas", dsn)

	dsn, err = cfg.ResolveDSN(fixedSecrets{})
	require.NoError(t, err)
	assert.Equal(t, cfg.Storage.DSN, dsn, "no secret leaves the placeholder")
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Server.Addr = ":9000"
	require.NoError(t, Write(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", got.Server.Addr)
	assert.Equal(t, cfg.Backup, got.Backup)
}
