package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"design2prompt/internal/domain"
	"design2prompt/internal/secret"
	"design2prompt/internal/storage"
)

const appName = "design2prompt"

// Config is the user configuration read from
// $XDG_CONFIG_HOME/design2prompt/config.toml.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Catalog CatalogConfig `toml:"catalog"`
	Backup  BackupConfig  `toml:"backup"`
	Grid    GridConfig    `toml:"grid"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

type StorageConfig struct {
	Backend  string `toml:"backend"`  // sqlite (default), mysql, postgres, mongo
	Path     string `toml:"path"`     // sqlite file; also holds collections when backend is mongo
	DSN      string `toml:"dsn"`      // mysql/postgres DSN or mongodb URI; may contain <password>
	Database string `toml:"database"` // mongo database name
	// PasswordSecret names the secret substituted for <password> in DSN.
	PasswordSecret string `toml:"password_secret"`
}

type CatalogConfig struct {
	Dir   string `toml:"dir"`
	Watch *bool  `toml:"watch"`
}

type BackupConfig struct {
	Schedule string `toml:"schedule"` // cron expression; empty disables
	Dir      string `toml:"dir"`
	Keep     int    `toml:"keep"`
}

type GridConfig struct {
	CellSize float64 `toml:"cell_size"`
	Visible  *bool   `toml:"visible"`
	Snap     *bool   `toml:"snap"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:        string(storage.DialectSQLite),
			Path:           filepath.Join(xdg.DataHome, appName, "canvas.db"),
			Database:       appName,
			PasswordSecret: "db-password",
		},
		Catalog: CatalogConfig{Dir: filepath.Join(xdg.ConfigHome, appName, "components")},
		Backup: BackupConfig{
			Schedule: "@every 30m",
			Dir:      filepath.Join(xdg.DataHome, appName, "backups"),
			Keep:     10,
		},
		Grid: GridConfig{CellSize: domain.DefaultGrid().CellSize},
		Log:  LogConfig{Level: "info"},
		Server: ServerConfig{
			Addr: "127.0.0.1:7420",
		},
	}
}

// Path returns the config file location, whether or not it exists.
func Path() (string, error) {
	if p, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml")); err == nil {
		return p, nil
	}
	return xdg.ConfigFile(filepath.Join(appName, "config.toml"))
}

// Load reads path, or the XDG location when path is empty. A missing file
// yields the defaults. Unknown keys are an error so typos surface.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys %s: %w", path, strings.Join(keys, ", "), domain.ErrInvalidInput)
	}
	cfg.expand()
	return cfg, cfg.Validate()
}

// expand resolves a leading ~ in path settings.
func (c *Config) expand() {
	for _, p := range []*string{&c.Storage.Path, &c.Catalog.Dir, &c.Backup.Dir} {
		if strings.HasPrefix(*p, "~/") {
			if home, err := os.UserHomeDir(); err == nil {
				*p = filepath.Join(home, (*p)[2:])
			}
		}
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "sqlite", "mysql", "postgres", "mongo":
	default:
		return fmt.Errorf("storage.backend %q: %w", c.Storage.Backend, domain.ErrInvalidInput)
	}
	if c.Storage.Backend != "sqlite" && c.Storage.DSN == "" {
		return fmt.Errorf("storage.dsn is required for %s: %w", c.Storage.Backend, domain.ErrInvalidInput)
	}
	if c.Grid.CellSize < domain.MinCellSize {
		return fmt.Errorf("grid.cell_size must be at least %g: %w", domain.MinCellSize, domain.ErrInvalidInput)
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must not be negative: %w", domain.ErrInvalidInput)
	}
	return nil
}

// WatchCatalog reports whether the catalog directory is hot-reloaded.
func (c *Config) WatchCatalog() bool {
	return c.Catalog.Watch == nil || *c.Catalog.Watch
}

// GridDefaults is the grid a fresh layout starts with.
func (c *Config) GridDefaults() domain.GridConfig {
	g := domain.DefaultGrid()
	g.CellSize = c.Grid.CellSize
	if c.Grid.Visible != nil {
		g.Visible = *c.Grid.Visible
	}
	if c.Grid.Snap != nil {
		g.SnapEnabled = *c.Grid.Snap
	}
	return g
}

// ResolveDSN substitutes the stored password into the DSN.
func (c *Config) ResolveDSN(secrets secret.SecretStore) (string, error) {
	dsn := c.Storage.DSN
	if secrets == nil || c.Storage.PasswordSecret == "" || !strings.Contains(dsn, "<") {
		return dsn, nil
	}
	pw, err := secrets.Get(c.Storage.PasswordSecret)
	if err != nil {
		return "", fmt.Errorf("read secret %s: %w", c.Storage.PasswordSecret, err)
	}
	if len(pw) == 0 {
		return dsn, nil
	}
	return storage.ExpandPassword(dsn, string(pw)), nil
}

// Write saves cfg as TOML at path, creating the directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
