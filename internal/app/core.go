package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"design2prompt/internal/canvas"
	"design2prompt/internal/catalog"
	"design2prompt/internal/config"
	"design2prompt/internal/domain"
	"design2prompt/internal/httpapi"
	"design2prompt/internal/secret"
	"design2prompt/internal/service"
	"design2prompt/internal/storage"
)

// relayEmitter forwards to whichever emitter is attached. The desktop shell
// attaches the Wails emitter once it has a runtime context; until then
// events are dropped.
type relayEmitter struct {
	target atomic.Pointer[service.EventEmitter]
}

func (r *relayEmitter) Attach(e service.EventEmitter) { r.target.Store(&e) }

func (r *relayEmitter) Emit(ctx context.Context, event string, data any) {
	if e := r.target.Load(); e != nil {
		(*e).Emit(ctx, event, data)
	}
}

// Core is everything the desktop shell, the MCP server and the HTTP API
// share: storage, the catalog and the services on top of them.
type Core struct {
	Config *config.Config
	Logger *log.Logger

	DB        *storage.DB
	mongo     *storage.MongoLayoutStore
	Layouts   domain.LayoutDocumentStore
	Settings  *storage.SettingsStore
	Approvals *storage.ApprovalStore

	Catalog *catalog.Registry
	Watcher *catalog.Watcher

	Canvas      *service.CanvasService
	Export      *service.ExportService
	Collections *service.CollectionService
	Backups     *service.BackupService
	Window      *service.WindowSettingsService

	emitter   *relayEmitter
	closeOnce sync.Once
	closeErr  error
}

// Open wires the core from cfg. Collections, settings and approvals always
// live in SQL; the layout document goes to MongoDB when the backend is
// "mongo".
func Open(ctx context.Context, cfg *config.Config, secrets secret.SecretStore, logger *log.Logger) (*Core, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Core{Config: cfg, Logger: logger, emitter: &relayEmitter{}}

	dsn, err := cfg.ResolveDSN(secrets)
	if err != nil {
		return nil, err
	}

	if err := c.openStorage(ctx, dsn); err != nil {
		return nil, err
	}

	c.Catalog = catalog.NewRegistry()
	c.Watcher = catalog.NewWatcher(cfg.Catalog.Dir, c.Catalog, logger)
	c.Watcher.Reload()

	store := canvas.NewLayoutStore(canvas.DefaultViewports(), c.Layouts, logger)
	if store.Document().UpdatedAt.IsZero() {
		g := cfg.GridDefaults()
		store.SetGrid(domain.GridPatch{CellSize: &g.CellSize, Visible: &g.Visible, SnapEnabled: &g.SnapEnabled})
	}

	c.Canvas = service.NewCanvasService(store, c.Catalog, c.emitter, logger)
	c.Export = service.NewExportService(store, c.Catalog)
	c.Collections = service.NewCollectionService(storage.NewCollectionStore(c.DB), c.Catalog, c.emitter)
	c.Backups = service.NewBackupService(c.Canvas.Layout, cfg.Backup.Dir, cfg.Backup.Keep, c.emitter, logger)
	c.Window = service.NewWindowSettingsService(c.Settings)

	c.Watcher.OnReload(func() {
		c.emitter.Emit(context.Background(), service.EventCatalogChanged, c.Catalog.Categories())
	})
	return c, nil
}

// openStorage connects the SQL database and, for the mongo backend, the
// layout collection.
func (c *Core) openStorage(ctx context.Context, dsn string) error {
	st := c.Config.Storage
	var err error
	switch st.Backend {
	case "sqlite", "mongo":
		c.DB, err = storage.New(st.Path)
	default:
		c.DB, err = storage.Open(st.Backend, dsn)
	}
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	c.Layouts = storage.NewLayoutDocumentStore(c.DB)
	if st.Backend == "mongo" {
		c.mongo, err = storage.NewMongoLayoutStore(ctx, dsn, st.Database)
		if err != nil {
			c.DB.Close()
			return err
		}
		c.Layouts = c.mongo
	}
	c.Settings = storage.NewSettingsStore(c.DB)
	c.Approvals = storage.NewApprovalStore(c.DB)
	c.Logger.Info("[storage] opened", "backend", st.Backend)
	return nil
}

// SetEmitter attaches the front end that receives service events.
func (c *Core) SetEmitter(e service.EventEmitter) {
	c.emitter.Attach(e)
}

func (c *Core) Emitter() service.EventEmitter { return c.emitter }

// APIHandler is the JSON API; unknown paths go to fallback when non-nil.
func (c *Core) APIHandler(fallback http.Handler) http.Handler {
	return httpapi.New(httpapi.Deps{
		Canvas:      c.Canvas,
		Export:      c.Export,
		Catalog:     c.Catalog,
		Collections: c.Collections,
		Logger:      c.Logger,
	}).Handler(fallback)
}

// StartBackground starts catalog hot reload and scheduled backups as the
// config asks.
func (c *Core) StartBackground(ctx context.Context) error {
	c.StartCatalogWatch(ctx)
	return c.Backups.Start(ctx, c.Config.Backup.Schedule)
}

// StartCatalogWatch hot-reloads the catalog directory unless disabled. A
// directory that cannot be watched is logged, not fatal.
func (c *Core) StartCatalogWatch(ctx context.Context) {
	if !c.Config.WatchCatalog() {
		return
	}
	if err := c.Watcher.Start(ctx); err != nil {
		c.Logger.Warn("[catalog] watch disabled", "dir", c.Config.Catalog.Dir, "err", err)
	}
}

// Close stops background work and closes the stores. Later calls return
// the first result.
func (c *Core) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.Watcher.Stop()
		c.Backups.Stop(ctx)
		var errs []error
		if c.mongo != nil {
			errs = append(errs, c.mongo.Close())
		}
		if c.DB != nil {
			errs = append(errs, c.DB.Close())
		}
		c.closeErr = errors.Join(errs...)
	})
	return c.closeErr
}
