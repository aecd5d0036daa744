package app

import (
	"context"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"design2prompt/internal/service"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx     context.Context
	core    *Core
	watcher *layoutWatcher
}

// New creates the desktop shell over an opened core.
func New(core *Core) *App {
	return &App{core: core}
}

// WindowSize is the size the main window should open with.
func (a *App) WindowSize() service.WindowSize {
	return a.core.Window.LoadWindowSize()
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.core.SetEmitter(wailsEmitter{ctx: ctx})

	if err := a.core.StartBackground(ctx); err != nil {
		a.core.Logger.Error("[app] background jobs", "err", err)
	}
	a.core.Canvas.SetZoom(a.core.Window.LoadZoom())

	a.watcher = newLayoutWatcher(ctx, a.core, true)
	a.watcher.Start()
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	w, h := wailsRuntime.WindowGetSize(ctx)
	if err := a.core.Window.SaveWindowSize(w, h); err != nil {
		a.core.Logger.Warn("[app] save window size", "err", err)
	}
	if err := a.core.Close(ctx); err != nil {
		a.core.Logger.Error("[app] close", "err", err)
	}
}

// ============================================================
// Window
// ============================================================

// SaveWindowSize is called by the frontend on resize (debounced).
func (a *App) SaveWindowSize(width, height int) error {
	return a.core.Window.SaveWindowSize(width, height)
}

// SetZoom records the canvas zoom for gesture math and the next session.
func (a *App) SetZoom(z float64) error {
	a.core.Canvas.SetZoom(z)
	return a.core.Window.SaveZoom(z)
}

func (a *App) GetZoom() float64 { return a.core.Window.LoadZoom() }
