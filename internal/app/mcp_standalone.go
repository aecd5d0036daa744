package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	mcpserver "design2prompt/internal/mcp"
)

// ServeMCP runs the MCP server on stdin/stdout with no GUI. Destructive
// tools wait for a running desktop shell to approve them through the
// shared database. Scheduled backups are left to the desktop shell.
func ServeMCP(ctx context.Context, core *Core) error {
	core.StartCatalogWatch(ctx)
	watcher := newLayoutWatcher(ctx, core, false)
	watcher.Start()
	defer watcher.Stop()

	srv := mcpserver.New(ctx, mcpserver.Deps{
		Emitter:     core.Emitter(),
		Canvas:      core.Canvas,
		Catalog:     core.Catalog,
		Export:      core.Export,
		Collections: core.Collections,
		Backups:     core.Backups,
		Logger:      core.Logger,
		Approvals:   core.Approvals,
	})

	core.Logger.Info("[MCP] starting standalone stdio server")
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// ServeHTTP exposes the read-mostly JSON API on addr until ctx is done.
func ServeHTTP(ctx context.Context, core *Core, addr string) error {
	if err := core.StartBackground(ctx); err != nil {
		return err
	}
	watcher := newLayoutWatcher(ctx, core, false)
	watcher.Start()
	defer watcher.Stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           core.APIHandler(nil),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		core.Logger.Info("[http] listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
