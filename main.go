package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"

	"design2prompt/internal/app"
	"design2prompt/internal/cli"
	"design2prompt/internal/service"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx, runDesktop); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runDesktop opens the Wails window over core. The JSON API is served from
// the asset handler so the frontend can fetch /api/* like a browser would.
func runDesktop(ctx context.Context, core *app.Core) error {
	defer core.Close(ctx)
	desktop := app.New(core)
	size := desktop.WindowSize()

	// macOS needs an Edit menu for Cmd+C/V/X/A to reach the WebView
	appMenu := menu.NewMenu()
	appMenu.Append(menu.EditMenu())

	return wails.Run(&options.App{
		Title:     "design2prompt",
		Width:     size.Width,
		Height:    size.Height,
		MinWidth:  service.MinWindowWidth,
		MinHeight: service.MinWindowHeight,
		AssetServer: &assetserver.Options{
			Assets:  assets,
			Handler: core.APIHandler(nil),
		},
		BackgroundColour: &options.RGBA{R: 15, G: 15, B: 20, A: 1},
		Menu:             appMenu,
		OnStartup:        desktop.Startup,
		OnShutdown:       desktop.Shutdown,
		Bind: []interface{}{
			desktop,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: true,
				HideTitle:                  true,
				FullSizeContent:            true,
				UseToolbar:                 true,
				HideToolbarSeparator:       true,
			},
			About: &mac.AboutInfo{
				Title:   "design2prompt",
				Message: "Compose UI components on a canvas and export them as AI prompts",
			},
		},
	})
}
