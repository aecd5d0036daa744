package app

import (
	"context"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// wailsEmitter pushes service events to the WebView.
type wailsEmitter struct {
	ctx context.Context
}

func (e wailsEmitter) Emit(_ context.Context, event string, data any) {
	wailsRuntime.EventsEmit(e.ctx, event, data)
}
