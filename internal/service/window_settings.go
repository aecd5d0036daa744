package service

import (
	"strconv"

	"design2prompt/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WindowSettingsService remembers the desktop window size and the canvas
// zoom between sessions.
type WindowSettingsService struct {
	settings *storage.SettingsStore
}

func NewWindowSettingsService(settings *storage.SettingsStore) *WindowSettingsService {
	return &WindowSettingsService{settings: settings}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	settingCanvasZoom   = "canvas_zoom"
	defaultWindowWidth  = 1440
	defaultWindowHeight = 900
	MinWindowWidth      = 800
	MinWindowHeight     = 600
)

func (s *WindowSettingsService) intSetting(key string, fallback, floor int) int {
	if s.settings == nil {
		return fallback
	}
	raw, ok, err := s.settings.Get(key)
	if err != nil || !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < floor {
		return fallback
	}
	return v
}

// LoadWindowSize returns the saved window dimensions, or the defaults.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	return WindowSize{
		Width:  s.intSetting(settingWindowWidth, defaultWindowWidth, MinWindowWidth),
		Height: s.intSetting(settingWindowHeight, defaultWindowHeight, MinWindowHeight),
	}
}

func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.settings == nil {
		return nil
	}
	if err := s.settings.Set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.settings.Set(settingWindowHeight, strconv.Itoa(height))
}

// LoadZoom returns the last canvas zoom, 1 when unset or invalid.
func (s *WindowSettingsService) LoadZoom() float64 {
	if s.settings == nil {
		return 1
	}
	raw, ok, err := s.settings.Get(settingCanvasZoom)
	if err != nil || !ok {
		return 1
	}
	z, err := strconv.ParseFloat(raw, 64)
	if err != nil || z <= 0 {
		return 1
	}
	return z
}

func (s *WindowSettingsService) SaveZoom(z float64) error {
	if s.settings == nil || z <= 0 {
		return nil
	}
	return s.settings.Set(settingCanvasZoom, strconv.FormatFloat(z, 'f', -1, 64))
}
