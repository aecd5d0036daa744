package app

import (
	"fmt"
	"os"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"design2prompt/internal/catalog"
	"design2prompt/internal/domain"
)

// ============================================================
// Catalog
// ============================================================

// ListCatalog returns definitions matching query within category; both may
// be empty.
func (a *App) ListCatalog(query, category string) []domain.CatalogDefinition {
	return a.core.Catalog.Filter(query, category)
}

func (a *App) ListCategories() []catalog.CategoryCount { return a.core.Catalog.Categories() }

func (a *App) GetCatalogEntry(refID string) (domain.CatalogDefinition, error) {
	def, ok := a.core.Catalog.Lookup(refID)
	if !ok {
		return domain.CatalogDefinition{}, fmt.Errorf("catalog entry %q: %w", refID, domain.ErrNotFound)
	}
	return def, nil
}

// OpenDeepLink decodes ?component=&config= from a shared URL.
func (a *App) OpenDeepLink(refID, blob string) domain.WorkingConfig {
	return a.core.Export.DeepLink(refID, blob)
}

// ShareLink encodes params as the config query value.
func (a *App) ShareLink(params domain.StyleParams) (string, error) {
	return a.core.Export.ShareBlob(params)
}

// ============================================================
// Export
// ============================================================

func (a *App) ComponentPrompt(refID string, params domain.StyleParams) (string, error) {
	return a.core.Export.ComponentPrompt(refID, params)
}

func (a *App) InstancePrompt(id string) (string, error) { return a.core.Export.InstancePrompt(id) }
func (a *App) LayoutPrompt() (string, error)            { return a.core.Export.LayoutPrompt() }

// CopyPrompt renders the prompt for an instance, or the whole layout when
// id is empty, and puts it on the clipboard.
func (a *App) CopyPrompt(id string) (string, error) {
	var (
		text string
		err  error
	)
	if id == "" {
		text, err = a.core.Export.LayoutPrompt()
	} else {
		text, err = a.core.Export.InstancePrompt(id)
	}
	if err != nil {
		return "", err
	}
	if err := wailsRuntime.ClipboardSetText(a.ctx, text); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return text, nil
}

// ExportLayoutJSON asks where to save the layout and writes it there.
// It returns "" when the dialog is cancelled.
func (a *App) ExportLayoutJSON() (string, error) {
	data, err := a.core.Export.LayoutJSON()
	if err != nil {
		return "", err
	}
	path, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:           "Export Layout",
		DefaultFilename: "layout.json",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "JSON (*.json)", Pattern: "*.json"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write layout: %w", err)
	}
	return path, nil
}

// ImportLayoutJSON replaces the canvas with a layout file the user picks.
func (a *App) ImportLayoutJSON() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Import Layout",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "JSON (*.json)", Pattern: "*.json"},
		},
	})
	if err != nil || path == "" {
		return "", err
	}
	doc, err := a.core.Backups.Load(path)
	if err != nil {
		return "", err
	}
	a.core.Canvas.Import(*doc)
	return path, nil
}
