package app

import (
	"path/filepath"

	"design2prompt/internal/domain"
	"design2prompt/internal/service"
	"design2prompt/internal/storage"
)

// ============================================================
// Collections
// ============================================================

func (a *App) ListCollections() ([]domain.Collection, error) { return a.core.Collections.List() }

func (a *App) CreateCollection(name, description string) (*domain.Collection, error) {
	return a.core.Collections.Create(a.ctx, name, description)
}

func (a *App) RenameCollection(id, name, description string) (*domain.Collection, error) {
	return a.core.Collections.Update(a.ctx, id, name, description)
}

func (a *App) DeleteCollection(id string) error {
	return a.core.Collections.Delete(a.ctx, id)
}

// SaveInstanceToCollection stores the current configuration of a placed
// instance.
func (a *App) SaveInstanceToCollection(collectionID, instanceID, name string) (*domain.SavedComponent, error) {
	inst, err := a.core.Canvas.Instance(instanceID)
	if err != nil {
		return nil, err
	}
	return a.core.Collections.SaveComponent(a.ctx, collectionID, inst.RefID, name, inst.StyleParams)
}

func (a *App) SaveComponentToCollection(collectionID, refID, name string, params domain.StyleParams) (*domain.SavedComponent, error) {
	return a.core.Collections.SaveComponent(a.ctx, collectionID, refID, name, params)
}

func (a *App) UpdateSavedComponent(collectionID, componentID, name string, params domain.StyleParams) (*domain.SavedComponent, error) {
	return a.core.Collections.UpdateComponent(a.ctx, collectionID, componentID, name, params)
}

func (a *App) RemoveSavedComponent(collectionID, componentID string) error {
	return a.core.Collections.RemoveComponent(a.ctx, collectionID, componentID)
}

// PlaceSavedComponent puts a saved configuration on the canvas.
func (a *App) PlaceSavedComponent(collectionID, componentID string) (domain.PlacedInstance, error) {
	sc, err := a.core.Collections.Component(collectionID, componentID)
	if err != nil {
		return domain.PlacedInstance{}, err
	}
	return a.core.Canvas.Place(service.PlaceInput{RefID: sc.RefID, StyleParams: sc.StyleParams})
}

// ============================================================
// Backups
// ============================================================

// ListBackups returns backup file names, newest first.
func (a *App) ListBackups() ([]string, error) {
	paths, err := a.core.Backups.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names, nil
}

func (a *App) RunBackup() (string, error) {
	path, err := a.core.Backups.RunOnce(a.ctx)
	if err != nil || path == "" {
		return "", err
	}
	return filepath.Base(path), nil
}

// RestoreBackup replaces the canvas with a backup. The frontend confirms
// before calling.
func (a *App) RestoreBackup(name string) error {
	doc, err := a.core.Backups.LoadByName(name)
	if err != nil {
		return err
	}
	a.core.Canvas.Import(*doc)
	return nil
}

// ============================================================
// MCP approvals
// ============================================================

// ListPendingApprovals returns destructive MCP actions waiting for the user.
func (a *App) ListPendingApprovals() ([]storage.PendingApproval, error) {
	return a.core.Approvals.Pending()
}

func (a *App) ApproveAction(id string) error { return a.core.Approvals.Resolve(id, true) }
func (a *App) RejectAction(id string) error  { return a.core.Approvals.Resolve(id, false) }
