package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"design2prompt/internal/domain"
)

const (
	backupTask   = "layout-backup"
	backupPrefix = "layout-"
	backupSuffix = ".json"
	backupStamp  = "20060102-150405.000"
)

// ─────────────────────────────────────────────────────────────
// Backup Service — scheduled layout snapshots
// ─────────────────────────────────────────────────────────────

// BackupService writes timestamped JSON snapshots of the layout on a cron
// schedule and keeps only the newest few.
type BackupService struct {
	snapshot func() domain.LayoutDocument
	dir      string
	keep     int
	emitter  EventEmitter
	logger   *log.Logger
	guard    runGuard
	now      func() time.Time

	mu   sync.Mutex
	cron *cron.Cron
}

func NewBackupService(snapshot func() domain.LayoutDocument, dir string, keep int, emitter EventEmitter, logger *log.Logger) *BackupService {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &BackupService{
		snapshot: snapshot,
		dir:      dir,
		keep:     keep,
		emitter:  emitter,
		logger:   logger,
		now:      time.Now,
	}
}

// Start schedules backups with a standard five-field cron expression
// ("@hourly" style descriptors work too). An empty schedule disables them.
func (s *BackupService) Start(ctx context.Context, schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("[backup] scheduled run failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	if s.cron != nil {
		s.cron.Stop()
	}
	s.cron = c
	s.mu.Unlock()

	c.Start()
	s.logger.Info("[backup] scheduled", "schedule", schedule, "dir", s.dir, "keep", s.keep)
	return nil
}

// Stop cancels the schedule and waits for a running backup to finish.
func (s *BackupService) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
	s.guard.Wait(ctx)
}

// RunOnce writes one snapshot and prunes old ones. It returns the path
// written, or "" when another run was already in progress.
func (s *BackupService) RunOnce(ctx context.Context) (string, error) {
	if !s.guard.TryLock(backupTask) {
		s.logger.Debug("[backup] previous run still in progress, skipping")
		return "", nil
	}
	defer s.guard.Unlock(backupTask)

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode backup: %w", err)
	}
	name := backupPrefix + s.now().UTC().Format(backupStamp) + backupSuffix
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}

	if err := s.prune(); err != nil {
		s.logger.Warn("[backup] prune failed", "err", err)
	}
	s.logger.Info("[backup] wrote snapshot", "path", path)
	s.emitter.Emit(ctx, EventBackupCompleted, path)
	return path, nil
}

// List returns the backup files, newest first.
func (s *BackupService) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, backupPrefix) && strings.HasSuffix(n, backupSuffix) {
			names = append(names, n)
		}
	}
	// The timestamp format sorts lexically.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.dir, n)
	}
	return paths, nil
}

// Load reads a backup file back into a document.
func (s *BackupService) Load(path string) (*domain.LayoutDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	var doc domain.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	return &doc, nil
}

// LoadByName loads the backup whose file name is name. Directory parts of
// name are ignored so callers cannot reach outside the backup dir.
func (s *BackupService) LoadByName(name string) (*domain.LayoutDocument, error) {
	name = filepath.Base(name)
	paths, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if filepath.Base(p) == name {
			return s.Load(p)
		}
	}
	return nil, fmt.Errorf("backup %q: %w", name, domain.ErrNotFound)
}

func (s *BackupService) prune() error {
	if s.keep <= 0 {
		return nil
	}
	paths, err := s.List()
	if err != nil {
		return err
	}
	for _, p := range paths[min(s.keep, len(paths)):] {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}
