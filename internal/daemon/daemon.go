// Package daemon coordinates the catalog store, analysis worker, event hub,
// and API server behind a single-instance lock.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/gofrs/flock"

	"streambox/internal/analysis"
	"streambox/internal/catalog"
	"streambox/internal/config"
	"streambox/internal/events"
	"streambox/internal/logging"
	"streambox/internal/notifications"
	"streambox/internal/objectstore"
	"streambox/internal/server"
)

type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	hub      *events.Hub
	worker   *analysis.Worker
	notifier notifications.Service
	server   *server.Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Address      string
	CatalogPath  string
	LockFilePath string
	Subscribers  int
	Catalog      catalog.Summary
}

// New wires the daemon's components from configuration. The catalog store,
// object store, and API server are constructed here; Start makes them live.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	objects, err := objectstore.NewFSStore(cfg.Paths.UploadDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open object store: %w", err)
	}

	notifier := notifications.NewService(cfg)
	hub := events.NewHub(cfg.Server.EventBufferSize, logger)
	worker := analysis.NewWorker(cfg, store, hub, notifier, logger)

	srv, err := server.New(cfg, store, objects, hub, worker, notifier, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build api server: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "streamboxd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		hub:      hub,
		worker:   worker,
		notifier: notifier,
		server:   srv,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock and brings up the API server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another streambox daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("streambox daemon started",
		logging.String("address", d.server.Addr()),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop drains in-flight analysis jobs, shuts the server down, and releases
// the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	d.worker.Wait()
	d.hub.Close()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("streambox daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Addr reports the API server's bound address.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}

// Status reports runtime and catalog state.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	summary, err := d.store.Summarize(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("summarize catalog: %w", err)
	}
	return Status{
		Running:      d.running.Load(),
		Address:      d.server.Addr(),
		CatalogPath:  d.store.Path(),
		LockFilePath: d.lockPath,
		Subscribers:  d.hub.SubscriberCount(),
		Catalog:      summary,
	}, nil
}

// TestNotification sends a test message using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.notifier.TestNotification(ctx); err != nil {
		return false, "test notification failed", err
	}
	return true, "test notification sent", nil
}
