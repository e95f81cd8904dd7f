// Package app wires the configured backend client and local stores shared by
// the stockpulse binaries.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"stockpulse/internal/config"
	"stockpulse/internal/store"
	"stockpulse/internal/view"
	"stockpulse/pkg/stockpulse"
)

// Deps holds the long-lived dependencies built from a Config.
type Deps struct {
	Client   *stockpulse.Client
	Fallback *view.Fallback
	Archive  *store.ParquetStore // nil when archiving is disabled

	snapshots *store.SQLiteStore
}

// NewClient builds the backend client for cfg.Backend.
func NewClient(cfg config.Backend) *stockpulse.Client {
	if cfg.HTTP2 {
		return stockpulse.NewClient(cfg.BaseURL,
			stockpulse.WithHTTPClient(stockpulse.NewHTTP2Client(cfg.BaseURL, cfg.Timeout)))
	}
	return stockpulse.NewClient(cfg.BaseURL, stockpulse.WithTimeout(cfg.Timeout))
}

// Open builds the client and opens the snapshot cache and archive. An empty
// cache path disables the last-good fallback.
func Open(cfg *config.Config, log *slog.Logger) (*Deps, error) {
	d := &Deps{Client: NewClient(cfg.Backend)}

	if cfg.Cache.SQLitePath != "" {
		s, err := store.NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot cache: %w", err)
		}
		d.snapshots = s
		d.Fallback = view.NewFallback(s, log)
	} else {
		d.Fallback = view.NewFallback(nil, log)
	}

	if cfg.Archive.Enabled {
		d.Archive = store.NewParquetStore(cfg.Archive.Dir)
	}

	log.Info("backend configured",
		"url", d.Client.BaseURL(),
		"http2", cfg.Backend.HTTP2,
		"cache", cfg.Cache.SQLitePath,
		"archive", cfg.Archive.Enabled)
	return d, nil
}

// DashboardOptions returns the dashboard options implied by the deps.
func (d *Deps) DashboardOptions() []view.DashboardOption {
	if d.Archive == nil {
		return nil
	}
	return []view.DashboardOption{view.WithArchive(d.Archive)}
}

// Close releases the snapshot cache.
func (d *Deps) Close() error {
	var errs []error
	if d.snapshots != nil {
		errs = append(errs, d.snapshots.Close())
	}
	return errors.Join(errs...)
}
