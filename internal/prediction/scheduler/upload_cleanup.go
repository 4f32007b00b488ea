package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"leafscan-backend/pkg/logging"
)

// UploadCleanupScheduler removes saved uploads older than the retention window
type UploadCleanupScheduler struct {
	dir       string
	retention time.Duration
	interval  time.Duration
	log       logging.Logger
	now       func() time.Time
}

// NewUploadCleanupScheduler creates a new scheduler. A retention <= 0
// disables it.
func NewUploadCleanupScheduler(dir string, retention, interval time.Duration, log logging.Logger) *UploadCleanupScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &UploadCleanupScheduler{
		dir:       dir,
		retention: retention,
		interval:  interval,
		log:       log,
		now:       time.Now,
	}
}

// Start runs the sweep loop until ctx is done
func (s *UploadCleanupScheduler) Start(ctx context.Context) {
	if s.retention <= 0 || s.dir == "" {
		s.log.Info(ctx, "upload cleanup disabled")
		return
	}

	s.log.Info(ctx, "upload cleanup started", "dir", s.dir, "retention", s.retention, "interval", s.interval)

	go func() {
		// Run immediately on start
		s.Sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-ctx.Done():
				s.log.Info(context.Background(), "upload cleanup stopped")
				return
			}
		}
	}()
}

// Sweep deletes expired files once and returns how many were removed
func (s *UploadCleanupScheduler) Sweep(ctx context.Context) int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn(ctx, "upload cleanup: read dir failed", "dir", s.dir, "error", err)
		return 0
	}

	cutoff := s.now().Add(-s.retention)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			s.log.Warn(ctx, "upload cleanup: remove failed", "path", path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info(ctx, "upload cleanup", "removed", removed)
	}
	return removed
}
