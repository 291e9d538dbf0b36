// Package worker exports chore logs from the database to an external sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"chores/internal/amqp"
	"chores/internal/core"
	"chores/internal/storage"
)

// LogSource is the slice of the SQLite repository the worker needs.
type LogSource interface {
	GetLogDetail(ctx context.Context, id string) (core.LogDetail, error)
	GetPendingMirrorLogs(ctx context.Context, limit int) ([]core.ChoreLog, error)
	LogMirrorStatus(ctx context.Context, id string) (string, error)
	MarkLogMirrored(ctx context.Context, id string) error
	MarkLogMirrorError(ctx context.Context, id string) error
}

// Mirror is an external copy of the log table.
type Mirror interface {
	AppendLog(ctx context.Context, d core.LogDetail) error
	DeleteLog(ctx context.Context, id string) error
}

// MirrorWorker keeps the mirror in step with the database
type MirrorWorker struct {
	storage   LogSource
	mirror    Mirror
	batchSize int
}

func NewMirrorWorker(storage LogSource, mirror Mirror, batchSize int) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &MirrorWorker{
		storage:   storage,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleEvent processes a single log event from AMQP. A returned error
// makes the consumer requeue the message.
func (w *MirrorWorker) HandleEvent(ctx context.Context, msg *amqp.LogEventMessage) error {
	slog.InfoContext(ctx, "Processing log event",
		"type", msg.Type,
		"log_id", msg.LogID)

	switch msg.Type {
	case amqp.LogCreated:
		return w.handleCreated(ctx, msg.LogID)
	case amqp.LogDeleted:
		if err := w.mirror.DeleteLog(ctx, msg.LogID); err != nil {
			return fmt.Errorf("delete log from mirror: %w", err)
		}
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown log event", "type", msg.Type)
		return nil
	}
}

func (w *MirrorWorker) handleCreated(ctx context.Context, id string) error {
	status, err := w.storage.LogMirrorStatus(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		// deleted before we got to it
		slog.InfoContext(ctx, "Log no longer exists, skipping export", "log_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get mirror status: %w", err)
	}
	if status == storage.MirrorMirrored {
		slog.DebugContext(ctx, "Log already mirrored", "log_id", id)
		return nil
	}
	return w.mirrorLog(ctx, id)
}

// ProcessPending exports logs whose events were lost.
// This is a backup mechanism in case AMQP messages are lost
func (w *MirrorWorker) ProcessPending(ctx context.Context) error {
	_, _, err := w.processBatch(ctx, w.batchSize)
	return err
}

// StartupSyncCheck exports a larger batch of pending logs at worker start
func (w *MirrorWorker) StartupSyncCheck(ctx context.Context) error {
	total, synced, err := w.processBatch(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup check: %w", err)
	}
	if total == 0 {
		slog.InfoContext(ctx, "No pending logs found on startup")
		return nil
	}
	slog.InfoContext(ctx, "Startup sync completed",
		"total", total,
		"synced", synced,
		"errors", total-synced)
	return nil
}

// Run sweeps pending logs every interval until ctx is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic pending sweep failed", "error", err)
			}
		}
	}
}

func (w *MirrorWorker) processBatch(ctx context.Context, limit int) (total, synced int, err error) {
	pending, err := w.storage.GetPendingMirrorLogs(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("get pending logs: %w", err)
	}
	if len(pending) > 0 {
		slog.InfoContext(ctx, "Processing pending logs", "count", len(pending))
	}
	for _, l := range pending {
		if err := w.mirrorLog(ctx, l.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror log", "log_id", l.ID, "error", err)
			continue
		}
		synced++
	}
	return len(pending), synced, nil
}

func (w *MirrorWorker) mirrorLog(ctx context.Context, id string) error {
	detail, err := w.storage.GetLogDetail(ctx, id)
	if err != nil {
		return fmt.Errorf("get log detail: %w", err)
	}

	if err := w.mirror.AppendLog(ctx, detail); err != nil {
		if markErr := w.storage.MarkLogMirrorError(ctx, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark mirror error", "log_id", id, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.storage.MarkLogMirrored(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as mirrored", "log_id", id, "error", err)
		// Don't return error here - the export actually worked
	}

	slog.InfoContext(ctx, "Successfully mirrored log",
		"log_id", id,
		"partner", detail.Partner,
		"points", detail.Points)
	return nil
}
