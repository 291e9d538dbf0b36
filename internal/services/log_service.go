package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"chores/internal/core"
	"chores/internal/store"
)

// EventPublisher announces log changes to downstream consumers.
type EventPublisher interface {
	PublishLogCreated(ctx context.Context, id string) error
	PublishLogDeleted(ctx context.Context, id string) error
	Close() error
}

// LogService orchestrates log writes across the store and the event bus
type LogService struct {
	storage   store.LogWriter
	publisher EventPublisher
}

// NewLogService accepts a nil publisher; events are then skipped.
func NewLogService(storage store.LogWriter, publisher EventPublisher) *LogService {
	return &LogService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateLog saves the log and publishes a created event
func (s *LogService) CreateLog(ctx context.Context, l core.ChoreLog) (core.ChoreLog, error) {
	// Save to the store first; it is the source of truth
	created, err := s.storage.CreateLog(ctx, l)
	if err != nil {
		return core.ChoreLog{}, fmt.Errorf("save log: %w", err)
	}

	if err := s.publishCreated(ctx, created.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish log created event",
			"id", created.ID, "error", err)
		// Don't fail the request - the log is saved; the worker sweep picks it up
	}

	return created, nil
}

// DeleteLog removes the log and publishes a deleted event
func (s *LogService) DeleteLog(ctx context.Context, id string) error {
	if err := s.storage.DeleteLog(ctx, id); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}

	if err := s.publishDeleted(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish log deleted event",
			"id", id, "error", err)
	}

	return nil
}

func (s *LogService) publishCreated(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher, skipping created event", "id", id)
		return nil
	}
	return s.publisher.PublishLogCreated(ctx, id)
}

func (s *LogService) publishDeleted(ctx context.Context, id string) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher, skipping deleted event", "id", id)
		return nil
	}
	return s.publisher.PublishLogDeleted(ctx, id)
}

// Close closes the publisher and, when it holds resources, the storage
func (s *LogService) Close() error {
	var errs []error

	if c, ok := s.storage.(io.Closer); ok && c != nil {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close log service: %v", errs)
	}

	return nil
}
