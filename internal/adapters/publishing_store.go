package adapters

import (
	"context"

	"chores/internal/core"
	"chores/internal/services"
	"chores/internal/store"
)

// PublishingStore routes log writes through a LogService so that every
// created or deleted log is announced on the event bus. Reads and chore
// writes go straight to the underlying store.
type PublishingStore struct {
	store.Store
	service *services.LogService
}

var _ store.Store = (*PublishingStore)(nil)

func NewPublishingStore(st store.Store, service *services.LogService) *PublishingStore {
	return &PublishingStore{
		Store:   st,
		service: service,
	}
}

// CreateLog implements store.LogWriter
func (a *PublishingStore) CreateLog(ctx context.Context, l core.ChoreLog) (core.ChoreLog, error) {
	return a.service.CreateLog(ctx, l)
}

// DeleteLog implements store.LogWriter
func (a *PublishingStore) DeleteLog(ctx context.Context, id string) error {
	return a.service.DeleteLog(ctx, id)
}

// Ping forwards to the underlying store when it supports health checks.
func (a *PublishingStore) Ping(ctx context.Context) error {
	if p, ok := a.Store.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
