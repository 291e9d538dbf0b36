package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chores/internal/core"
	"chores/internal/store"
	"chores/internal/store/memory"
)

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	deleted []string
	err     error
	closed  bool
}

func (p *recordingPublisher) PublishLogCreated(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, id)
	return p.err
}

func (p *recordingPublisher) PublishLogDeleted(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	return p.err
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func sampleLog() core.ChoreLog {
	return core.ChoreLog{ChoreID: "1", Partner: core.Partner1, Date: core.NewDate(2024, 1, 1), Points: 5}
}

func TestLogServicePublishesAfterSave(t *testing.T) {
	ctx := context.Background()
	st := memory.New(core.DefaultChores())
	pub := &recordingPublisher{}
	svc := NewLogService(st, pub)

	l, err := svc.CreateLog(ctx, sampleLog())
	require.NoError(t, err)
	assert.Equal(t, []string{l.ID}, pub.created)

	require.NoError(t, svc.DeleteLog(ctx, l.ID))
	assert.Equal(t, []string{l.ID}, pub.deleted)

	logs, _ := st.ListLogs(ctx, store.LogFilter{})
	assert.Empty(t, logs)
}

func TestLogServicePublishFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()
	st := memory.New(nil)
	svc := NewLogService(st, &recordingPublisher{err: errors.New("broker down")})

	l, err := svc.CreateLog(ctx, sampleLog())
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	require.NoError(t, svc.DeleteLog(ctx, l.ID))
}

func TestLogServiceStoreErrors(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewLogService(memory.New(nil), pub)

	bad := sampleLog()
	bad.Partner = "nobody"
	_, err := svc.CreateLog(ctx, bad)
	assert.ErrorIs(t, err, core.ErrInvalidPartner)

	err = svc.DeleteLog(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Empty(t, pub.created)
	assert.Empty(t, pub.deleted)
}

func TestLogServiceWithoutPublisher(t *testing.T) {
	svc := NewLogService(memory.New(nil), nil)
	_, err := svc.CreateLog(context.Background(), sampleLog())
	require.NoError(t, err)
	require.NoError(t, svc.Close())
}

func TestLogServiceClose(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewLogService(memory.New(nil), pub)
	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}
