package adapters

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chores/internal/core"
	"chores/internal/services"
	"chores/internal/store"
	"chores/internal/store/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) PublishLogCreated(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, "created:"+id)
	return nil
}

func (p *fakePublisher) PublishLogDeleted(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, "deleted:"+id)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestPublishingStoreRoutesLogWrites(t *testing.T) {
	ctx := context.Background()
	mem := memory.New(core.DefaultChores())
	pub := &fakePublisher{}
	st := NewPublishingStore(mem, services.NewLogService(mem, pub))

	l, err := st.CreateLog(ctx, core.ChoreLog{ChoreID: "1", Partner: core.Partner2, Date: core.NewDate(2024, 3, 1), Points: 5})
	require.NoError(t, err)
	require.NoError(t, st.DeleteLog(ctx, l.ID))
	assert.Equal(t, []string{"created:" + l.ID, "deleted:" + l.ID}, pub.events)

	// Chore writes and reads bypass the event bus.
	_, err = st.CreateChore(ctx, core.Chore{Name: "Windows", Points: 4})
	require.NoError(t, err)
	chores, err := st.ListChores(ctx)
	require.NoError(t, err)
	assert.Len(t, chores, len(core.DefaultChores())+1)
	logs, err := st.ListLogs(ctx, store.LogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
	assert.Len(t, pub.events, 2)

	assert.NoError(t, st.Ping(ctx))
}
