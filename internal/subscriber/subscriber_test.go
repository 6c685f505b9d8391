package subscriber

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type removerMock struct {
	mu      sync.Mutex
	removed []int64
	err     error
}

func (m *removerMock) RemoveAmbassador(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	return 1, m.err
}

func (m *removerMock) calls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64(nil), m.removed...)
}

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cleanup := func() {
		client.Close()
		mr.Close()
	}
	return client, cleanup
}

func TestSubscriber_RemovesDeletedAmbassador(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	remover := &removerMock{}
	s := NewSubscriber(client, remover, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Subscribe(ctx))
	defer s.Close()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.NoError(t, client.Publish(ctx, DefaultChannel, `{"ambassador_id": 4}`).Err())
	require.NoError(t, client.Publish(ctx, DefaultChannel, `not json`).Err())
	require.NoError(t, client.Publish(ctx, DefaultChannel, `{"ambassador_id": 0}`).Err())
	require.NoError(t, client.Publish(ctx, DefaultChannel, `{"ambassador_id": 5}`).Err())

	require.Eventually(t, func() bool {
		return len(remover.calls()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []int64{4, 5}, remover.calls())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestSubscriber_HandleSkipsMalformed(t *testing.T) {
	remover := &removerMock{}
	s := &Subscriber{channel: DefaultChannel, carts: remover, log: logger.Discard()}

	s.handle(context.Background(), `{`)
	s.handle(context.Background(), `{"ambassador_id": -1}`)
	s.handle(context.Background(), `{"other": 3}`)

	assert.Empty(t, remover.calls())
}

func TestSubscriber_HandleRemoverErrorIsLogged(t *testing.T) {
	remover := &removerMock{err: errors.New("db down")}
	s := &Subscriber{channel: DefaultChannel, carts: remover, log: logger.Discard()}

	// Should not panic, the error is only logged.
	s.handle(context.Background(), `{"ambassador_id": 2}`)
	assert.Equal(t, []int64{2}, remover.calls())
}

func TestSubscriber_RunWithoutSubscribeReturns(t *testing.T) {
	s := &Subscriber{channel: DefaultChannel, carts: &removerMock{}, log: logger.Discard()}

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately without a subscription")
	}
	assert.NoError(t, s.Close())
}
