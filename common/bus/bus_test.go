package bus

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/coffeecorner/queue/common/logger"
	rediscommon "github.com/coffeecorner/queue/common/redis"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_FanOutToAllSubscribers(t *testing.T) {
	b := NewMemoryBus(logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	received := map[string][]string{}
	var wg sync.WaitGroup
	wg.Add(2)

	for _, name := range []string{"board-a", "board-b"} {
		name := name
		require.NoError(t, b.Subscribe(ctx, "display", func(ctx context.Context, key string, value []byte) error {
			mu.Lock()
			received[name] = append(received[name], key+"="+string(value))
			mu.Unlock()
			wg.Done()
			return nil
		}))
	}

	require.NoError(t, b.Publish(ctx, "display", "q_1", []byte("hello")))

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscribers did not receive message")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"q_1=hello"}, received["board-a"])
	assert.Equal(t, []string{"q_1=hello"}, received["board-b"])
}

func TestMemoryBus_PublishWithoutSubscribers(t *testing.T) {
	b := NewMemoryBus(logger.Discard())
	assert.NoError(t, b.Publish(context.Background(), "display", "q_1", []byte("x")))
}

func TestMemoryBus_CloseIsIdempotent(t *testing.T) {
	b := NewMemoryBus(logger.Discard())
	require.NoError(t, b.Subscribe(context.Background(), "display", func(context.Context, string, []byte) error { return nil }))

	assert.NoError(t, b.Close())
	assert.NoError(t, b.Close())
	assert.NoError(t, b.Publish(context.Background(), "display", "q_1", []byte("x")))
}

func TestRedisBus_PublishWrapsKey(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := rediscommon.NewClient(db, logger.Discard())
	b := NewRedisBus(client, "coffeecorner", logger.Discard())

	payload, err := json.Marshal(envelope{Key: "q_1", Value: []byte(`{"kind":"your_turn"}`)})
	require.NoError(t, err)
	mock.ExpectPublish("coffeecorner:display", string(payload)).SetVal(1)

	require.NoError(t, b.Publish(context.Background(), "display", "q_1", []byte(`{"kind":"your_turn"}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
