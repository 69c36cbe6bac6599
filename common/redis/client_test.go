package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, keysAndValues ...interface{}) {
	l.t.Logf("[INFO] %s %v", msg, keysAndValues)
}

func (l *testLogger) Error(msg string, keysAndValues ...interface{}) {
	l.t.Logf("[ERROR] %s %v", msg, keysAndValues)
}

func (l *testLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.t.Logf("[WARN] %s %v", msg, keysAndValues)
}

func (l *testLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.t.Logf("[DEBUG] %s %v", msg, keysAndValues)
}

func setupTestClient(t *testing.T) (*Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewClient(db, &testLogger{t: t}), mock
}

func TestClient_PublishEvent(t *testing.T) {
	client, mock := setupTestClient(t)

	mock.ExpectPublish("coffeecorner:display", `{"kind":"queue_joined"}`).SetVal(1)

	err := client.PublishEvent(context.Background(), "coffeecorner:display", `{"kind":"queue_joined"}`)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_PublishEvent_Error(t *testing.T) {
	client, mock := setupTestClient(t)

	mock.ExpectPublish("coffeecorner:display", "x").SetErr(errors.New("connection refused"))

	err := client.PublishEvent(context.Background(), "coffeecorner:display", "x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "coffeecorner:display")
}

func TestClient_Get_NotFound(t *testing.T) {
	client, mock := setupTestClient(t)

	mock.ExpectGet("display:q_missing").RedisNil()

	_, err := client.Get(context.Background(), "display:q_missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_SetWithExpiryThenGet(t *testing.T) {
	client, mock := setupTestClient(t)
	ctx := context.Background()

	mock.ExpectSet("display:q_1", "hello", time.Hour).SetVal("OK")
	mock.ExpectGet("display:q_1").SetVal("hello")

	require.NoError(t, client.SetWithExpiry(ctx, "display:q_1", "hello", time.Hour))

	val, err := client.Get(ctx, "display:q_1")
	require.NoError(t, err)
	assert.Equal(t, "hello", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_IncrementWindow(t *testing.T) {
	client, mock := setupTestClient(t)

	mock.ExpectTxPipeline()
	mock.ExpectIncr("rate_limit:client:1.2.3.4").SetVal(3)
	mock.ExpectExpireNX("rate_limit:client:1.2.3.4", time.Minute).SetVal(false)
	mock.ExpectTTL("rate_limit:client:1.2.3.4").SetVal(42 * time.Second)
	mock.ExpectTxPipelineExec()

	count, ttl, err := client.IncrementWindow(context.Background(), "rate_limit:client:1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 42*time.Second, ttl)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRaw_PrefersURL(t *testing.T) {
	c := NewRaw(Options{URL: "redis://:secret@cache.internal:6380/2", Addr: "localhost:6379"})
	defer c.Close()

	assert.Equal(t, "cache.internal:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
	assert.Equal(t, "secret", c.Options().Password)
}

func TestNewRaw_FallsBackToAddr(t *testing.T) {
	c := NewRaw(Options{URL: "::not a url::", Addr: "localhost:6379", DB: 3})
	defer c.Close()

	assert.Equal(t, "localhost:6379", c.Options().Addr)
	assert.Equal(t, 3, c.Options().DB)
}
