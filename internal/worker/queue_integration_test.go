//go:build integration

package worker

// Run with: go test -tags integration ./internal/worker/... -v

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/infra"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	rdC, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	url, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type recordingHandler struct{ payloads chan ReceiptJobPayload }

func (h *recordingHandler) Process(_ context.Context, raw json.RawMessage) error {
	var p ReceiptJobPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	h.payloads <- p
	return nil
}

func TestDispatcherAndPool(t *testing.T) {
	rdb := startRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := &recordingHandler{payloads: make(chan ReceiptJobPayload, 1)}
	StartWorkerPool(ctx, rdb, 1, map[string]Handler{JobTypeReceipt: h})

	require.NoError(t, NewDispatcher(rdb).EnqueueReceipt(ctx, "TX-000001", "budi@mail.id"))

	select {
	case p := <-h.payloads:
		assert.Equal(t, ReceiptJobPayload{TransactionID: "TX-000001", Email: "budi@mail.id"}, p)
	case <-time.After(10 * time.Second):
		t.Fatal("receipt job was not processed")
	}
}

func TestFailedJobGoesToDLQAndReplays(t *testing.T) {
	fastRetries(t)
	rdb := startRedis(t)
	ctx := context.Background()

	raw, err := json.Marshal(Job{Type: JobTypeReceipt, Payload: json.RawMessage(`{"transaction_id":"TX-1"}`)})
	require.NoError(t, err)
	dead := &countingHandler{failFor: 99}
	processJob(ctx, rdb, QueueReceipt, string(raw), map[string]Handler{JobTypeReceipt: dead})

	n, err := DLQLength(ctx, rdb, QueueReceipt)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	replayed, err := ReplayDLQ(ctx, rdb, QueueReceipt, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, replayed)

	queued, err := rdb.RPop(ctx, QueueReceipt).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(queued), &job))
	assert.Equal(t, 1, job.Replays)
	assert.JSONEq(t, `{"transaction_id":"TX-1"}`, string(job.Payload))
}

func TestReplayParksExhaustedJobs(t *testing.T) {
	rdb := startRedis(t)
	ctx := context.Background()

	SendToDLQ(ctx, rdb, QueueReceipt, Job{Type: JobTypeReceipt, Payload: json.RawMessage(`{}`), Replays: MaxReplays}, "smtp down", MaxAttempts)
	require.NoError(t, rdb.LPush(ctx, DLQPrefix+QueueReceipt, "garbage").Err())

	replayed, err := ReplayDLQ(ctx, rdb, QueueReceipt, 10)
	require.NoError(t, err)
	assert.Zero(t, replayed)

	parked, err := rdb.LLen(ctx, DLQPrefix+QueueReceipt+parkedSuffix).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), parked)
	n, _ := DLQLength(ctx, rdb, QueueReceipt)
	assert.Zero(t, n)
	queued, _ := rdb.LLen(ctx, QueueReceipt).Result()
	assert.Zero(t, queued)
}
