package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReceipt = "jobs:receipt"

	JobTypeReceipt = "receipt"

	// MaxAttempts is how often a job handler runs before the job goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Replays int             `json:"replays,omitempty"` // times revived from the DLQ
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// ReceiptJobPayload asks for the receipt of a committed sale to be rendered
// and, when Email is set, mailed.
type ReceiptJobPayload struct {
	TransactionID string `json:"transaction_id"`
	Email         string `json:"email,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReceipt pushes a receipt job to Redis.
func (d *Dispatcher) EnqueueReceipt(ctx context.Context, transactionID, email string) error {
	return d.enqueue(ctx, QueueReceipt, JobTypeReceipt, ReceiptJobPayload{TransactionID: transactionID, Email: email})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return pushJob(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func pushJob(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]Handler) {
	queues := []string{QueueReceipt}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop, waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, result[0], result[1], handlers)
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, queue, raw string, handlers map[string]Handler) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	if err := runJob(ctx, job, handlers); err != nil {
		SendToDLQ(ctx, rdb, queue, job, err.Error(), MaxAttempts)
	}
}

// runJob runs the handler for job.Type up to MaxAttempts times.
func runJob(ctx context.Context, job Job, handlers map[string]Handler) error {
	h, ok := handlers[job.Type]
	if !ok {
		return fmt.Errorf("no handler for job type %q", job.Type)
	}
	return withRetry(ctx, MaxAttempts, func(attempt int) error {
		err := h.Process(ctx, job.Payload)
		if err != nil {
			log.Warn().Err(err).Str("type", job.Type).Int("attempt", attempt+1).Msg("job attempt failed")
		}
		return err
	})
}

// retryBackoff is the wait before the second attempt; it doubles afterwards.
var retryBackoff = time.Second

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := retryBackoff * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
