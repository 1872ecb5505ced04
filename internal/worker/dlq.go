package worker

// dlq.go: dead letter queue
// Jobs that exceed the maximum retry count are moved here for manual inspection.
// Uses a Redis list per source queue: dlq:{original_queue}
// StartDLQReplay revives them a bounded number of times; entries that keep
// failing are parked in dlq:{original_queue}:parked.

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix    = "dlq:"
	parkedSuffix = ":parked"

	// MaxReplays bounds how often one job is revived from the DLQ.
	MaxReplays = 3
)

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
	Replays       int             `json:"replays"`
}

// SendToDLQ pushes a failed job to the dead letter queue for manual inspection.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       job.Type,
		Payload:       job.Payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
		Replays:       job.Replays,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", job.Type).
		Str("reason", reason).
		Int("attempts", attempts).
		Int("replays", job.Replays).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ── Replay ────────────────────────────────────────────────────────────────────

// ReplayConfig holds the dependencies of the DLQ replay loop.
type ReplayConfig struct {
	RDB       *redis.Client
	Queue     string
	Interval  time.Duration
	BatchSize int
	// Ready gates a tick, e.g. skip while the SMTP breaker is open.
	Ready func() bool
}

// StartDLQReplay launches a goroutine that periodically moves DLQ entries
// back onto their queue. It respects ctx for graceful shutdown.
func StartDLQReplay(ctx context.Context, cfg ReplayConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Str("queue", cfg.Queue).Msg("dlq_replay: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("dlq_replay: shutting down")
				return
			case <-ticker.C:
				if cfg.Ready != nil && !cfg.Ready() {
					log.Debug().Msg("dlq_replay: dependency not ready, skipping tick")
					continue
				}
				if n, err := ReplayDLQ(ctx, cfg.RDB, cfg.Queue, cfg.BatchSize); err != nil {
					log.Error().Err(err).Msg("dlq_replay: tick failed")
				} else if n > 0 {
					log.Info().Int("replayed", n).Msg("dlq_replay: jobs re-queued")
				}
			}
		}
	}()
}

// ReplayDLQ re-queues up to batch entries of queue's DLQ, oldest first.
// Entries already replayed MaxReplays times are parked instead.
// Returns how many jobs were re-queued.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, batch int) (int, error) {
	dlqKey := DLQPrefix + queue
	replayed := 0
	for i := 0; i < batch; i++ {
		raw, err := rdb.RPop(ctx, dlqKey).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return replayed, err
		}
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq_replay: unreadable entry parked")
			_ = rdb.LPush(ctx, dlqKey+parkedSuffix, raw).Err()
			continue
		}
		if entry.Replays >= MaxReplays {
			if err := rdb.LPush(ctx, dlqKey+parkedSuffix, raw).Err(); err != nil {
				return replayed, err
			}
			log.Warn().Str("job_type", entry.JobType).Msg("dlq_replay: job parked after max replays")
			continue
		}
		job := Job{Type: entry.JobType, Payload: entry.Payload, Replays: entry.Replays + 1}
		if err := pushJob(ctx, rdb, queue, job); err != nil {
			// put it back where it was
			_ = rdb.RPush(ctx, dlqKey, raw).Err()
			return replayed, err
		}
		replayed++
	}
	return replayed, nil
}
