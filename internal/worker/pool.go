package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fitri99main/winny-pos-sub002/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlerts = "jobs:variance-alerts"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// VarianceAlertJob is the payload for a critical-variance notification.
// Amounts travel as strings to keep decimal precision across the queue.
type VarianceAlertJob struct {
	SessionID    string `json:"session_id"`
	UserName     string `json:"user_name"`
	ExpectedCash string `json:"expected_cash"`
	EndingCash   string `json:"ending_cash"`
	Variance     string `json:"variance"`
	ClosedAt     string `json:"closed_at"` // RFC 3339
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueVarianceAlert pushes a variance alert job for a just-closed session.
func (d *Dispatcher) EnqueueVarianceAlert(ctx context.Context, s *model.CashierSession) error {
	payload := VarianceAlertJob{
		SessionID:    s.ID.String(),
		UserName:     s.DisplayName(),
		ExpectedCash: s.ComputedExpectedCash().String(),
		Variance:     s.ComputedVariance().String(),
	}
	if s.EndingCash != nil {
		payload.EndingCash = s.EndingCash.String()
	}
	if s.ClosedAt != nil {
		payload.ClosedAt = s.ClosedAt.Format(time.RFC3339)
	}
	return d.enqueue(ctx, QueueAlerts, "variance-alert", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers bundles the concrete job handlers wired at the composition root.
type WorkerHandlers struct {
	Alert *AlertWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueAlerts).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch job.Type {
	case "variance-alert":
		err = handlers.Alert.Handle(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type dropped")
		return
	}
	if err == nil {
		return
	}

	job.Attempts++
	if job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), job.Attempts)
		return
	}
	log.Warn().Str("type", job.Type).Int("attempts", job.Attempts).Err(err).Msg("job failed, requeueing")
	if encoded, mErr := json.Marshal(job); mErr == nil {
		if pErr := rdb.LPush(ctx, queue, encoded).Err(); pErr != nil {
			log.Error().Err(pErr).Str("queue", queue).Msg("requeue failed")
		}
	}
}
