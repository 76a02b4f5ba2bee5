package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueStockAlert = "jobs:stock_alert"

	JobTypeStockAlert = "stock_alert"

	// MaxJobAttempts is how many times a job runs before it is parked.
	MaxJobAttempts = 3

	stockAlertDedupeTTL = 24 * time.Hour
	popTimeout          = 5 * time.Second
	popErrorPause       = 2 * time.Second
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Handler processes one job payload. A returned error schedules a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
	loc *time.Location
	now func() time.Time
}

func NewDispatcher(rdb *redis.Client, loc *time.Location) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{rdb: rdb, loc: loc, now: time.Now}
}

// EnqueueStockAlert queues an alert for the product unless one was already
// queued for it today (store time zone).
func (d *Dispatcher) EnqueueStockAlert(ctx context.Context, payload dto.StockAlertPayload) error {
	key := StockAlertKey(payload.ProductID, d.now().In(d.loc))
	first, err := d.rdb.SetNX(ctx, key, payload.StockQuantity, stockAlertDedupeTTL).Result()
	if err != nil {
		return err
	}
	if !first {
		log.Debug().Str("product_id", payload.ProductID).Msg("dispatcher: stock alert already queued today")
		return nil
	}
	if err := d.enqueue(ctx, QueueStockAlert, JobTypeStockAlert, payload); err != nil {
		// Release the marker so the next sale or scan can try again.
		_ = d.rdb.Del(ctx, key).Err()
		return err
	}
	return nil
}

// StockAlertKey is the once-per-day de-duplication marker for a product.
func StockAlertKey(productID string, day time.Time) string {
	return fmt.Sprintf("stock_alert:%s:%s", productID, day.Format("20060102"))
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

func encodeJob(jobType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{Type: jobType, Payload: data})
}

// QueueLengths reports pending and dead-lettered job counts per queue.
func QueueLengths(ctx context.Context, rdb *redis.Client) (map[string][2]int64, error) {
	out := make(map[string][2]int64)
	for _, q := range Queues() {
		pending, err := rdb.LLen(ctx, q).Result()
		if err != nil {
			return nil, err
		}
		dead, err := DeadLetterCount(ctx, rdb, q)
		if err != nil {
			return nil, err
		}
		out[q] = [2]int64{pending, dead}
	}
	return out, nil
}

// Queues lists every queue the pool consumes.
func Queues() []string { return []string{QueueStockAlert} }

// StartWorkerPool launches numWorkers goroutines consuming all queues.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	p := &pool{rdb: rdb, handlers: handlers, backoff: retryBackoff, errPause: popErrorPause}
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

type pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	backoff  func(attempt int) time.Duration
	errPause time.Duration // wait after a failed pop (Redis unreachable)
}

func (p *pool) run(ctx context.Context, id int) {
	queues := Queues()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to popTimeout then loops to check ctx
			result, err := p.rdb.BRPop(ctx, popTimeout, queues...).Result()
			if err == redis.Nil || ctx.Err() != nil {
				continue
			}
			if err != nil {
				log.Warn().Err(err).Int("worker", id).Dur("pause", p.errPause).Msg("worker: pop failed")
				select {
				case <-ctx.Done():
				case <-time.After(p.errPause):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		p.park(ctx, queue, Job{Payload: quoted}, "malformed envelope")
		return
	}

	handler, ok := p.handlers[job.Type]
	if !ok {
		p.park(ctx, queue, job, "no handler registered")
		return
	}

	job.Attempts++
	err := handler(ctx, job.Payload)
	if err == nil {
		log.Debug().Str("type", job.Type).Int("attempt", job.Attempts).Msg("job done")
		return
	}

	if job.Attempts >= MaxJobAttempts {
		p.park(ctx, queue, job, err.Error())
		return
	}

	wait := p.backoff(job.Attempts)
	log.Warn().Err(err).
		Str("type", job.Type).
		Int("attempt", job.Attempts).
		Dur("retry_in", wait).
		Msg("job failed, re-queueing")

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}
	// Requeue even when shutting down so the job is not lost.
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		log.Error().Err(mErr).Str("type", job.Type).Msg("failed to re-encode job")
		return
	}
	if pushErr := p.rdb.LPush(context.WithoutCancel(ctx), queue, encoded).Err(); pushErr != nil {
		log.Error().Err(pushErr).Str("queue", queue).Msg("failed to re-queue job")
	}
}

// retryBackoff: attempt 1 = 1s, 2 = 2s, 3 = 4s …
func retryBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(1<<uint(attempt-1)) * time.Second
}
