package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Jobs the pool gives up on are parked under "dead:<queue>", newest first,
// until an operator looks at them (posctl queues --peek) or sends them back
// once the mail server is reachable again (posctl queues --replay).

const deadLetterPrefix = "dead:"

// DeadLetter is a parked job plus why it was parked.
type DeadLetter struct {
	Queue    string    `json:"queue"`
	Job      Job       `json:"job"`
	SKU      string    `json:"sku,omitempty"`
	Reason   string    `json:"reason"`
	ParkedAt time.Time `json:"parked_at"`
}

// jobTypeForQueue lists what each queue may carry; anything else cannot be replayed.
var jobTypeForQueue = map[string]string{
	QueueStockAlert: JobTypeStockAlert,
}

func DeadLetterKey(queue string) string { return deadLetterPrefix + queue }

// park moves job out of the live queue. The push ignores cancellation so a
// worker that is shutting down still keeps the job.
func (p *pool) park(ctx context.Context, queue string, job Job, reason string) {
	letter := DeadLetter{
		Queue:    queue,
		Job:      job,
		SKU:      alertSKU(job),
		Reason:   reason,
		ParkedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(letter)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dead letters: encode failed, job dropped")
		return
	}
	if err := p.rdb.LPush(context.WithoutCancel(ctx), DeadLetterKey(queue), data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("sku", letter.SKU).Msg("dead letters: park failed, job dropped")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("type", job.Type).
		Str("sku", letter.SKU).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("job parked")
}

// alertSKU names the product a stock alert was about, so a parked alert can
// be read without decoding its payload by hand.
func alertSKU(job Job) string {
	if job.Type != JobTypeStockAlert {
		return ""
	}
	var payload dto.StockAlertPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return ""
	}
	return payload.SKU
}

func DeadLetterCount(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DeadLetterKey(queue)).Result()
}

// PeekDeadLetters returns up to n of the newest parked jobs without removing them.
func PeekDeadLetters(ctx context.Context, rdb *redis.Client, queue string, n int64) ([]DeadLetter, error) {
	raws, err := rdb.LRange(ctx, DeadLetterKey(queue), 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]DeadLetter, 0, len(raws))
	for _, raw := range raws {
		var letter DeadLetter
		if err := json.Unmarshal([]byte(raw), &letter); err != nil {
			log.Warn().Err(err).Str("queue", queue).Msg("dead letters: unreadable entry skipped")
			continue
		}
		out = append(out, letter)
	}
	return out, nil
}

// ReplayDeadLetters sends up to n of the oldest parked jobs back to their queue
// with a fresh attempt budget. Jobs of a type the queue does not carry stay
// parked. It returns how many jobs went back.
func ReplayDeadLetters(ctx context.Context, rdb *redis.Client, queue string, n int) (int, error) {
	key := DeadLetterKey(queue)
	replayed := 0
	for i := 0; i < n; i++ {
		raw, err := rdb.RPop(ctx, key).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			return replayed, err
		}

		var letter DeadLetter
		if err := json.Unmarshal([]byte(raw), &letter); err != nil || letter.Job.Type != jobTypeForQueue[queue] {
			if err := rdb.LPush(ctx, key, raw).Err(); err != nil {
				return replayed, err
			}
			continue
		}

		letter.Job.Attempts = 0
		encoded, err := json.Marshal(letter.Job)
		if err != nil {
			return replayed, err
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			// Put it back where it was so nothing is lost.
			_ = rdb.RPush(context.WithoutCancel(ctx), key, raw).Err()
			return replayed, err
		}
		replayed++
	}
	if replayed > 0 {
		log.Info().Str("queue", queue).Int("jobs", replayed).Msg("dead letters: replayed")
	}
	return replayed, nil
}
