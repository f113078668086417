// Package notify fans request lifecycle events out to live subscribers.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	EventSubmitted = "funding_request.submitted"
	EventReviewed  = "funding_request.reviewed"
)

// Event describes a change to a funding request.
type Event struct {
	Type        string    `json:"type"`
	Kind        string    `json:"kind"`
	RequestID   string    `json:"request_id"`
	ReferenceNo string    `json:"reference_no"`
	Status      string    `json:"status"`
	ParkName    string    `json:"park_name"`
	RequestedBy string    `json:"requested_by"`
	ActorID     string    `json:"actor_id"`
	At          time.Time `json:"at"`
}

// Publisher delivers events. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RedisStream appends events to a Redis stream for other services.
type RedisStream struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewRedisStream(rdb *redis.Client, stream string) *RedisStream {
	return &RedisStream{rdb: rdb, stream: stream, maxLen: 10000}
}

func (s *RedisStream) Publish(ctx context.Context, ev Event) error {
	return s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":         ev.Type,
			"kind":         ev.Kind,
			"request_id":   ev.RequestID,
			"reference_no": ev.ReferenceNo,
			"status":       ev.Status,
			"park_name":    ev.ParkName,
			"actor_id":     ev.ActorID,
			"at":           ev.At.Format(time.RFC3339),
		},
	}).Err()
}
