package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamNotifier appends notifications to a Redis stream consumed by the
// notification service.
type StreamNotifier struct {
	rdb    *redis.Client
	stream string
}

func NewStreamNotifier(rdb *redis.Client, stream string) *StreamNotifier {
	return &StreamNotifier{rdb: rdb, stream: stream}
}

func (n *StreamNotifier) Notify(ctx context.Context, msg Notification) error {
	payload, err := json.Marshal(msg.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	err = n.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{
			"user_id": msg.UserID,
			"kind":    string(msg.Kind),
			"payload": payload,
			"sent_at": time.Now().UTC().Format(time.RFC3339Nano),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", n.stream, err)
	}
	return nil
}
