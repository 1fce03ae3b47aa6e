package data

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/etbot-dev/etbot/src/senate"
	"github.com/redis/go-redis/v9"
)

const (
	// SenateEventStream receives one entry per bill lifecycle change.
	SenateEventStream = "etbot.senate.events"
	streamMaxLen      = 10000
)

// ConnectRedis parses url and checks the server answers.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	rdb := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// StreamSink publishes senate events to a redis stream.
type StreamSink struct {
	Client *redis.Client
	Stream string
}

var _ senate.EventSink = (*StreamSink)(nil)

func (s *StreamSink) Publish(ctx context.Context, ev senate.Event) error {
	stream := s.Stream
	if stream == "" {
		stream = SenateEventStream
	}
	return s.Client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: eventValues(ev),
	}).Err()
}

func eventValues(ev senate.Event) map[string]interface{} {
	values := map[string]interface{}{
		"type":   ev.Type,
		"bill":   strconv.Itoa(ev.Bill),
		"actor":  ev.ActorID,
		"status": ev.Status.String(),
		"at":     ev.At.Format(time.RFC3339),
	}
	if ev.Votes != "" {
		values["votes"] = ev.Votes
	}
	return values
}
