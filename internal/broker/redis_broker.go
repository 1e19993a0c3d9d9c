package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const activityChannel = "scans:activity"

// RedisActivityBroker implements ActivityBroker using redis pub/sub
type RedisActivityBroker struct {
	client *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
}

func NewRedisActivityBroker(redisURL string) (*RedisActivityBroker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisActivityBroker{
		client: client,
		ctx:    ctx,
	}, nil
}

// Client exposes the underlying redis client (shared with the rate limiter).
func (r *RedisActivityBroker) Client() *redis.Client {
	return r.client
}

func (r *RedisActivityBroker) Publish(event ScanActivity) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, activityChannel, data).Err()
}

func (r *RedisActivityBroker) Subscribe() (<-chan ScanActivity, error) {
	r.pubsub = r.client.Subscribe(r.ctx, activityChannel)

	eventChan := make(chan ScanActivity, 100)

	go func() {
		defer close(eventChan)

		for redisMsg := range r.pubsub.Channel() {
			var event ScanActivity

			if err := json.Unmarshal([]byte(redisMsg.Payload), &event); err != nil {
				continue
			}

			eventChan <- event
		}
	}()

	return eventChan, nil
}

func (r *RedisActivityBroker) Close() error {
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	return r.client.Close()
}
