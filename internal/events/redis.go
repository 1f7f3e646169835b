package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "sahone:"

// RedisBroker relays events through redis pub/sub so every instance behind
// a load balancer sees changes made on any other.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(ctx context.Context, addr, password string) (*RedisBroker, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisBroker{rdb: rdb}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	return b.rdb.Publish(ctx, channelPrefix+topic, payload).Err()
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (<-chan []byte, func()) {
	if ctx == nil {
		ctx = context.Background()
	}
	subCtx, stop := context.WithCancel(ctx)
	ps := b.rdb.Subscribe(subCtx, channelPrefix+topic)
	out := make(chan []byte, subscriberBuffer)

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(m.Payload):
				default:
				}
			}
		}
	}()

	var once sync.Once
	return out, func() {
		once.Do(func() {
			stop()
			_ = ps.Close()
		})
	}
}

func (b *RedisBroker) Close() error {
	return b.rdb.Close()
}
