// Package events fans setting changes out to stream subscribers.
package events

import (
	"context"
	"sync"

	"sahone-backend/internal/config"

	"github.com/sirupsen/logrus"
)

const TopicSettings = "settings"

type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe returns a receive channel and a cancel func that must be
	// called to release it. The channel is closed after cancel.
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func())
	Close() error
}

// New picks redis when REDIS_ADDR is set and reachable, memory otherwise.
func New(ctx context.Context, cfg *config.Config) Broker {
	if cfg.RedisAddr == "" {
		return NewMemoryBroker()
	}
	rb, err := NewRedisBroker(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logrus.WithError(err).Warn("redis unavailable, using in-process event broker")
		return NewMemoryBroker()
	}
	return rb
}

const subscriberBuffer = 16

type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan []byte]struct{}
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: map[string]map[chan []byte]struct{}{}}
}

// Publish never blocks; a subscriber whose buffer is full misses the message.
func (b *MemoryBroker) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
			logrus.WithField("topic", topic).Warn("event dropped for slow subscriber")
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, topic string) (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	if b.subs[topic] == nil {
		b.subs[topic] = map[chan []byte]struct{}{}
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[topic][ch]; ok {
				delete(b.subs[topic], ch)
				close(ch)
			}
			b.mu.Unlock()
		})
	}
	if ctx != nil && ctx.Done() != nil {
		go func() {
			<-ctx.Done()
			cancel()
		}()
	}
	return ch, cancel
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, set := range b.subs {
		for ch := range set {
			close(ch)
		}
	}
	b.subs = map[string]map[chan []byte]struct{}{}
	b.closed = true
	return nil
}
