package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Delivery is a payload destined to every member of a group except one client
type Delivery struct {
	Group   string          `json:"group"`
	Except  string          `json:"except,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Broker fans out deliveries to every server process. A manager without a
// broker delivers to its own clients directly.
type Broker interface {
	Publish(ctx context.Context, d Delivery) error
	Deliveries() <-chan Delivery
	Close() error
}

type RedisBroker struct {
	rdb     *redis.Client
	prefix  string
	pubsub  *redis.PubSub
	out     chan Delivery
	quit    chan struct{}
	stopped chan struct{}
}

// NewRedisBroker subscribes to every group channel under prefix
func NewRedisBroker(ctx context.Context, rdb *redis.Client, prefix string) (*RedisBroker, error) {
	pubsub := rdb.PSubscribe(ctx, prefix+"*")

	// make sure the subscription is live before anyone publishes
	_, err := pubsub.Receive(ctx)
	if err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	b := &RedisBroker{
		rdb:     rdb,
		prefix:  prefix,
		pubsub:  pubsub,
		out:     make(chan Delivery, sendBufferSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	go b.run()

	return b, nil
}

func (b *RedisBroker) run() {
	defer close(b.stopped)
	defer close(b.out)

	for msg := range b.pubsub.Channel() {
		var d Delivery
		err := json.Unmarshal([]byte(msg.Payload), &d)
		if err != nil {
			log.Default().Printf("dropping malformed delivery on %s: %v", msg.Channel, err)
			continue
		}

		if d.Group == "" {
			d.Group = strings.TrimPrefix(msg.Channel, b.prefix)
		}

		select {
		case b.out <- d:
		case <-b.quit:
			return
		}
	}
}

func (b *RedisBroker) Publish(ctx context.Context, d Delivery) error {
	data, err := json.Marshal(&d)
	if err != nil {
		return err
	}

	return b.rdb.Publish(ctx, b.prefix+d.Group, data).Err()
}

func (b *RedisBroker) Deliveries() <-chan Delivery {
	return b.out
}

func (b *RedisBroker) Close() error {
	close(b.quit)
	err := b.pubsub.Close()
	<-b.stopped
	return err
}
