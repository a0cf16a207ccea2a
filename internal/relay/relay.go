package relay

import (
	"context"

	"hermes/internal/adapters/kafka"
	"hermes/internal/dispatch"
	"hermes/internal/domain/event"
	"hermes/pkg/logger"
)

// Relay mirrors terminal research outcomes from the internal log to external
// Kafka topics with the same names. It is an ordinary log consumer: it keeps
// its own offsets, so delivery to Kafka inherits the log's at-least-once
// guarantee and external readers must be idempotent on correlation id.
type Relay struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// ConsumerID identifies the relay's offset cursors in the offset store.
const ConsumerID = "kafka-relay"

// New creates a relay over the given producer.
func New(producer *kafka.Producer) *Relay {
	return &Relay{
		producer: producer,
		log:      logger.Get().With("component", "relay"),
	}
}

// Handler returns the dispatch handler that forwards one event. An error from
// the broker propagates raw so the dispatcher redelivers the event.
func (r *Relay) Handler() dispatch.Handler {
	return func(ctx context.Context, ev event.Event) error {
		if err := r.producer.Publish(ctx, ev.Topic, ev.CorrelationID, ev.Payload); err != nil {
			return err
		}
		r.log.Debugw("Relayed event", "topic", ev.Topic, "event_id", ev.ID)
		return nil
	}
}

// Subscriptions builds one relay subscription per topic.
func (r *Relay) Subscriptions(topics []string) []dispatch.Subscription {
	subs := make([]dispatch.Subscription, 0, len(topics))
	for _, topic := range topics {
		subs = append(subs, dispatch.Subscription{
			Topic:      topic,
			ConsumerID: ConsumerID,
			Handler:    r.Handler(),
		})
	}
	return subs
}
