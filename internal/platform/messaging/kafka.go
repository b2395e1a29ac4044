package messaging

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"starnotary/contexts/asset-registry/star-registry/ports"
)

const subscriberBuffer = 128

// Kafka is the event bus adapter used by the outbox relay and registry
// consumers. Delivery is in process with Kafka's consumer-group semantics:
// every group sees each event once, handed to one of its members in turn.
type Kafka struct {
	mu      sync.Mutex
	brokers []string
	topics  map[string]map[string]*consumerGroup
	logger  *slog.Logger
}

type consumerGroup struct {
	members []chan ports.EventEnvelope
	next    int
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if logger == nil {
		logger = slog.Default()
	}
	k := &Kafka{
		topics: make(map[string]map[string]*consumerGroup),
		logger: logger,
	}
	for _, broker := range brokers {
		if broker = strings.TrimSpace(broker); broker != "" {
			k.brokers = append(k.brokers, broker)
		}
	}
	logger.Info("event bus ready",
		"event", "kafka_bus_ready",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"brokers", strings.Join(k.brokers, ","),
	)
	return k, nil
}

// Brokers returns the configured bootstrap servers.
func (k *Kafka) Brokers() []string {
	return append([]string(nil), k.brokers...)
}

func (k *Kafka) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	targets := k.route(topic)

	for group, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case target <- event:
		default:
			k.logger.Warn("dropping event for slow consumer group",
				"event", "kafka_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", group,
				"event_id", event.EventID,
			)
		}
	}

	k.logger.Info("event published",
		"event", "kafka_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"partition_key", event.PartitionKey,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"consumer_groups", len(targets),
	)
	return nil
}

// route picks the next member of every group subscribed to topic.
func (k *Kafka) route(topic string) map[string]chan ports.EventEnvelope {
	k.mu.Lock()
	defer k.mu.Unlock()

	targets := make(map[string]chan ports.EventEnvelope, len(k.topics[topic]))
	for name, group := range k.topics[topic] {
		if len(group.members) == 0 {
			continue
		}
		targets[name] = group.members[group.next%len(group.members)]
		group.next++
	}
	return targets
}

func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	ch := make(chan ports.EventEnvelope, subscriberBuffer)
	k.join(topic, consumerGroup, ch)

	go func() {
		for {
			select {
			case <-ctx.Done():
				k.leave(topic, consumerGroup, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil {
					k.logger.Error("consumer handler failed",
						"event", "kafka_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (k *Kafka) join(topic string, name string, ch chan ports.EventEnvelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	groups, ok := k.topics[topic]
	if !ok {
		groups = make(map[string]*consumerGroup)
		k.topics[topic] = groups
	}
	group, ok := groups[name]
	if !ok {
		group = &consumerGroup{}
		groups[name] = group
	}
	group.members = append(group.members, ch)
}

func (k *Kafka) leave(topic string, name string, target chan ports.EventEnvelope) {
	k.mu.Lock()
	defer k.mu.Unlock()

	group, ok := k.topics[topic][name]
	if !ok {
		return
	}
	filtered := group.members[:0]
	for _, member := range group.members {
		if member != target {
			filtered = append(filtered, member)
		}
	}
	group.members = filtered
	if len(filtered) == 0 {
		delete(k.topics[topic], name)
	}
}
