package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/ports"
)

const defaultActivityConsumerGroup = "star-registry-activity-cg"

// ActivityConsumer tails the registry topic and writes one structured log
// line per ownership or listing change.
type ActivityConsumer struct {
	Subscriber    ports.EventSubscriber
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c ActivityConsumer) Start(ctx context.Context) error {
	topic := c.Topic
	if topic == "" {
		topic = defaultTopic
	}
	group := c.ConsumerGroup
	if group == "" {
		group = defaultActivityConsumerGroup
	}
	return c.Subscriber.Subscribe(ctx, topic, group, c.Handle)
}

func (c ActivityConsumer) Handle(_ context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	if err := event.Validate(); err != nil {
		return err
	}

	var data map[string]string
	if err := json.Unmarshal(event.Data, &data); err != nil {
		return fmt.Errorf("decode registry event payload: %w", err)
	}
	if data["star_id"] != event.PartitionKey {
		return fmt.Errorf("registry event %s: star_id %q does not match partition key %q",
			event.EventID, data["star_id"], event.PartitionKey)
	}

	attrs := []any{
		"event", "star_registry_activity",
		"module", "asset-registry/star-registry",
		"layer", "worker",
		"event_id", event.EventID,
		"event_type", event.EventType,
	}
	for _, key := range []string{
		"star_id", "star_id_b", "name", "owner", "owner_a", "owner_b",
		"seller", "buyer", "price", "change", "delegate", "from", "to",
	} {
		if value, ok := data[key]; ok {
			attrs = append(attrs, key, value)
		}
	}
	logger.Info("star registry activity", attrs...)
	return nil
}
