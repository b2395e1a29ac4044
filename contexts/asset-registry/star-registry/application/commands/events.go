package commands

import (
	"context"
	"strconv"
	"time"

	"starnotary/contexts/asset-registry/star-registry/ports"
)

const (
	eventStarCreated     = "star.created"
	eventStarListed      = "star.listed"
	eventStarApproved    = "star.approved"
	eventStarPurchased   = "star.purchased"
	eventStarsExchanged  = "star.exchanged"
	eventStarTransferred = "star.transferred"
)

func newEvent(
	ctx context.Context,
	ids ports.IDGenerator,
	eventType string,
	starID int64,
	occurredAt time.Time,
	data map[string]string,
) (ports.RegistryEvent, error) {
	eventID, err := ids.NewID(ctx)
	if err != nil {
		return ports.RegistryEvent{}, err
	}
	payload := map[string]string{"star_id": formatStarID(starID)}
	for key, value := range data {
		payload[key] = value
	}
	return ports.RegistryEvent{
		EventID:    eventID,
		EventType:  eventType,
		StarID:     starID,
		Data:       payload,
		OccurredAt: occurredAt.UTC(),
	}, nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

func formatStarID(starID int64) string {
	return strconv.FormatInt(starID, 10)
}
