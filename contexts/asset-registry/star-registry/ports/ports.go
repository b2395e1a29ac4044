package ports

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	contractsv1 "starnotary/contracts/gen/events/v1"

	"github.com/shopspring/decimal"
)

// StarRepository is the read side of the registry.
type StarRepository interface {
	GetStar(ctx context.Context, starID int64) (entities.Star, error)
	CountStarsByOwner(ctx context.Context, owner entities.AccountID) (int, error)
}

// StarStore is the write side available inside a unit of work.
type StarStore interface {
	// GetStarForUpdate loads a star and holds it for the rest of the unit of work.
	GetStarForUpdate(ctx context.Context, starID int64) (entities.Star, error)
	// InsertStar fails with ErrDuplicateID when the id already exists.
	InsertStar(ctx context.Context, star entities.Star) error
	UpdateStar(ctx context.Context, star entities.Star) error
}

// Ledger is the host value-transfer primitive. Transfer may fail; a failure
// aborts the surrounding unit of work.
type Ledger interface {
	Transfer(ctx context.Context, from entities.AccountID, to entities.AccountID, amount decimal.Decimal) error
}

// LedgerFunder credits an account from outside the registry. It stands in for
// the host issuing value to an account.
type LedgerFunder interface {
	Deposit(ctx context.Context, account entities.AccountID, amount decimal.Decimal) error
}

// BalanceReader exposes the host ledger balances.
type BalanceReader interface {
	Balance(ctx context.Context, account entities.AccountID) (decimal.Decimal, error)
}

// RegistryEvent is the outbound integration payload persisted to the outbox.
type RegistryEvent struct {
	EventID    string
	EventType  string
	StarID     int64
	Data       map[string]string
	OccurredAt time.Time
}

type OutboxWriter interface {
	AppendEvent(ctx context.Context, event RegistryEvent) error
}

// RegistryTx groups the writers that commit or roll back together.
type RegistryTx interface {
	Stars() StarStore
	Ledger() Ledger
	Funder() LedgerFunder
	Outbox() OutboxWriter
	Idempotency() IdempotencyWriter
}

// UnitOfWork serializes registry mutations. fn's writes are committed only if
// it returns nil; any error discards every star, ledger and outbox write.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx RegistryTx) error) error
}

// IdempotencyRecord captures dedupe metadata for mutating requests.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	Payload     []byte
	ExpiresAt   time.Time
}

// IdempotencyStore abstracts idempotency persistence with TTL handling.
type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

// IdempotencyWriter stores a dedupe record as part of a unit of work, so the
// record commits or rolls back with the mutation it describes.
type IdempotencyWriter interface {
	Put(ctx context.Context, record IdempotencyRecord) error
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// OutboxMessage is a row ready to relay from the module outbox.
type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

// EventSubscriber registers a topic consumer callback.
type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

// Envelope wraps the event in the canonical contract, partitioned by star id.
func (e RegistryEvent) Envelope() (EventEnvelope, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return EventEnvelope{}, err
	}
	return EventEnvelope{
		EventID:          e.EventID,
		EventType:        e.EventType,
		OccurredAt:       e.OccurredAt.UTC(),
		SourceService:    "star-registry",
		SchemaVersion:    contractsv1.SchemaVersion,
		PartitionKeyPath: "star_id",
		PartitionKey:     strconv.FormatInt(e.StarID, 10),
		Data:             data,
	}, nil
}
