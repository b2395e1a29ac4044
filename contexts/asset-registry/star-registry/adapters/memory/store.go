package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/shopspring/decimal"
)

// Store is an in-memory adapter implementing the registry ports for local
// runtime and tests. It also plays the host ledger. It is not intended as
// production persistence.
type Store struct {
	mu             sync.RWMutex
	stars          map[int64]entities.Star
	balances       map[entities.AccountID]decimal.Decimal
	idempotency    map[string]ports.IdempotencyRecord
	outbox         map[string]ports.OutboxMessage
	outboxOrder    []string
	outboxSent     map[string]time.Time
	transferFaults map[entities.AccountID]error
	sequence       uint64
	logger         *slog.Logger
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		stars:          make(map[int64]entities.Star),
		balances:       make(map[entities.AccountID]decimal.Decimal),
		idempotency:    make(map[string]ports.IdempotencyRecord),
		outbox:         make(map[string]ports.OutboxMessage),
		outboxOrder:    make([]string, 0),
		outboxSent:     make(map[string]time.Time),
		transferFaults: make(map[entities.AccountID]error),
		logger:         application.ResolveLogger(logger),
	}
}

// snapshot holds everything a unit of work may write.
type snapshot struct {
	stars       map[int64]entities.Star
	balances    map[entities.AccountID]decimal.Decimal
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	idempotency map[string]ports.IdempotencyRecord
}

// WithinTx runs fn as a single writer. The whole unit of work holds the write
// lock, and an error restores the state captured before fn ran.
func (s *Store) WithinTx(_ context.Context, fn func(tx ports.RegistryTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.snapshot()
	if err := fn(&storeTx{store: s}); err != nil {
		s.restore(before)
		s.logger.Debug("unit of work rolled back",
			"event", "memory_unit_of_work_rolled_back",
			"module", "asset-registry/star-registry",
			"layer", "adapter",
			"error", err.Error(),
		)
		return err
	}
	return nil
}

func (s *Store) snapshot() snapshot {
	stars := make(map[int64]entities.Star, len(s.stars))
	for id, star := range s.stars {
		stars[id] = star
	}
	balances := make(map[entities.AccountID]decimal.Decimal, len(s.balances))
	for account, balance := range s.balances {
		balances[account] = balance
	}
	outbox := make(map[string]ports.OutboxMessage, len(s.outbox))
	for id, message := range s.outbox {
		outbox[id] = message
	}
	idempotency := make(map[string]ports.IdempotencyRecord, len(s.idempotency))
	for key, record := range s.idempotency {
		idempotency[key] = record
	}
	return snapshot{
		stars:       stars,
		balances:    balances,
		outbox:      outbox,
		outboxOrder: append([]string(nil), s.outboxOrder...),
		idempotency: idempotency,
	}
}

func (s *Store) restore(before snapshot) {
	s.stars = before.stars
	s.balances = before.balances
	s.outbox = before.outbox
	s.outboxOrder = before.outboxOrder
	s.idempotency = before.idempotency
}

// storeTx is handed to a unit of work while the store's write lock is held,
// so its methods never lock.
type storeTx struct {
	store *Store
}

func (t *storeTx) Stars() ports.StarStore {
	return t
}

func (t *storeTx) Ledger() ports.Ledger {
	return t
}

func (t *storeTx) Funder() ports.LedgerFunder {
	return t
}

func (t *storeTx) Outbox() ports.OutboxWriter {
	return t
}

func (t *storeTx) Idempotency() ports.IdempotencyWriter {
	return t
}

func (t *storeTx) GetStarForUpdate(_ context.Context, starID int64) (entities.Star, error) {
	star, ok := t.store.stars[starID]
	if !ok {
		return entities.Star{}, domainerrors.ErrNotFound
	}
	return star, nil
}

func (t *storeTx) InsertStar(_ context.Context, star entities.Star) error {
	if _, exists := t.store.stars[star.StarID]; exists {
		return domainerrors.ErrDuplicateID
	}
	t.store.stars[star.StarID] = star
	return nil
}

func (t *storeTx) UpdateStar(_ context.Context, star entities.Star) error {
	if _, exists := t.store.stars[star.StarID]; !exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	t.store.stars[star.StarID] = star
	return nil
}

func (t *storeTx) Transfer(
	_ context.Context,
	from entities.AccountID,
	to entities.AccountID,
	amount decimal.Decimal,
) error {
	if !entities.ValidAmount(amount) {
		return domainerrors.ErrInvalidAmount
	}
	if fault, ok := t.store.transferFaults[to]; ok {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, fault)
	}
	available := t.store.balances[from]
	if available.LessThan(amount) {
		return fmt.Errorf("%w: account %s holds %s, needs %s",
			domainerrors.ErrTransferFailed, from, available.String(), amount.String())
	}
	t.store.balances[from] = available.Sub(amount)
	t.store.balances[to] = t.store.balances[to].Add(amount)
	return nil
}

func (t *storeTx) Deposit(_ context.Context, account entities.AccountID, amount decimal.Decimal) error {
	return t.store.credit(account, amount)
}

func (t *storeTx) Put(_ context.Context, record ports.IdempotencyRecord) error {
	return t.store.putIdempotency(record)
}

func (t *storeTx) AppendEvent(_ context.Context, event ports.RegistryEvent) error {
	envelope, err := event.Envelope()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	if _, exists := t.store.outbox[event.EventID]; exists {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	t.store.outbox[event.EventID] = ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt,
	}
	t.store.outboxOrder = append(t.store.outboxOrder, event.EventID)
	return nil
}

func (s *Store) GetStar(_ context.Context, starID int64) (entities.Star, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	star, ok := s.stars[starID]
	if !ok {
		return entities.Star{}, domainerrors.ErrNotFound
	}
	return star, nil
}

func (s *Store) CountStarsByOwner(_ context.Context, owner entities.AccountID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, star := range s.stars {
		if star.Owner == owner {
			count++
		}
	}
	return count, nil
}

func (s *Store) Balance(_ context.Context, account entities.AccountID) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balances[account], nil
}

// Deposit credits an account outside any unit of work. Tests use it to seed
// balances.
func (s *Store) Deposit(account entities.AccountID, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.credit(account, amount)
}

// credit expects the write lock to be held.
func (s *Store) credit(account entities.AccountID, amount decimal.Decimal) error {
	if account.IsZero() || !entities.ValidAmount(amount) {
		return domainerrors.ErrInvalidAmount
	}
	next := s.balances[account].Add(amount)
	if !entities.ValidAmount(next) {
		return domainerrors.ErrInvalidAmount
	}
	s.balances[account] = next
	return nil
}

// FailTransfersTo makes every ledger credit to account fail with cause until
// cleared with a nil cause.
func (s *Store) FailTransfersTo(account entities.AccountID, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cause == nil {
		delete(s.transferFaults, account)
		return
	}
	s.transferFaults[account] = cause
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	// Expired keys are lazily evicted on read.
	if !record.ExpiresAt.IsZero() && now.After(record.ExpiresAt) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.putIdempotency(record)
}

func (s *Store) putIdempotency(record ports.IdempotencyRecord) error {
	if existing, ok := s.idempotency[record.Key]; ok {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("star-evt-%d", value), nil
}

func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}
