package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates or updates the registry tables.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&starModel{},
		&balanceModel{},
		&outboxModel{},
		&idempotencyModel{},
	)
}

// WithinTx maps the unit of work onto one database transaction. Rows read via
// GetStarForUpdate stay locked until commit or rollback.
func (r *Repository) WithinTx(ctx context.Context, fn func(tx ports.RegistryTx) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txRepository{db: tx})
	})
	if err != nil {
		r.logger.Debug("unit of work rolled back",
			"event", "postgres_unit_of_work_rolled_back",
			"module", "asset-registry/star-registry",
			"layer", "adapter",
			"error", err.Error(),
		)
	}
	return err
}

func (r *Repository) GetStar(ctx context.Context, starID int64) (entities.Star, error) {
	var row starModel
	err := r.db.WithContext(ctx).
		Where("star_id = ?", starID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Star{}, domainerrors.ErrNotFound
		}
		return entities.Star{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CountStarsByOwner(ctx context.Context, owner entities.AccountID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&starModel{}).
		Where("owner_id = ?", string(owner)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) Balance(ctx context.Context, account entities.AccountID) (decimal.Decimal, error) {
	var row balanceModel
	err := r.db.WithContext(ctx).
		Where("account_id = ?", string(account)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	return row.Balance, nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", key).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return row.toPort(), true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	return putIdempotency(ctx, r.db, record)
}

// putIdempotency inserts the record unless the key exists. An existing key
// is accepted only when it carries the same request hash.
func putIdempotency(ctx context.Context, db *gorm.DB, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		Payload:     record.Payload,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	createResult := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := db.WithContext(ctx).
		Where("key = ?", record.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != record.RequestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

// txRepository is bound to one open transaction.
type txRepository struct {
	db *gorm.DB
}

func (t *txRepository) Stars() ports.StarStore {
	return t
}

func (t *txRepository) Ledger() ports.Ledger {
	return t
}

func (t *txRepository) Funder() ports.LedgerFunder {
	return t
}

func (t *txRepository) Outbox() ports.OutboxWriter {
	return t
}

func (t *txRepository) Idempotency() ports.IdempotencyWriter {
	return t
}

func (t *txRepository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	return putIdempotency(ctx, t.db, record)
}

func (t *txRepository) GetStarForUpdate(ctx context.Context, starID int64) (entities.Star, error) {
	var row starModel
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("star_id = ?", starID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Star{}, domainerrors.ErrNotFound
		}
		return entities.Star{}, err
	}
	return row.toEntity(), nil
}

func (t *txRepository) InsertStar(ctx context.Context, star entities.Star) error {
	row := starModelFromEntity(star)
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateID
		}
		return err
	}
	return nil
}

func (t *txRepository) UpdateStar(ctx context.Context, star entities.Star) error {
	row := starModelFromEntity(star)
	result := t.db.WithContext(ctx).
		Model(&starModel{}).
		Where("star_id = ?", star.StarID).
		Updates(map[string]any{
			"owner_id":    row.OwnerID,
			"listed":      row.Listed,
			"price":       row.Price,
			"approved_id": row.ApprovedID,
			"updated_at":  row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

func (t *txRepository) Transfer(
	ctx context.Context,
	from entities.AccountID,
	to entities.AccountID,
	amount decimal.Decimal,
) error {
	if !entities.ValidAmount(amount) {
		return domainerrors.ErrInvalidAmount
	}
	now := time.Now().UTC()

	var source balanceModel
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", string(from)).
		First(&source).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if source.Balance.LessThan(amount) {
		return fmt.Errorf("%w: account %s holds %s, needs %s",
			domainerrors.ErrTransferFailed, from, source.Balance.String(), amount.String())
	}

	if err := t.db.WithContext(ctx).
		Model(&balanceModel{}).
		Where("account_id = ?", string(from)).
		Updates(map[string]any{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": now,
		}).
		Error; err != nil {
		return err
	}

	return t.credit(ctx, to, amount, now)
}

func (t *txRepository) Deposit(ctx context.Context, account entities.AccountID, amount decimal.Decimal) error {
	if account.IsZero() || !entities.ValidAmount(amount) {
		return domainerrors.ErrInvalidAmount
	}
	return t.credit(ctx, account, amount, time.Now().UTC())
}

// credit upserts the account row, adding amount to any existing balance.
func (t *txRepository) credit(ctx context.Context, account entities.AccountID, amount decimal.Decimal, now time.Time) error {
	row := balanceModel{AccountID: string(account), Balance: amount, UpdatedAt: now}
	return t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "account_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance":    gorm.Expr("registry_balances.balance + EXCLUDED.balance"),
				"updated_at": now,
			}),
		}).
		Create(&row).
		Error
}

func (t *txRepository) AppendEvent(ctx context.Context, event ports.RegistryEvent) error {
	envelope, err := event.Envelope()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	row := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

type starModel struct {
	StarID     int64           `gorm:"column:star_id;primaryKey;autoIncrement:false"`
	Name       string          `gorm:"column:name"`
	OwnerID    string          `gorm:"column:owner_id;index"`
	Listed     bool            `gorm:"column:listed"`
	Price      decimal.Decimal `gorm:"column:price;type:numeric(78,0)"`
	ApprovedID string          `gorm:"column:approved_id"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (starModel) TableName() string {
	return "stars"
}

func starModelFromEntity(star entities.Star) starModel {
	return starModel{
		StarID:     star.StarID,
		Name:       star.Name,
		OwnerID:    string(star.Owner),
		Listed:     star.Listed,
		Price:      star.Price,
		ApprovedID: string(star.Approved),
		CreatedAt:  star.CreatedAt.UTC(),
		UpdatedAt:  star.UpdatedAt.UTC(),
	}
}

func (m starModel) toEntity() entities.Star {
	return entities.Star{
		StarID:    m.StarID,
		Name:      m.Name,
		Owner:     entities.AccountID(m.OwnerID),
		Listed:    m.Listed,
		Price:     m.Price,
		Approved:  entities.AccountID(m.ApprovedID),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type balanceModel struct {
	AccountID string          `gorm:"column:account_id;primaryKey"`
	Balance   decimal.Decimal `gorm:"column:balance;type:numeric(78,0)"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (balanceModel) TableName() string {
	return "registry_balances"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "star_registry_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      append([]byte(nil), m.Payload...),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "star_registry_idempotency"
}

func (m idempotencyModel) toPort() ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:         m.Key,
		RequestHash: m.RequestHash,
		Payload:     append([]byte(nil), m.Payload...),
		ExpiresAt:   m.ExpiresAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
