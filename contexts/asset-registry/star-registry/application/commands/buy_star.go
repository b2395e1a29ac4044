package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/domain/services"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/shopspring/decimal"
)

type BuyStarCommand struct {
	StarID         int64
	Buyer          entities.AccountID
	Tendered       decimal.Decimal
	IdempotencyKey string
}

type BuyStarResult struct {
	Star       entities.Star       `json:"star"`
	Settlement services.Settlement `json:"settlement"`
	Replayed   bool                `json:"-"`
}

type BuyStarUseCase struct {
	UnitOfWork     ports.UnitOfWork
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Escrow         entities.AccountID
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// Execute runs the purchase in this order:
// 1) idempotency lookup/replay (only when a key is supplied)
// 2) settlement computation against the listing seen under lock
// 3) ledger legs, ownership change, outbox event and idempotency record in
// one unit of work.
func (u BuyStarUseCase) Execute(ctx context.Context, cmd BuyStarCommand) (BuyStarResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.Buyer.IsZero() {
		return BuyStarResult{}, domainerrors.ErrInvalidRequest
	}

	now := resolveNow(u.Clock)
	key := strings.TrimSpace(cmd.IdempotencyKey)
	requestHash := hashPurchase(cmd)

	logger.Info("buy star started",
		"event", "star_registry_buy_star_started",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", cmd.StarID,
		"buyer", cmd.Buyer,
		"tendered", cmd.Tendered.String(),
	)

	if key != "" && u.Idempotency != nil {
		record, found, err := u.Idempotency.Get(ctx, key, now)
		if err != nil {
			return BuyStarResult{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				logger.Warn("idempotency key conflict",
					"event", "star_registry_buy_star_idempotency_conflict",
					"module", "asset-registry/star-registry",
					"layer", "application",
					"star_id", cmd.StarID,
					"buyer", cmd.Buyer,
				)
				return BuyStarResult{}, domainerrors.ErrIdempotencyConflict
			}
			var replayed BuyStarResult
			if err := json.Unmarshal(record.Payload, &replayed); err != nil {
				return BuyStarResult{}, err
			}
			replayed.Replayed = true
			return replayed, nil
		}
	}

	var result BuyStarResult
	err := u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		star, err := tx.Stars().GetStarForUpdate(ctx, cmd.StarID)
		if errors.Is(err, domainerrors.ErrNotFound) {
			return domainerrors.ErrNotForSale
		}
		if err != nil {
			return err
		}

		settlement, err := services.ComputeSettlement(star, cmd.Buyer, cmd.Tendered)
		if err != nil {
			return err
		}
		for _, leg := range settlement.Legs(u.escrow()) {
			if err := tx.Ledger().Transfer(ctx, leg.From, leg.To, leg.Amount); err != nil {
				return err
			}
		}

		star.ReassignTo(cmd.Buyer, now)
		if err := tx.Stars().UpdateStar(ctx, star); err != nil {
			return err
		}
		event, err := newEvent(ctx, u.IDGenerator, eventStarPurchased, star.StarID, now, map[string]string{
			"seller": string(settlement.Seller),
			"buyer":  string(settlement.Buyer),
			"price":  settlement.Price.String(),
			"change": settlement.Change.String(),
		})
		if err != nil {
			return err
		}
		if err := tx.Outbox().AppendEvent(ctx, event); err != nil {
			return err
		}

		result = BuyStarResult{Star: star, Settlement: settlement}
		if key == "" || u.Idempotency == nil {
			return nil
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return err
		}
		return tx.Idempotency().Put(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: requestHash,
			Payload:     payload,
			ExpiresAt:   now.Add(u.idempotencyTTL()),
		})
	})
	if err != nil {
		logger.Warn("buy star rejected",
			"event", "star_registry_buy_star_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id", cmd.StarID,
			"buyer", cmd.Buyer,
			"error", err.Error(),
		)
		return BuyStarResult{}, err
	}

	logger.Info("star purchased",
		"event", "star_registry_star_purchased",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", result.Star.StarID,
		"seller", result.Settlement.Seller,
		"buyer", result.Settlement.Buyer,
		"price", result.Settlement.Price.String(),
		"change", result.Settlement.Change.String(),
	)
	return result, nil
}

func (u BuyStarUseCase) escrow() entities.AccountID {
	if u.Escrow.IsZero() {
		return entities.RegistryAccount
	}
	return u.Escrow
}

func (u BuyStarUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func hashPurchase(cmd BuyStarCommand) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("buy_star|%d|%s|%s", cmd.StarID, cmd.Buyer, cmd.Tendered.String())))
	return hex.EncodeToString(sum[:])
}
