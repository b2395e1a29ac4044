package commands

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/domain/services"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/shopspring/decimal"
)

type PutStarUpForSaleCommand struct {
	StarID int64
	Price  decimal.Decimal
	Caller entities.AccountID
}

type PutStarUpForSaleResult struct {
	Star entities.Star
}

type PutStarUpForSaleUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute records (or overwrites) the asking price of a star owned by the caller.
func (u PutStarUpForSaleUseCase) Execute(ctx context.Context, cmd PutStarUpForSaleCommand) (PutStarUpForSaleResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if !entities.ValidAmount(cmd.Price) {
		return PutStarUpForSaleResult{}, domainerrors.ErrInvalidAmount
	}
	now := resolveNow(u.Clock)
	event, err := newEvent(ctx, u.IDGenerator, eventStarListed, cmd.StarID, now, map[string]string{
		"owner": string(cmd.Caller),
		"price": cmd.Price.String(),
	})
	if err != nil {
		return PutStarUpForSaleResult{}, err
	}

	var listed entities.Star
	err = u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		star, err := tx.Stars().GetStarForUpdate(ctx, cmd.StarID)
		if err != nil {
			return err
		}
		if err := services.RequireOwner(star, cmd.Caller); err != nil {
			return err
		}
		star.ListAt(cmd.Price, now)
		if err := tx.Stars().UpdateStar(ctx, star); err != nil {
			return err
		}
		listed = star
		return tx.Outbox().AppendEvent(ctx, event)
	})
	if err != nil {
		logger.Warn("put star up for sale rejected",
			"event", "star_registry_listing_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id", cmd.StarID,
			"caller", cmd.Caller,
			"error", err.Error(),
		)
		return PutStarUpForSaleResult{}, err
	}

	logger.Info("star listed for sale",
		"event", "star_registry_star_listed",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", listed.StarID,
		"price", listed.Price.String(),
	)
	return PutStarUpForSaleResult{Star: listed}, nil
}
