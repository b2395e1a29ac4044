package commands

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/domain/services"
	"starnotary/contexts/asset-registry/star-registry/ports"
)

type TransferStarCommand struct {
	To     entities.AccountID
	StarID int64
	Caller entities.AccountID
}

type TransferStarResult struct {
	Star entities.Star
}

type TransferStarUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u TransferStarUseCase) Execute(ctx context.Context, cmd TransferStarCommand) (TransferStarResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.To.IsZero() {
		return TransferStarResult{}, domainerrors.ErrInvalidRequest
	}
	now := resolveNow(u.Clock)
	event, err := newEvent(ctx, u.IDGenerator, eventStarTransferred, cmd.StarID, now, map[string]string{
		"from": string(cmd.Caller),
		"to":   string(cmd.To),
	})
	if err != nil {
		return TransferStarResult{}, err
	}

	var transferred entities.Star
	err = u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		star, err := tx.Stars().GetStarForUpdate(ctx, cmd.StarID)
		if err != nil {
			return err
		}
		if err := services.RequireOwner(star, cmd.Caller); err != nil {
			return err
		}
		star.ReassignTo(cmd.To, now)
		if err := tx.Stars().UpdateStar(ctx, star); err != nil {
			return err
		}
		transferred = star
		return tx.Outbox().AppendEvent(ctx, event)
	})
	if err != nil {
		logger.Warn("transfer star rejected",
			"event", "star_registry_transfer_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id", cmd.StarID,
			"caller", cmd.Caller,
			"error", err.Error(),
		)
		return TransferStarResult{}, err
	}

	logger.Info("star transferred",
		"event", "star_registry_star_transferred",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", transferred.StarID,
		"to", transferred.Owner,
	)
	return TransferStarResult{Star: transferred}, nil
}
