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

type ApproveCommand struct {
	StarID   int64
	Delegate entities.AccountID
	Caller   entities.AccountID
}

type ApproveResult struct {
	Star entities.Star
}

type ApproveUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute grants a single delegate purchase authority over the star,
// replacing any earlier approval.
func (u ApproveUseCase) Execute(ctx context.Context, cmd ApproveCommand) (ApproveResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.Delegate.IsZero() {
		return ApproveResult{}, domainerrors.ErrInvalidRequest
	}
	now := resolveNow(u.Clock)
	event, err := newEvent(ctx, u.IDGenerator, eventStarApproved, cmd.StarID, now, map[string]string{
		"owner":    string(cmd.Caller),
		"delegate": string(cmd.Delegate),
	})
	if err != nil {
		return ApproveResult{}, err
	}

	var approved entities.Star
	err = u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		star, err := tx.Stars().GetStarForUpdate(ctx, cmd.StarID)
		if err != nil {
			return err
		}
		if err := services.RequireOwner(star, cmd.Caller); err != nil {
			return err
		}
		star.Approve(cmd.Delegate, now)
		if err := tx.Stars().UpdateStar(ctx, star); err != nil {
			return err
		}
		approved = star
		return tx.Outbox().AppendEvent(ctx, event)
	})
	if err != nil {
		logger.Warn("approve rejected",
			"event", "star_registry_approve_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id", cmd.StarID,
			"caller", cmd.Caller,
			"error", err.Error(),
		)
		return ApproveResult{}, err
	}

	logger.Info("star approval granted",
		"event", "star_registry_star_approved",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", approved.StarID,
		"delegate", approved.Approved,
	)
	return ApproveResult{Star: approved}, nil
}
