package commands

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	"starnotary/contexts/asset-registry/star-registry/ports"
)

type CreateStarCommand struct {
	StarID  int64
	Name    string
	Creator entities.AccountID
}

type CreateStarResult struct {
	Star entities.Star
}

type CreateStarUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute mints a star owned by its creator. The id must not exist yet.
func (u CreateStarUseCase) Execute(ctx context.Context, cmd CreateStarCommand) (CreateStarResult, error) {
	logger := application.ResolveLogger(u.Logger)
	now := resolveNow(u.Clock)

	star, err := entities.NewStar(cmd.StarID, cmd.Name, cmd.Creator, now)
	if err != nil {
		return CreateStarResult{}, err
	}
	event, err := newEvent(ctx, u.IDGenerator, eventStarCreated, star.StarID, now, map[string]string{
		"name":  star.Name,
		"owner": string(star.Owner),
	})
	if err != nil {
		return CreateStarResult{}, err
	}

	err = u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		if err := tx.Stars().InsertStar(ctx, star); err != nil {
			return err
		}
		return tx.Outbox().AppendEvent(ctx, event)
	})
	if err != nil {
		logger.Warn("create star rejected",
			"event", "star_registry_create_star_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id", cmd.StarID,
			"creator", cmd.Creator,
			"error", err.Error(),
		)
		return CreateStarResult{}, err
	}

	logger.Info("star created",
		"event", "star_registry_star_created",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", star.StarID,
		"owner", star.Owner,
	)
	return CreateStarResult{Star: star}, nil
}
