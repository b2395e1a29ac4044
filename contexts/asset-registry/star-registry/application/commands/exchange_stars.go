package commands

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	"starnotary/contexts/asset-registry/star-registry/domain/services"
	"starnotary/contexts/asset-registry/star-registry/ports"
)

type ExchangeStarsCommand struct {
	StarIDA int64
	StarIDB int64
	Caller  entities.AccountID
}

type ExchangeStarsResult struct {
	StarA entities.Star
	StarB entities.Star
}

type ExchangeStarsUseCase struct {
	UnitOfWork  ports.UnitOfWork
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute swaps the owners of two stars. Only ownership of StarIDA is
// required; StarIDB may belong to anyone. No value changes hands.
func (u ExchangeStarsUseCase) Execute(ctx context.Context, cmd ExchangeStarsCommand) (ExchangeStarsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	now := resolveNow(u.Clock)

	var result ExchangeStarsResult
	err := u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		starA, starB, err := loadPair(ctx, tx.Stars(), cmd.StarIDA, cmd.StarIDB)
		if err != nil {
			return err
		}
		if err := services.RequireOwner(starA, cmd.Caller); err != nil {
			return err
		}

		if cmd.StarIDA == cmd.StarIDB {
			starA.ReassignTo(starA.Owner, now)
			if err := tx.Stars().UpdateStar(ctx, starA); err != nil {
				return err
			}
			starB = starA
		} else {
			services.SwapOwners(&starA, &starB, now)
			if err := tx.Stars().UpdateStar(ctx, starA); err != nil {
				return err
			}
			if err := tx.Stars().UpdateStar(ctx, starB); err != nil {
				return err
			}
		}

		event, err := newEvent(ctx, u.IDGenerator, eventStarsExchanged, starA.StarID, now, map[string]string{
			"star_id_b": formatStarID(starB.StarID),
			"owner_a":   string(starA.Owner),
			"owner_b":   string(starB.Owner),
		})
		if err != nil {
			return err
		}
		if err := tx.Outbox().AppendEvent(ctx, event); err != nil {
			return err
		}
		result = ExchangeStarsResult{StarA: starA, StarB: starB}
		return nil
	})
	if err != nil {
		logger.Warn("exchange stars rejected",
			"event", "star_registry_exchange_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id_a", cmd.StarIDA,
			"star_id_b", cmd.StarIDB,
			"caller", cmd.Caller,
			"error", err.Error(),
		)
		return ExchangeStarsResult{}, err
	}

	logger.Info("stars exchanged",
		"event", "star_registry_stars_exchanged",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id_a", result.StarA.StarID,
		"star_id_b", result.StarB.StarID,
	)
	return result, nil
}

// loadPair locks both stars in ascending id order so concurrent exchanges over
// the same pair cannot deadlock.
func loadPair(ctx context.Context, stars ports.StarStore, idA int64, idB int64) (entities.Star, entities.Star, error) {
	if idA == idB {
		star, err := stars.GetStarForUpdate(ctx, idA)
		return star, star, err
	}

	first, second := idA, idB
	if second < first {
		first, second = second, first
	}
	lower, err := stars.GetStarForUpdate(ctx, first)
	if err != nil {
		return entities.Star{}, entities.Star{}, err
	}
	upper, err := stars.GetStarForUpdate(ctx, second)
	if err != nil {
		return entities.Star{}, entities.Star{}, err
	}
	if lower.StarID == idA {
		return lower, upper, nil
	}
	return upper, lower, nil
}
