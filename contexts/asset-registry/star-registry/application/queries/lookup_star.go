package queries

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/ports"
)

type LookupStarQuery struct {
	StarID int64
}

type LookupStarResult struct {
	Name string
}

type LookupStarUseCase struct {
	Stars  ports.StarRepository
	Logger *slog.Logger
}

func (u LookupStarUseCase) Execute(ctx context.Context, query LookupStarQuery) (LookupStarResult, error) {
	logger := application.ResolveLogger(u.Logger)
	logger.Debug("lookup star started",
		"event", "star_registry_lookup_started",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"star_id", query.StarID,
	)

	star, err := u.Stars.GetStar(ctx, query.StarID)
	if err != nil {
		logger.Warn("lookup star failed",
			"event", "star_registry_lookup_failed",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"star_id", query.StarID,
			"error", err.Error(),
		)
		return LookupStarResult{}, err
	}

	return LookupStarResult{Name: star.Name}, nil
}
