package queries

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/shopspring/decimal"
)

type StarQuery struct {
	StarID int64
}

type OwnerOfResult struct {
	StarID int64
	Owner  entities.AccountID
}

type OwnerOfUseCase struct {
	Stars ports.StarRepository
}

func (u OwnerOfUseCase) Execute(ctx context.Context, query StarQuery) (OwnerOfResult, error) {
	star, err := u.Stars.GetStar(ctx, query.StarID)
	if err != nil {
		return OwnerOfResult{}, err
	}
	return OwnerOfResult{StarID: star.StarID, Owner: star.Owner}, nil
}

type GetListingResult struct {
	StarID  int64
	ForSale bool
	Price   decimal.Decimal
}

type GetListingUseCase struct {
	Stars ports.StarRepository
}

// Execute reports the active listing; a star that is not for sale reports a
// zero price.
func (u GetListingUseCase) Execute(ctx context.Context, query StarQuery) (GetListingResult, error) {
	star, err := u.Stars.GetStar(ctx, query.StarID)
	if err != nil {
		return GetListingResult{}, err
	}
	price, listed := star.ListingPrice()
	return GetListingResult{StarID: star.StarID, ForSale: listed, Price: price}, nil
}

type GetApprovedResult struct {
	StarID   int64
	Approved entities.AccountID
}

type GetApprovedUseCase struct {
	Stars ports.StarRepository
}

func (u GetApprovedUseCase) Execute(ctx context.Context, query StarQuery) (GetApprovedResult, error) {
	star, err := u.Stars.GetStar(ctx, query.StarID)
	if err != nil {
		return GetApprovedResult{}, err
	}
	return GetApprovedResult{StarID: star.StarID, Approved: star.Approved}, nil
}

type AccountQuery struct {
	Account entities.AccountID
}

type BalanceOfResult struct {
	Account entities.AccountID
	Stars   int
}

type BalanceOfUseCase struct {
	Stars  ports.StarRepository
	Logger *slog.Logger
}

// Execute counts the stars currently owned by the account.
func (u BalanceOfUseCase) Execute(ctx context.Context, query AccountQuery) (BalanceOfResult, error) {
	if query.Account.IsZero() {
		return BalanceOfResult{}, domainerrors.ErrInvalidRequest
	}
	count, err := u.Stars.CountStarsByOwner(ctx, query.Account)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("balance of failed",
			"event", "star_registry_balance_of_failed",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"account", query.Account,
			"error", err.Error(),
		)
		return BalanceOfResult{}, err
	}
	return BalanceOfResult{Account: query.Account, Stars: count}, nil
}

type AccountBalanceResult struct {
	Account entities.AccountID
	Balance decimal.Decimal
}

type AccountBalanceUseCase struct {
	Balances ports.BalanceReader
	Logger   *slog.Logger
}

func (u AccountBalanceUseCase) Execute(ctx context.Context, query AccountQuery) (AccountBalanceResult, error) {
	if query.Account.IsZero() {
		return AccountBalanceResult{}, domainerrors.ErrInvalidRequest
	}
	balance, err := u.Balances.Balance(ctx, query.Account)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("account balance failed",
			"event", "star_registry_account_balance_failed",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"account", query.Account,
			"error", err.Error(),
		)
		return AccountBalanceResult{}, err
	}
	return AccountBalanceResult{Account: query.Account, Balance: balance}, nil
}

type MetadataResult struct {
	Name   string
	Symbol string
}

// GetMetadataUseCase exposes the fixed collection identification.
type GetMetadataUseCase struct{}

func (GetMetadataUseCase) Execute(context.Context) MetadataResult {
	return MetadataResult{Name: entities.CollectionName, Symbol: entities.CollectionSymbol}
}
