package httpadapter

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/application/commands"
	"starnotary/contexts/asset-registry/star-registry/application/queries"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	httptransport "starnotary/contexts/asset-registry/star-registry/transport/http"
)

type Handler struct {
	CreateStar       commands.CreateStarUseCase
	PutStarUpForSale commands.PutStarUpForSaleUseCase
	Approve          commands.ApproveUseCase
	BuyStar          commands.BuyStarUseCase
	ExchangeStars    commands.ExchangeStarsUseCase
	TransferStar     commands.TransferStarUseCase
	DepositFunds     commands.DepositFundsUseCase
	LookupStar       queries.LookupStarUseCase
	OwnerOf          queries.OwnerOfUseCase
	GetListing       queries.GetListingUseCase
	GetApproved      queries.GetApprovedUseCase
	BalanceOf        queries.BalanceOfUseCase
	AccountBalance   queries.AccountBalanceUseCase
	Metadata         queries.GetMetadataUseCase
	Logger           *slog.Logger
}

// MetadataHandler godoc
// @Summary Collection metadata
// @Description Returns the registry's fixed token name and symbol.
// @Tags star-registry
// @Produce json
// @Success 200 {object} httptransport.MetadataResponse
// @Router /registry/metadata [get]
func (h Handler) MetadataHandler(ctx context.Context) httptransport.MetadataResponse {
	result := h.Metadata.Execute(ctx)
	return httptransport.MetadataResponse{
		Name:   result.Name,
		Symbol: result.Symbol,
	}
}

// CreateStarHandler godoc
// @Summary Create a star
// @Description Mints a star with a caller-chosen id, owned by the caller.
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account id"
// @Param request body httptransport.CreateStarRequest true "Star payload"
// @Success 201 {object} httptransport.StarResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /registry/stars [post]
func (h Handler) CreateStarHandler(
	ctx context.Context,
	callerID string,
	req httptransport.CreateStarRequest,
) (httptransport.StarResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create star request received",
		"event", "http_create_star_received",
		"module", "asset-registry/star-registry",
		"layer", "transport",
		"star_id", req.StarID,
	)

	result, err := h.CreateStar.Execute(ctx, commands.CreateStarCommand{
		StarID:  req.StarID,
		Name:    req.Name,
		Creator: entities.AccountID(strings.TrimSpace(callerID)),
	})
	if err != nil {
		return httptransport.StarResponse{}, err
	}
	return httptransport.StarResponse{Item: mapStar(result.Star)}, nil
}

// LookupStarHandler godoc
// @Summary Look up a star name
// @Tags star-registry
// @Produce json
// @Param star_id path int true "Star id"
// @Success 200 {object} httptransport.LookupStarResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id} [get]
func (h Handler) LookupStarHandler(ctx context.Context, starID int64) (httptransport.LookupStarResponse, error) {
	result, err := h.LookupStar.Execute(ctx, queries.LookupStarQuery{StarID: starID})
	if err != nil {
		return httptransport.LookupStarResponse{}, err
	}
	return httptransport.LookupStarResponse{StarID: starID, Name: result.Name}, nil
}

// OwnerOfHandler godoc
// @Summary Current owner of a star
// @Tags star-registry
// @Produce json
// @Param star_id path int true "Star id"
// @Success 200 {object} httptransport.OwnerResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/owner [get]
func (h Handler) OwnerOfHandler(ctx context.Context, starID int64) (httptransport.OwnerResponse, error) {
	result, err := h.OwnerOf.Execute(ctx, queries.StarQuery{StarID: starID})
	if err != nil {
		return httptransport.OwnerResponse{}, err
	}
	return httptransport.OwnerResponse{StarID: result.StarID, Owner: string(result.Owner)}, nil
}

// GetListingHandler godoc
// @Summary Sale listing of a star
// @Tags star-registry
// @Produce json
// @Param star_id path int true "Star id"
// @Success 200 {object} httptransport.ListingResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/listing [get]
func (h Handler) GetListingHandler(ctx context.Context, starID int64) (httptransport.ListingResponse, error) {
	result, err := h.GetListing.Execute(ctx, queries.StarQuery{StarID: starID})
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{
		StarID:  result.StarID,
		ForSale: result.ForSale,
		Price:   result.Price.String(),
	}, nil
}

// PutListingHandler godoc
// @Summary Put a star up for sale
// @Description Lists the star at a price in minor units, replacing any earlier listing.
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account id"
// @Param star_id path int true "Star id"
// @Param request body httptransport.PutListingRequest true "Listing payload"
// @Success 200 {object} httptransport.StarResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/listing [put]
func (h Handler) PutListingHandler(
	ctx context.Context,
	callerID string,
	starID int64,
	req httptransport.PutListingRequest,
) (httptransport.StarResponse, error) {
	price, err := entities.ParseAmount(req.Price)
	if err != nil {
		return httptransport.StarResponse{}, err
	}
	result, err := h.PutStarUpForSale.Execute(ctx, commands.PutStarUpForSaleCommand{
		StarID: starID,
		Price:  price,
		Caller: entities.AccountID(strings.TrimSpace(callerID)),
	})
	if err != nil {
		return httptransport.StarResponse{}, err
	}
	return httptransport.StarResponse{Item: mapStar(result.Star)}, nil
}

// GetApprovalHandler godoc
// @Summary Approved delegate of a star
// @Tags star-registry
// @Produce json
// @Param star_id path int true "Star id"
// @Success 200 {object} httptransport.ApprovalResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/approval [get]
func (h Handler) GetApprovalHandler(ctx context.Context, starID int64) (httptransport.ApprovalResponse, error) {
	result, err := h.GetApproved.Execute(ctx, queries.StarQuery{StarID: starID})
	if err != nil {
		return httptransport.ApprovalResponse{}, err
	}
	return httptransport.ApprovalResponse{StarID: result.StarID, Approved: string(result.Approved)}, nil
}

// ApproveHandler godoc
// @Summary Approve a delegate
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account id"
// @Param star_id path int true "Star id"
// @Param request body httptransport.ApproveRequest true "Approval payload"
// @Success 200 {object} httptransport.StarResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/approval [put]
func (h Handler) ApproveHandler(
	ctx context.Context,
	callerID string,
	starID int64,
	req httptransport.ApproveRequest,
) (httptransport.StarResponse, error) {
	result, err := h.Approve.Execute(ctx, commands.ApproveCommand{
		StarID:   starID,
		Delegate: entities.AccountID(strings.TrimSpace(req.Delegate)),
		Caller:   entities.AccountID(strings.TrimSpace(callerID)),
	})
	if err != nil {
		return httptransport.StarResponse{}, err
	}
	return httptransport.StarResponse{Item: mapStar(result.Star)}, nil
}

// PurchaseHandler godoc
// @Summary Buy a listed star
// @Description Pays the listing price from the tendered value and refunds the change.
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Buyer account id"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param star_id path int true "Star id"
// @Param request body httptransport.PurchaseRequest true "Purchase payload"
// @Success 200 {object} httptransport.PurchaseResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 402 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/purchase [post]
func (h Handler) PurchaseHandler(
	ctx context.Context,
	callerID string,
	idempotencyKey string,
	starID int64,
	req httptransport.PurchaseRequest,
) (httptransport.PurchaseResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("purchase request received",
		"event", "http_purchase_star_received",
		"module", "asset-registry/star-registry",
		"layer", "transport",
		"star_id", starID,
	)

	tendered, err := entities.ParseAmount(req.TenderedValue)
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	result, err := h.BuyStar.Execute(ctx, commands.BuyStarCommand{
		StarID:         starID,
		Buyer:          entities.AccountID(strings.TrimSpace(callerID)),
		Tendered:       tendered,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	})
	if err != nil {
		return httptransport.PurchaseResponse{}, err
	}
	return httptransport.PurchaseResponse{
		Item: mapStar(result.Star),
		Settlement: httptransport.SettlementDTO{
			Seller:   string(result.Settlement.Seller),
			Buyer:    string(result.Settlement.Buyer),
			Tendered: result.Settlement.Tendered.String(),
			Price:    result.Settlement.Price.String(),
			Change:   result.Settlement.Change.String(),
		},
		Replayed: result.Replayed,
	}, nil
}

// TransferHandler godoc
// @Summary Transfer a star
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account id"
// @Param star_id path int true "Star id"
// @Param request body httptransport.TransferRequest true "Transfer payload"
// @Success 200 {object} httptransport.StarResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/stars/{star_id}/transfer [post]
func (h Handler) TransferHandler(
	ctx context.Context,
	callerID string,
	starID int64,
	req httptransport.TransferRequest,
) (httptransport.StarResponse, error) {
	result, err := h.TransferStar.Execute(ctx, commands.TransferStarCommand{
		StarID: starID,
		To:     entities.AccountID(strings.TrimSpace(req.To)),
		Caller: entities.AccountID(strings.TrimSpace(callerID)),
	})
	if err != nil {
		return httptransport.StarResponse{}, err
	}
	return httptransport.StarResponse{Item: mapStar(result.Star)}, nil
}

// ExchangeHandler godoc
// @Summary Exchange two stars
// @Description Swaps the owners of two stars. The caller must own star_id_a.
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Caller account id"
// @Param request body httptransport.ExchangeRequest true "Exchange payload"
// @Success 200 {object} httptransport.ExchangeResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /registry/exchanges [post]
func (h Handler) ExchangeHandler(
	ctx context.Context,
	callerID string,
	req httptransport.ExchangeRequest,
) (httptransport.ExchangeResponse, error) {
	result, err := h.ExchangeStars.Execute(ctx, commands.ExchangeStarsCommand{
		StarIDA: req.StarIDA,
		StarIDB: req.StarIDB,
		Caller:  entities.AccountID(strings.TrimSpace(callerID)),
	})
	if err != nil {
		return httptransport.ExchangeResponse{}, err
	}
	return httptransport.ExchangeResponse{
		Items: []httptransport.StarDTO{mapStar(result.StarA), mapStar(result.StarB)},
	}, nil
}

// StarCountHandler godoc
// @Summary Number of stars an account owns
// @Tags star-registry
// @Produce json
// @Param account_id path string true "Account id"
// @Success 200 {object} httptransport.StarCountResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /registry/accounts/{account_id}/stars/count [get]
func (h Handler) StarCountHandler(ctx context.Context, accountID string) (httptransport.StarCountResponse, error) {
	result, err := h.BalanceOf.Execute(ctx, queries.AccountQuery{
		Account: entities.AccountID(strings.TrimSpace(accountID)),
	})
	if err != nil {
		return httptransport.StarCountResponse{}, err
	}
	return httptransport.StarCountResponse{Account: string(result.Account), Stars: result.Stars}, nil
}

// AccountBalanceHandler godoc
// @Summary Ledger balance of an account
// @Tags star-registry
// @Produce json
// @Param account_id path string true "Account id"
// @Success 200 {object} httptransport.AccountBalanceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /registry/accounts/{account_id}/balance [get]
func (h Handler) AccountBalanceHandler(ctx context.Context, accountID string) (httptransport.AccountBalanceResponse, error) {
	result, err := h.AccountBalance.Execute(ctx, queries.AccountQuery{
		Account: entities.AccountID(strings.TrimSpace(accountID)),
	})
	if err != nil {
		return httptransport.AccountBalanceResponse{}, err
	}
	return httptransport.AccountBalanceResponse{
		Account: string(result.Account),
		Balance: result.Balance.String(),
	}, nil
}

// DepositHandler godoc
// @Summary Fund an account
// @Description Credits the caller's own ledger account with an amount in minor units.
// @Tags star-registry
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Account holder id"
// @Param account_id path string true "Account id"
// @Param request body httptransport.DepositRequest true "Deposit payload"
// @Success 200 {object} httptransport.DepositResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /registry/accounts/{account_id}/deposits [post]
func (h Handler) DepositHandler(
	ctx context.Context,
	callerID string,
	accountID string,
	req httptransport.DepositRequest,
) (httptransport.DepositResponse, error) {
	amount, err := entities.ParseAmount(req.Amount)
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	account := entities.AccountID(strings.TrimSpace(accountID))
	result, err := h.DepositFunds.Execute(ctx, commands.DepositFundsCommand{
		Account: account,
		Amount:  amount,
		Caller:  entities.AccountID(strings.TrimSpace(callerID)),
	})
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	balance, err := h.AccountBalance.Execute(ctx, queries.AccountQuery{Account: account})
	if err != nil {
		return httptransport.DepositResponse{}, err
	}
	return httptransport.DepositResponse{
		Account: string(result.Account),
		Amount:  result.Amount.String(),
		Balance: balance.Balance.String(),
	}, nil
}

// ParseStarID converts a path segment into a star id.
func ParseStarID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 0 {
		return 0, domainerrors.ErrInvalidRequest
	}
	return id, nil
}

func mapStar(star entities.Star) httptransport.StarDTO {
	item := httptransport.StarDTO{
		StarID:    star.StarID,
		Name:      star.Name,
		Owner:     string(star.Owner),
		Status:    string(star.Status()),
		Approved:  string(star.Approved),
		UpdatedAt: star.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if price, listed := star.ListingPrice(); listed {
		item.Price = price.String()
	}
	return item
}
