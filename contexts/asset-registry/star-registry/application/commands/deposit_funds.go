package commands

import (
	"context"
	"log/slog"

	application "starnotary/contexts/asset-registry/star-registry/application"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/shopspring/decimal"
)

type DepositFundsCommand struct {
	Account entities.AccountID
	Amount  decimal.Decimal
	Caller  entities.AccountID
}

type DepositFundsResult struct {
	Account entities.AccountID
	Amount  decimal.Decimal
}

type DepositFundsUseCase struct {
	UnitOfWork ports.UnitOfWork
	Escrow     entities.AccountID
	Logger     *slog.Logger
}

// Execute credits the caller's own ledger account. The escrow account cannot
// be funded from outside.
func (u DepositFundsUseCase) Execute(ctx context.Context, cmd DepositFundsCommand) (DepositFundsResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.Account.IsZero() || cmd.Account == u.escrow() {
		return DepositFundsResult{}, domainerrors.ErrInvalidRequest
	}
	if !entities.ValidAmount(cmd.Amount) || cmd.Amount.IsZero() {
		return DepositFundsResult{}, domainerrors.ErrInvalidAmount
	}
	if cmd.Caller != cmd.Account {
		return DepositFundsResult{}, domainerrors.ErrNotAccountHolder
	}

	err := u.UnitOfWork.WithinTx(ctx, func(tx ports.RegistryTx) error {
		return tx.Funder().Deposit(ctx, cmd.Account, cmd.Amount)
	})
	if err != nil {
		logger.Warn("deposit rejected",
			"event", "star_registry_deposit_rejected",
			"module", "asset-registry/star-registry",
			"layer", "application",
			"account", cmd.Account,
			"error", err.Error(),
		)
		return DepositFundsResult{}, err
	}

	logger.Info("account funded",
		"event", "star_registry_account_funded",
		"module", "asset-registry/star-registry",
		"layer", "application",
		"account", cmd.Account,
		"amount", cmd.Amount.String(),
	)
	return DepositFundsResult{Account: cmd.Account, Amount: cmd.Amount}, nil
}

func (u DepositFundsUseCase) escrow() entities.AccountID {
	if u.Escrow.IsZero() {
		return entities.RegistryAccount
	}
	return u.Escrow
}
