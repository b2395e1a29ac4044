package starregistry

import (
	"log/slog"
	"time"

	httpadapter "starnotary/contexts/asset-registry/star-registry/adapters/http"
	"starnotary/contexts/asset-registry/star-registry/adapters/memory"
	"starnotary/contexts/asset-registry/star-registry/application/commands"
	"starnotary/contexts/asset-registry/star-registry/application/queries"
	"starnotary/contexts/asset-registry/star-registry/application/workers"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	"starnotary/contexts/asset-registry/star-registry/ports"
)

// Module is the composition surface for the star registry.
// Runtime wiring should consume Handler; Store is exposed for tests/inspection
// when the module runs on the in-memory adapter.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	UnitOfWork     ports.UnitOfWork
	Stars          ports.StarRepository
	Balances       ports.BalanceReader
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	Escrow         entities.AccountID
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

// NewModule wires the registry use cases against explicit ports.
func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		CreateStar: commands.CreateStarUseCase{
			UnitOfWork:  deps.UnitOfWork,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		PutStarUpForSale: commands.PutStarUpForSaleUseCase{
			UnitOfWork:  deps.UnitOfWork,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		Approve: commands.ApproveUseCase{
			UnitOfWork:  deps.UnitOfWork,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		BuyStar: commands.BuyStarUseCase{
			UnitOfWork:     deps.UnitOfWork,
			Idempotency:    deps.Idempotency,
			Clock:          deps.Clock,
			IDGenerator:    deps.IDGenerator,
			Escrow:         deps.Escrow,
			IdempotencyTTL: deps.IdempotencyTTL,
			Logger:         deps.Logger,
		},
		ExchangeStars: commands.ExchangeStarsUseCase{
			UnitOfWork:  deps.UnitOfWork,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		TransferStar: commands.TransferStarUseCase{
			UnitOfWork:  deps.UnitOfWork,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		DepositFunds: commands.DepositFundsUseCase{
			UnitOfWork: deps.UnitOfWork,
			Escrow:     deps.Escrow,
			Logger:     deps.Logger,
		},
		LookupStar: queries.LookupStarUseCase{
			Stars:  deps.Stars,
			Logger: deps.Logger,
		},
		OwnerOf:     queries.OwnerOfUseCase{Stars: deps.Stars},
		GetListing:  queries.GetListingUseCase{Stars: deps.Stars},
		GetApproved: queries.GetApprovedUseCase{Stars: deps.Stars},
		BalanceOf: queries.BalanceOfUseCase{
			Stars:  deps.Stars,
			Logger: deps.Logger,
		},
		AccountBalance: queries.AccountBalanceUseCase{
			Balances: deps.Balances,
			Logger:   deps.Logger,
		},
		Metadata: queries.GetMetadataUseCase{},
		Logger:   deps.Logger,
	}

	return Module{Handler: handler}
}

// NewInMemoryModule wires the registry against the in-memory adapter, which
// also plays the host ledger.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore(logger)
	module := NewModule(Dependencies{
		UnitOfWork:     store,
		Stars:          store,
		Balances:       store,
		Idempotency:    store,
		Clock:          store,
		IDGenerator:    store,
		Escrow:         entities.RegistryAccount,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}

// NewOutboxRelay builds the worker that drains the module outbox to the bus.
func NewOutboxRelay(
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	clock ports.Clock,
	batchSize int,
	logger *slog.Logger,
) workers.OutboxRelay {
	return workers.OutboxRelay{
		Outbox:    outbox,
		Publisher: publisher,
		Clock:     clock,
		BatchSize: batchSize,
		Logger:    logger,
	}
}
