package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"starnotary/contexts/asset-registry/star-registry/adapters/memory"
	"starnotary/contexts/asset-registry/star-registry/application/commands"
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
	"starnotary/contexts/asset-registry/star-registry/ports"

	"github.com/shopspring/decimal"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type registry struct {
	store    *memory.Store
	create   commands.CreateStarUseCase
	list     commands.PutStarUpForSaleUseCase
	approve  commands.ApproveUseCase
	buy      commands.BuyStarUseCase
	exchange commands.ExchangeStarsUseCase
	transfer commands.TransferStarUseCase
	deposit  commands.DepositFundsUseCase
}

func newRegistry(t *testing.T) registry {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore(logger)
	clock := fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return registry{
		store:    store,
		create:   commands.CreateStarUseCase{UnitOfWork: store, Clock: clock, IDGenerator: store, Logger: logger},
		list:     commands.PutStarUpForSaleUseCase{UnitOfWork: store, Clock: clock, IDGenerator: store, Logger: logger},
		approve:  commands.ApproveUseCase{UnitOfWork: store, Clock: clock, IDGenerator: store, Logger: logger},
		exchange: commands.ExchangeStarsUseCase{UnitOfWork: store, Clock: clock, IDGenerator: store, Logger: logger},
		transfer: commands.TransferStarUseCase{UnitOfWork: store, Clock: clock, IDGenerator: store, Logger: logger},
		deposit:  commands.DepositFundsUseCase{UnitOfWork: store, Escrow: entities.RegistryAccount, Logger: logger},
		buy: commands.BuyStarUseCase{
			UnitOfWork:     store,
			Idempotency:    store,
			Clock:          clock,
			IDGenerator:    store,
			Escrow:         entities.RegistryAccount,
			IdempotencyTTL: time.Hour,
			Logger:         logger,
		},
	}
}

func (r registry) mustCreate(t *testing.T, id int64, name string, owner entities.AccountID) {
	t.Helper()
	if _, err := r.create.Execute(context.Background(), commands.CreateStarCommand{StarID: id, Name: name, Creator: owner}); err != nil {
		t.Fatalf("create star %d: %v", id, err)
	}
}

func (r registry) mustList(t *testing.T, id int64, owner entities.AccountID, price decimal.Decimal) {
	t.Helper()
	if _, err := r.list.Execute(context.Background(), commands.PutStarUpForSaleCommand{StarID: id, Price: price, Caller: owner}); err != nil {
		t.Fatalf("list star %d: %v", id, err)
	}
}

func (r registry) mustDeposit(t *testing.T, account entities.AccountID, amount decimal.Decimal) {
	t.Helper()
	if err := r.store.Deposit(account, amount); err != nil {
		t.Fatalf("deposit: %v", err)
	}
}

func (r registry) balance(t *testing.T, account entities.AccountID) decimal.Decimal {
	t.Helper()
	value, err := r.store.Balance(context.Background(), account)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return value
}

func (r registry) star(t *testing.T, id int64) entities.Star {
	t.Helper()
	star, err := r.store.GetStar(context.Background(), id)
	if err != nil {
		t.Fatalf("get star %d: %v", id, err)
	}
	return star
}

func units(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := entities.ParseUnits(raw)
	if err != nil {
		t.Fatalf("parse units %q: %v", raw, err)
	}
	return value
}

func TestCreateStarRejectsDuplicateID(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 1, "Awesome Star!", "alice")

	_, err := r.create.Execute(context.Background(), commands.CreateStarCommand{StarID: 1, Name: "Copy", Creator: "bob"})
	if !errors.Is(err, domainerrors.ErrDuplicateID) {
		t.Fatalf("expected duplicate id, got %v", err)
	}
	if got := r.star(t, 1); got.Owner != "alice" || got.Name != "Awesome Star!" {
		t.Fatalf("duplicate create mutated the star: %+v", got)
	}
	if events := r.store.OutboxEvents(); len(events) != 1 {
		t.Fatalf("expected one created event, got %d", len(events))
	}
}

func TestPutStarUpForSaleRequiresOwner(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 5, "Polaris", "alice")

	_, err := r.list.Execute(context.Background(), commands.PutStarUpForSaleCommand{
		StarID: 5,
		Price:  decimal.NewFromInt(10),
		Caller: "mallory",
	})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if r.star(t, 5).Listed {
		t.Fatalf("rejected listing must leave the star unlisted")
	}

	_, err = r.list.Execute(context.Background(), commands.PutStarUpForSaleCommand{
		StarID: 404,
		Price:  decimal.NewFromInt(10),
		Caller: "alice",
	})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = r.list.Execute(context.Background(), commands.PutStarUpForSaleCommand{
		StarID: 5,
		Price:  decimal.NewFromInt(-1),
		Caller: "alice",
	})
	if !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestPutStarUpForSaleOverwritesPrice(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 5, "Polaris", "alice")
	r.mustList(t, 5, "alice", decimal.NewFromInt(10))
	r.mustList(t, 5, "alice", decimal.NewFromInt(3))

	price, listed := r.star(t, 5).ListingPrice()
	if !listed || !price.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected relisting at 3, got %s listed=%v", price, listed)
	}
}

func TestApproveOverwritesDelegate(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 9, "Deneb", "alice")

	for _, delegate := range []entities.AccountID{"bob", "carol"} {
		if _, err := r.approve.Execute(context.Background(), commands.ApproveCommand{StarID: 9, Delegate: delegate, Caller: "alice"}); err != nil {
			t.Fatalf("approve %s: %v", delegate, err)
		}
	}
	if got := r.star(t, 9).Approved; got != "carol" {
		t.Fatalf("expected carol as sole delegate, got %s", got)
	}

	_, err := r.approve.Execute(context.Background(), commands.ApproveCommand{StarID: 9, Delegate: "dave", Caller: "bob"})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	_, err = r.approve.Execute(context.Background(), commands.ApproveCommand{StarID: 9, Delegate: "", Caller: "alice"})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
}

func TestBuyStarScenarioSettlesExactly(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()

	r.mustCreate(t, 1, "Awesome Star!", "account-a")
	r.mustCreate(t, 2, "awesome star", "account-b")
	r.mustList(t, 2, "account-b", units(t, "0.01"))
	if _, err := r.approve.Execute(ctx, commands.ApproveCommand{StarID: 2, Delegate: "account-c", Caller: "account-b"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	r.mustDeposit(t, "account-c", units(t, "1"))

	sellerBefore := r.balance(t, "account-b")
	buyerBefore := r.balance(t, "account-c")

	result, err := r.buy.Execute(ctx, commands.BuyStarCommand{StarID: 2, Buyer: "account-c", Tendered: units(t, "0.05")})
	if err != nil {
		t.Fatalf("buy star: %v", err)
	}
	if !result.Settlement.Change.Equal(units(t, "0.04")) {
		t.Fatalf("expected change 0.04, got %s", entities.FormatUnits(result.Settlement.Change))
	}

	if got := r.balance(t, "account-b").Sub(sellerBefore); !got.Equal(units(t, "0.01")) {
		t.Fatalf("seller delta: expected 0.01, got %s", entities.FormatUnits(got))
	}
	if got := buyerBefore.Sub(r.balance(t, "account-c")); !got.Equal(units(t, "0.01")) {
		t.Fatalf("buyer delta: expected 0.01, got %s", entities.FormatUnits(got))
	}
	if got := r.balance(t, entities.RegistryAccount); !got.IsZero() {
		t.Fatalf("escrow must end empty, holds %s", got)
	}

	star := r.star(t, 2)
	if star.Owner != "account-c" || star.Listed || star.Approved != "" {
		t.Fatalf("unexpected star after purchase: %+v", star)
	}
}

func TestBuyStarExcessIsAlwaysRefunded(t *testing.T) {
	price := decimal.NewFromInt(1_000)
	for _, tendered := range []decimal.Decimal{price, price.Mul(decimal.NewFromInt(5))} {
		t.Run(tendered.String(), func(t *testing.T) {
			r := newRegistry(t)
			r.mustCreate(t, 3, "Altair", "seller")
			r.mustList(t, 3, "seller", price)
			r.mustDeposit(t, "buyer", decimal.NewFromInt(10_000))

			if _, err := r.buy.Execute(context.Background(), commands.BuyStarCommand{StarID: 3, Buyer: "buyer", Tendered: tendered}); err != nil {
				t.Fatalf("buy star: %v", err)
			}
			if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(9_000)) {
				t.Fatalf("buyer must be charged exactly the price, balance %s", got)
			}
			if got := r.balance(t, "seller"); !got.Equal(price) {
				t.Fatalf("seller must receive exactly the price, balance %s", got)
			}
		})
	}
}

func TestBuyStarRejectionsLeaveStateUnchanged(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 4, "Betelgeuse", "seller")
	r.mustCreate(t, 6, "Unlisted", "seller")
	r.mustList(t, 4, "seller", decimal.NewFromInt(100))
	r.mustDeposit(t, "buyer", decimal.NewFromInt(500))

	cases := []struct {
		name string
		cmd  commands.BuyStarCommand
		want error
	}{
		{name: "underpaid", cmd: commands.BuyStarCommand{StarID: 4, Buyer: "buyer", Tendered: decimal.NewFromInt(99)}, want: domainerrors.ErrInsufficientFunds},
		{name: "unlisted", cmd: commands.BuyStarCommand{StarID: 6, Buyer: "buyer", Tendered: decimal.NewFromInt(100)}, want: domainerrors.ErrNotForSale},
		{name: "missing star", cmd: commands.BuyStarCommand{StarID: 77, Buyer: "buyer", Tendered: decimal.NewFromInt(100)}, want: domainerrors.ErrNotForSale},
		{name: "buyer cannot cover tender", cmd: commands.BuyStarCommand{StarID: 4, Buyer: "buyer", Tendered: decimal.NewFromInt(501)}, want: domainerrors.ErrTransferFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.buy.Execute(context.Background(), tc.cmd); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			star := r.star(t, 4)
			if star.Owner != "seller" || !star.Listed {
				t.Fatalf("rejected purchase changed the star: %+v", star)
			}
			if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(500)) {
				t.Fatalf("rejected purchase moved value, buyer holds %s", got)
			}
		})
	}
}

func TestBuyStarRollsBackWhenSellerPayoutFails(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 8, "Capella", "seller")
	r.mustList(t, 8, "seller", decimal.NewFromInt(100))
	if _, err := r.approve.Execute(context.Background(), commands.ApproveCommand{StarID: 8, Delegate: "buyer", Caller: "seller"}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	r.mustDeposit(t, "buyer", decimal.NewFromInt(300))
	eventsBefore := len(r.store.OutboxEvents())

	r.store.FailTransfersTo("seller", errors.New("payee rejected value"))
	_, err := r.buy.Execute(context.Background(), commands.BuyStarCommand{StarID: 8, Buyer: "buyer", Tendered: decimal.NewFromInt(250)})
	if !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected transfer failure, got %v", err)
	}

	star := r.star(t, 8)
	if star.Owner != "seller" || !star.Listed || star.Approved != "buyer" {
		t.Fatalf("failed purchase must leave owner, listing and approval intact: %+v", star)
	}
	if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("buyer funds must be restored, holds %s", got)
	}
	if got := r.balance(t, entities.RegistryAccount); !got.IsZero() {
		t.Fatalf("escrow must be restored, holds %s", got)
	}
	if got := len(r.store.OutboxEvents()); got != eventsBefore {
		t.Fatalf("failed purchase must not emit events, outbox grew from %d to %d", eventsBefore, got)
	}

	r.store.FailTransfersTo("seller", nil)
	if _, err := r.buy.Execute(context.Background(), commands.BuyStarCommand{StarID: 8, Buyer: "buyer", Tendered: decimal.NewFromInt(250)}); err != nil {
		t.Fatalf("retry after fault cleared: %v", err)
	}
}

func TestBuyStarIdempotentReplay(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 10, "Spica", "seller")
	r.mustList(t, 10, "seller", decimal.NewFromInt(40))
	r.mustDeposit(t, "buyer", decimal.NewFromInt(100))

	cmd := commands.BuyStarCommand{StarID: 10, Buyer: "buyer", Tendered: decimal.NewFromInt(50), IdempotencyKey: "purchase-1"}
	first, err := r.buy.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("first purchase: %v", err)
	}
	second, err := r.buy.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("replayed purchase: %v", err)
	}
	if !second.Replayed || first.Replayed {
		t.Fatalf("only the retry should be marked replayed")
	}
	if second.Star.Owner != "buyer" || !second.Settlement.Price.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("replay must return the original result: %+v", second)
	}
	if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("replay must not charge twice, buyer holds %s", got)
	}

	cmd.Tendered = decimal.NewFromInt(45)
	if _, err := r.buy.Execute(context.Background(), cmd); !errors.Is(err, domainerrors.ErrIdempotencyConflict) {
		t.Fatalf("expected idempotency conflict, got %v", err)
	}
}

func TestExchangeStarsSwapsOwnersWithoutValue(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 20, "Mizar", "alice")
	r.mustCreate(t, 21, "Alcor", "bob")
	r.mustList(t, 21, "bob", decimal.NewFromInt(5))
	r.mustDeposit(t, "alice", decimal.NewFromInt(7))

	result, err := r.exchange.Execute(context.Background(), commands.ExchangeStarsCommand{StarIDA: 20, StarIDB: 21, Caller: "alice"})
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if result.StarA.Owner != "bob" || result.StarB.Owner != "alice" {
		t.Fatalf("unexpected result owners: %s %s", result.StarA.Owner, result.StarB.Owner)
	}
	if r.star(t, 20).Owner != "bob" || r.star(t, 21).Owner != "alice" {
		t.Fatalf("owners were not swapped in the store")
	}
	if r.star(t, 21).Listed {
		t.Fatalf("exchange must clear listings")
	}
	if got := r.balance(t, "alice"); !got.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("exchange must not move value, alice holds %s", got)
	}
}

func TestExchangeStarsRejections(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 30, "Algol", "alice")
	r.mustCreate(t, 31, "Mira", "bob")

	if _, err := r.exchange.Execute(context.Background(), commands.ExchangeStarsCommand{StarIDA: 31, StarIDB: 30, Caller: "alice"}); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if _, err := r.exchange.Execute(context.Background(), commands.ExchangeStarsCommand{StarIDA: 30, StarIDB: 99, Caller: "alice"}); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if r.star(t, 30).Owner != "alice" || r.star(t, 31).Owner != "bob" {
		t.Fatalf("rejected exchange changed owners")
	}
}

func TestExchangeStarWithItselfClearsListing(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 40, "Castor", "alice")
	r.mustList(t, 40, "alice", decimal.NewFromInt(9))

	if _, err := r.exchange.Execute(context.Background(), commands.ExchangeStarsCommand{StarIDA: 40, StarIDB: 40, Caller: "alice"}); err != nil {
		t.Fatalf("self exchange: %v", err)
	}
	star := r.star(t, 40)
	if star.Owner != "alice" || star.Listed {
		t.Fatalf("self exchange must keep owner and clear listing: %+v", star)
	}
}

func TestTransferStar(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 50, "Pollux", "alice")
	r.mustList(t, 50, "alice", decimal.NewFromInt(12))

	if _, err := r.transfer.Execute(context.Background(), commands.TransferStarCommand{StarID: 50, To: "carol", Caller: "bob"}); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
	if _, err := r.transfer.Execute(context.Background(), commands.TransferStarCommand{StarID: 50, To: "", Caller: "alice"}); !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}

	result, err := r.transfer.Execute(context.Background(), commands.TransferStarCommand{StarID: 50, To: "carol", Caller: "alice"})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if result.Star.Owner != "carol" || result.Star.Listed {
		t.Fatalf("transfer must reassign and clear listing: %+v", result.Star)
	}

	events := r.store.OutboxEvents()
	if last := events[len(events)-1]; last.EventType != "star.transferred" || last.PartitionKey != "50" {
		t.Fatalf("unexpected last event %+v", last)
	}
}

// failingIdempotencyUnitOfWork runs the wrapped unit of work but rejects every
// idempotency write made inside it.
type failingIdempotencyUnitOfWork struct {
	inner ports.UnitOfWork
	err   error
}

func (u failingIdempotencyUnitOfWork) WithinTx(ctx context.Context, fn func(tx ports.RegistryTx) error) error {
	return u.inner.WithinTx(ctx, func(tx ports.RegistryTx) error {
		return fn(failingIdempotencyTx{RegistryTx: tx, err: u.err})
	})
}

type failingIdempotencyTx struct {
	ports.RegistryTx
	err error
}

func (t failingIdempotencyTx) Idempotency() ports.IdempotencyWriter {
	return t
}

func (t failingIdempotencyTx) Put(context.Context, ports.IdempotencyRecord) error {
	return t.err
}

func TestDepositFundsFinancesPurchase(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()
	for _, amount := range []int64{30, 20} {
		result, err := r.deposit.Execute(ctx, commands.DepositFundsCommand{Account: "buyer", Amount: decimal.NewFromInt(amount), Caller: "buyer"})
		if err != nil {
			t.Fatalf("deposit %d: %v", amount, err)
		}
		if result.Account != "buyer" || !result.Amount.Equal(decimal.NewFromInt(amount)) {
			t.Fatalf("unexpected deposit result %+v", result)
		}
	}
	if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50 after deposits, got %s", got)
	}

	r.mustCreate(t, 20, "Mira", "seller")
	r.mustList(t, 20, "seller", decimal.NewFromInt(45))
	if _, err := r.buy.Execute(ctx, commands.BuyStarCommand{StarID: 20, Buyer: "buyer", Tendered: decimal.NewFromInt(50)}); err != nil {
		t.Fatalf("purchase funded by deposits: %v", err)
	}
	if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("buyer should keep 5, got %s", got)
	}
	if got := r.balance(t, "seller"); !got.Equal(decimal.NewFromInt(45)) {
		t.Fatalf("seller should receive 45, got %s", got)
	}
}

func TestDepositFundsRejections(t *testing.T) {
	r := newRegistry(t)
	cases := []struct {
		name string
		cmd  commands.DepositFundsCommand
		want error
	}{
		{"empty account", commands.DepositFundsCommand{Amount: decimal.NewFromInt(1), Caller: "alice"}, domainerrors.ErrInvalidRequest},
		{"escrow account", commands.DepositFundsCommand{Account: entities.RegistryAccount, Amount: decimal.NewFromInt(1), Caller: entities.RegistryAccount}, domainerrors.ErrInvalidRequest},
		{"zero amount", commands.DepositFundsCommand{Account: "alice", Amount: decimal.Zero, Caller: "alice"}, domainerrors.ErrInvalidAmount},
		{"negative amount", commands.DepositFundsCommand{Account: "alice", Amount: decimal.NewFromInt(-5), Caller: "alice"}, domainerrors.ErrInvalidAmount},
		{"fractional amount", commands.DepositFundsCommand{Account: "alice", Amount: decimal.RequireFromString("0.5"), Caller: "alice"}, domainerrors.ErrInvalidAmount},
		{"someone else's account", commands.DepositFundsCommand{Account: "alice", Amount: decimal.NewFromInt(1), Caller: "mallory"}, domainerrors.ErrNotAccountHolder},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := r.deposit.Execute(context.Background(), tc.cmd); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if got := r.balance(t, "alice"); !got.IsZero() {
		t.Fatalf("rejected deposits must not credit, alice holds %s", got)
	}
}

func TestBuyStarIdempotencyRecordCommitsWithPurchase(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()
	r.mustCreate(t, 21, "Alcor", "seller")
	r.mustList(t, 21, "seller", decimal.NewFromInt(10))
	r.mustDeposit(t, "buyer", decimal.NewFromInt(10))
	cmd := commands.BuyStarCommand{StarID: 21, Buyer: "buyer", Tendered: decimal.NewFromInt(10), IdempotencyKey: "purchase-21"}

	r.store.FailTransfersTo("seller", errors.New("payee offline"))
	if _, err := r.buy.Execute(ctx, cmd); !errors.Is(err, domainerrors.ErrTransferFailed) {
		t.Fatalf("expected transfer failure, got %v", err)
	}
	if _, found, err := r.store.Get(ctx, "purchase-21", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)); err != nil || found {
		t.Fatalf("failed purchase must not leave an idempotency record, found=%v err=%v", found, err)
	}

	r.store.FailTransfersTo("seller", nil)
	result, err := r.buy.Execute(ctx, cmd)
	if err != nil {
		t.Fatalf("retry with same key: %v", err)
	}
	if result.Replayed || result.Star.Owner != "buyer" {
		t.Fatalf("retry should settle afresh: %+v", result)
	}
	if _, found, err := r.store.Get(ctx, "purchase-21", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)); err != nil || !found {
		t.Fatalf("committed purchase must record its key, found=%v err=%v", found, err)
	}
}

func TestBuyStarRollsBackWhenIdempotencyWriteFails(t *testing.T) {
	r := newRegistry(t)
	r.mustCreate(t, 22, "Thuban", "seller")
	r.mustList(t, 22, "seller", decimal.NewFromInt(10))
	r.mustDeposit(t, "buyer", decimal.NewFromInt(15))
	eventsBefore := len(r.store.OutboxEvents())

	writeErr := errors.New("idempotency table unavailable")
	buy := r.buy
	buy.UnitOfWork = failingIdempotencyUnitOfWork{inner: r.store, err: writeErr}
	cmd := commands.BuyStarCommand{StarID: 22, Buyer: "buyer", Tendered: decimal.NewFromInt(15), IdempotencyKey: "purchase-22"}
	if _, err := buy.Execute(context.Background(), cmd); !errors.Is(err, writeErr) {
		t.Fatalf("expected idempotency write error, got %v", err)
	}

	star := r.star(t, 22)
	if star.Owner != "seller" || !star.Listed {
		t.Fatalf("purchase must roll back with its idempotency record: %+v", star)
	}
	if got := r.balance(t, "buyer"); !got.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("buyer funds must be restored, holds %s", got)
	}
	if got := r.balance(t, "seller"); !got.IsZero() {
		t.Fatalf("seller must not be paid, holds %s", got)
	}
	if got := len(r.store.OutboxEvents()); got != eventsBefore {
		t.Fatalf("rolled back purchase must not emit events, outbox grew from %d to %d", eventsBefore, got)
	}

	result, err := r.buy.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("retry with same key: %v", err)
	}
	if result.Replayed || result.Star.Owner != "buyer" {
		t.Fatalf("retry should settle: %+v", result)
	}
}
