package services

import (
	"errors"
	"testing"
	"time"

	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"

	"github.com/shopspring/decimal"
)

func listedStar(t *testing.T, owner entities.AccountID, price decimal.Decimal) entities.Star {
	t.Helper()
	star, err := entities.NewStar(2, "Sirius", owner, time.Now())
	if err != nil {
		t.Fatalf("new star: %v", err)
	}
	star.ListAt(price, time.Now())
	return star
}

func TestComputeSettlementSplitsChange(t *testing.T) {
	price, _ := entities.ParseUnits("0.01")
	tendered, _ := entities.ParseUnits("0.05")
	star := listedStar(t, "bob", price)

	settlement, err := ComputeSettlement(star, "carol", tendered)
	if err != nil {
		t.Fatalf("compute settlement: %v", err)
	}
	if settlement.Seller != "bob" || settlement.Buyer != "carol" {
		t.Fatalf("unexpected parties: %+v", settlement)
	}
	wantChange, _ := entities.ParseUnits("0.04")
	if !settlement.Change.Equal(wantChange) {
		t.Fatalf("expected change %s, got %s", wantChange, settlement.Change)
	}
	if !settlement.Price.Add(settlement.Change).Equal(settlement.Tendered) {
		t.Fatalf("price + change must equal tendered")
	}
}

func TestComputeSettlementAtMaxAmountDoesNotOverflow(t *testing.T) {
	star := listedStar(t, "bob", decimal.NewFromInt(1))
	settlement, err := ComputeSettlement(star, "carol", entities.MaxAmount())
	if err != nil {
		t.Fatalf("compute settlement: %v", err)
	}
	if !settlement.Change.Equal(entities.MaxAmount().Sub(decimal.NewFromInt(1))) {
		t.Fatalf("unexpected change %s", settlement.Change)
	}
}

func TestComputeSettlementRejections(t *testing.T) {
	price := decimal.NewFromInt(100)
	unlisted, err := entities.NewStar(3, "Rigel", "bob", time.Now())
	if err != nil {
		t.Fatalf("new star: %v", err)
	}

	cases := []struct {
		name     string
		star     entities.Star
		buyer    entities.AccountID
		tendered decimal.Decimal
		want     error
	}{
		{name: "not listed", star: unlisted, buyer: "carol", tendered: price, want: domainerrors.ErrNotForSale},
		{name: "empty buyer", star: listedStar(t, "bob", price), buyer: "", tendered: price, want: domainerrors.ErrInvalidRequest},
		{name: "negative tender", star: listedStar(t, "bob", price), buyer: "carol", tendered: decimal.NewFromInt(-1), want: domainerrors.ErrInvalidAmount},
		{name: "fractional tender", star: listedStar(t, "bob", price), buyer: "carol", tendered: decimal.RequireFromString("100.5"), want: domainerrors.ErrInvalidAmount},
		{name: "underpaid", star: listedStar(t, "bob", price), buyer: "carol", tendered: decimal.NewFromInt(99), want: domainerrors.ErrInsufficientFunds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ComputeSettlement(tc.star, tc.buyer, tc.tendered); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLegsRouteThroughEscrowAndSkipZeroAmounts(t *testing.T) {
	settlement := Settlement{
		Seller:   "bob",
		Buyer:    "carol",
		Tendered: decimal.NewFromInt(100),
		Price:    decimal.NewFromInt(100),
		Change:   decimal.Zero,
	}
	legs := settlement.Legs("escrow")
	if len(legs) != 2 {
		t.Fatalf("exact payment should produce two legs, got %d", len(legs))
	}
	if legs[0].From != "carol" || legs[0].To != "escrow" || legs[1].To != "bob" {
		t.Fatalf("unexpected legs: %+v", legs)
	}

	settlement.Tendered = decimal.NewFromInt(150)
	settlement.Change = decimal.NewFromInt(50)
	legs = settlement.Legs("escrow")
	if len(legs) != 3 || legs[2].To != "carol" || !legs[2].Amount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected change leg back to buyer, got %+v", legs)
	}

	free := Settlement{Seller: "bob", Buyer: "carol", Tendered: decimal.Zero, Price: decimal.Zero, Change: decimal.Zero}
	if legs := free.Legs("escrow"); len(legs) != 0 {
		t.Fatalf("zero-price purchase moves no value, got %+v", legs)
	}
}

func TestSwapOwnersClearsBothListings(t *testing.T) {
	now := time.Now()
	a := listedStar(t, "alice", decimal.NewFromInt(5))
	a.Approve("dave", now)
	b := listedStar(t, "bob", decimal.NewFromInt(7))

	SwapOwners(&a, &b, now)
	if a.Owner != "bob" || b.Owner != "alice" {
		t.Fatalf("owners not swapped: %s %s", a.Owner, b.Owner)
	}
	if a.Listed || b.Listed || a.Approved != "" {
		t.Fatalf("swap must clear listings and approvals")
	}
}

func TestRequireOwner(t *testing.T) {
	star := entities.Star{StarID: 1, Owner: "alice"}
	if err := RequireOwner(star, "alice"); err != nil {
		t.Fatalf("owner rejected: %v", err)
	}
	if err := RequireOwner(star, "mallory"); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected not owner, got %v", err)
	}
}
