package services

import (
	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"

	"github.com/shopspring/decimal"
)

// Settlement is the exact value movement of one purchase.
type Settlement struct {
	StarID   int64
	Seller   entities.AccountID
	Buyer    entities.AccountID
	Tendered decimal.Decimal
	Price    decimal.Decimal
	Change   decimal.Decimal
}

// Leg is a single ledger movement.
type Leg struct {
	From   entities.AccountID
	To     entities.AccountID
	Amount decimal.Decimal
}

// ComputeSettlement validates a purchase against the star's listing and splits
// the tendered value into price and change. It never mutates the star.
func ComputeSettlement(
	star entities.Star,
	buyer entities.AccountID,
	tendered decimal.Decimal,
) (Settlement, error) {
	price, listed := star.ListingPrice()
	if !listed {
		return Settlement{}, domainerrors.ErrNotForSale
	}
	if buyer.IsZero() {
		return Settlement{}, domainerrors.ErrInvalidRequest
	}
	if !entities.ValidAmount(tendered) || !entities.ValidAmount(price) {
		return Settlement{}, domainerrors.ErrInvalidAmount
	}
	if tendered.LessThan(price) {
		return Settlement{}, domainerrors.ErrInsufficientFunds
	}

	return Settlement{
		StarID:   star.StarID,
		Seller:   star.Owner,
		Buyer:    buyer,
		Tendered: tendered,
		Price:    price,
		Change:   tendered.Sub(price),
	}, nil
}

// Legs routes the tendered value through escrow: buyer pays everything in,
// the seller receives exactly the price and the buyer gets the change back.
// Zero-value legs are omitted.
func (s Settlement) Legs(escrow entities.AccountID) []Leg {
	legs := make([]Leg, 0, 3)
	if s.Tendered.IsPositive() {
		legs = append(legs, Leg{From: s.Buyer, To: escrow, Amount: s.Tendered})
	}
	if s.Price.IsPositive() {
		legs = append(legs, Leg{From: escrow, To: s.Seller, Amount: s.Price})
	}
	if s.Change.IsPositive() {
		legs = append(legs, Leg{From: escrow, To: s.Buyer, Amount: s.Change})
	}
	return legs
}
