package entities

import (
	"strings"
	"time"

	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"

	"github.com/shopspring/decimal"
)

// AccountID is the host environment's caller/payer identity. The registry only
// compares and stores it.
type AccountID string

func (a AccountID) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

type StarStatus string

const (
	StarStatusOwned   StarStatus = "owned"
	StarStatusForSale StarStatus = "for_sale"
)

// Star is one minted asset. Listing and approval are stored on the star itself
// so a listing can never outlive the star's owner record.
type Star struct {
	StarID    int64
	Name      string
	Owner     AccountID
	Listed    bool
	Price     decimal.Decimal
	Approved  AccountID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewStar(starID int64, name string, owner AccountID, createdAt time.Time) (Star, error) {
	if starID < 0 || owner.IsZero() {
		return Star{}, domainerrors.ErrInvalidRequest
	}
	return Star{
		StarID:    starID,
		Name:      name,
		Owner:     owner,
		Price:     decimal.Zero,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}, nil
}

func (s Star) Status() StarStatus {
	if s.Listed {
		return StarStatusForSale
	}
	return StarStatusOwned
}

func (s Star) OwnedBy(account AccountID) bool {
	return !account.IsZero() && s.Owner == account
}

// ListingPrice returns the asking price while the star is for sale.
func (s Star) ListingPrice() (decimal.Decimal, bool) {
	if !s.Listed {
		return decimal.Zero, false
	}
	return s.Price, true
}

// ListAt overwrites any prior listing.
func (s *Star) ListAt(price decimal.Decimal, now time.Time) {
	s.Listed = true
	s.Price = price
	s.UpdatedAt = now.UTC()
}

func (s *Star) Approve(delegate AccountID, now time.Time) {
	s.Approved = delegate
	s.UpdatedAt = now.UTC()
}

// ReassignTo changes the owner. Every ownership change exits ForSale and drops
// the approval granted by the previous owner.
func (s *Star) ReassignTo(owner AccountID, now time.Time) {
	s.Owner = owner
	s.Listed = false
	s.Price = decimal.Zero
	s.Approved = ""
	s.UpdatedAt = now.UTC()
}
