package services

import (
	"time"

	"starnotary/contexts/asset-registry/star-registry/domain/entities"
	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"
)

// RequireOwner is the capability check run before every owner-only mutation.
func RequireOwner(star entities.Star, caller entities.AccountID) error {
	if !star.OwnedBy(caller) {
		return domainerrors.ErrNotOwner
	}
	return nil
}

// SwapOwners exchanges the owners of a and b. Both stars leave ForSale and lose
// their approvals, including when a and b are the same star.
func SwapOwners(a *entities.Star, b *entities.Star, now time.Time) {
	ownerA, ownerB := a.Owner, b.Owner
	a.ReassignTo(ownerB, now)
	b.ReassignTo(ownerA, now)
}
