package entities

import (
	"math/big"
	"strings"

	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"

	"github.com/shopspring/decimal"
)

// UnitDecimals is the number of minor units per major unit (wei per ether).
const UnitDecimals = 18

// Amounts are integral minor units bounded by the uint256 range.
var maxAmount = decimal.NewFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)),
	0,
)

func MaxAmount() decimal.Decimal {
	return maxAmount
}

func ValidAmount(value decimal.Decimal) bool {
	return !value.IsNegative() && value.IsInteger() && value.LessThanOrEqual(maxAmount)
}

// ParseAmount parses a decimal string of minor units.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !ValidAmount(value) {
		return decimal.Zero, domainerrors.ErrInvalidAmount
	}
	return value, nil
}

// ParseUnits converts a major-unit string such as "0.01" into minor units.
func ParseUnits(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, domainerrors.ErrInvalidAmount
	}
	minor := value.Shift(UnitDecimals)
	if !ValidAmount(minor) {
		return decimal.Zero, domainerrors.ErrInvalidAmount
	}
	return minor, nil
}

func FormatUnits(minor decimal.Decimal) string {
	return minor.Shift(-UnitDecimals).String()
}
