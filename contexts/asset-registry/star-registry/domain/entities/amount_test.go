package entities

import (
	"errors"
	"testing"

	domainerrors "starnotary/contexts/asset-registry/star-registry/domain/errors"

	"github.com/shopspring/decimal"
)

func TestParseUnitsConvertsMajorToMinor(t *testing.T) {
	got, err := ParseUnits("0.01")
	if err != nil {
		t.Fatalf("parse units: %v", err)
	}
	want := decimal.New(1, 16)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if FormatUnits(got) != "0.01" {
		t.Fatalf("expected round trip to 0.01, got %s", FormatUnits(got))
	}
}

func TestParseAmountRejectsOutOfRange(t *testing.T) {
	cases := map[string]string{
		"negative":   "-1",
		"fractional": "1.5",
		"garbage":    "ten",
		"empty":      "",
		"overflow":   MaxAmount().Add(decimal.NewFromInt(1)).String(),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseAmount(raw); !errors.Is(err, domainerrors.ErrInvalidAmount) {
				t.Fatalf("expected invalid amount for %q, got %v", raw, err)
			}
		})
	}
}

func TestParseAmountAcceptsBounds(t *testing.T) {
	for _, raw := range []string{"0", "1", MaxAmount().String()} {
		value, err := ParseAmount(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if value.String() != raw {
			t.Fatalf("expected %s, got %s", raw, value)
		}
	}
}

func TestParseUnitsRejectsSubMinorPrecision(t *testing.T) {
	if _, err := ParseUnits("0.0000000000000000001"); !errors.Is(err, domainerrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for 19 decimals, got %v", err)
	}
}
