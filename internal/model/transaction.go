package model

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Milliunits is an amount in thousandths of the major currency unit.
// Negative values are outflows.
type Milliunits int64

// MilliunitsFromCents converts an amount in cents (1/100) to milliunits.
func MilliunitsFromCents(cents int64) Milliunits {
	return Milliunits(decimal.New(cents, -2).Shift(3).IntPart())
}

// MilliunitsFromDecimal converts an amount in major units, truncating below
// a thousandth.
func MilliunitsFromDecimal(d decimal.Decimal) Milliunits {
	return Milliunits(d.Shift(3).IntPart())
}

// Decimal returns the amount in major units.
func (m Milliunits) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -3)
}

func (m Milliunits) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// FlagColor is a destination flag colour. The zero value means no flag.
type FlagColor string

const (
	FlagNone   FlagColor = ""
	FlagRed    FlagColor = "red"
	FlagOrange FlagColor = "orange"
	FlagYellow FlagColor = "yellow"
	FlagGreen  FlagColor = "green"
	FlagBlue   FlagColor = "blue"
	FlagPurple FlagColor = "purple"
)

// FlagColors lists every colour the destination accepts.
var FlagColors = []FlagColor{FlagRed, FlagOrange, FlagYellow, FlagGreen, FlagBlue, FlagPurple}

// ParseFlagColor validates s as a flag colour. An empty string is FlagNone.
func ParseFlagColor(s string) (FlagColor, error) {
	if s == "" {
		return FlagNone, nil
	}
	for _, c := range FlagColors {
		if string(c) == s {
			return c, nil
		}
	}
	return FlagNone, fmt.Errorf("invalid flag color %q (want one of %v)", s, FlagColors)
}

// Transaction is the canonical form uploaded to the destination.
type Transaction struct {
	SourceID  string
	Date      string // YYYY-MM-DD in the source timestamp's own offset
	Amount    Milliunits
	PayeeName string
	ImportID  string
	IsForeign bool
	IsCleared bool
}
