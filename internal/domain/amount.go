package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the number of wei digits in one ether.
const EtherDecimals = 18

// ValidWei reports whether amount is a usable wei quantity (integral and not negative).
func ValidWei(amount decimal.Decimal) bool {
	return amount.IsInteger() && !amount.IsNegative()
}

// ParseWei parses an integral wei amount.
func ParseWei(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !ValidWei(d) {
		return decimal.Zero, fmt.Errorf("%w: %s is not a whole wei amount", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseEther converts an ether amount such as "1.5" into wei.
func ParseEther(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	wei := d.Shift(EtherDecimals)
	if !ValidWei(wei) {
		return decimal.Zero, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidAmount, s, EtherDecimals)
	}
	return wei, nil
}

// FormatEther renders a wei amount in ether without trailing zeros.
func FormatEther(wei decimal.Decimal) string {
	return wei.Shift(-EtherDecimals).String()
}

// Ether returns n whole ether in wei. Handy for fixtures.
func Ether(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Shift(EtherDecimals)
}
