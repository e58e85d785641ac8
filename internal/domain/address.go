package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Address identifies a caller. The canonical form is "0x" followed by 40 lower-case hex digits.
type Address string

const addressHexLen = 40

var addressFold = cases.Lower(language.Und)

// ParseAddress validates s and returns its canonical form.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) != addressHexLen+2 || !(strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	digits := s[2:]
	if _, err := hex.DecodeString(digits); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return Address("0x" + addressFold.String(digits)), nil
}

// MustParseAddress is like ParseAddress but panics on invalid input.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate fails with ErrInvalidAddress unless a is set and already in canonical form.
func (a Address) Validate() error {
	canonical, err := ParseAddress(string(a))
	if err != nil {
		return err
	}
	if canonical != a {
		return fmt.Errorf("%w: %q is not canonical", ErrInvalidAddress, string(a))
	}
	return nil
}

// IsZero reports whether a is unset.
func (a Address) IsZero() bool { return a == "" }

func (a Address) String() string { return string(a) }
