package model

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
)

var (
	priceRegex = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

	// numericRegex and radixIntegerRegex accept what a browser treats as a number
	// when coercing a string: signed decimal literals with optional exponent,
	// Infinity, and unsigned hex/octal/binary integers.
	numericRegex      = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)$`)
	radixIntegerRegex = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)

	maxPrice = decimal.RequireFromString("999.99")
)

// Price is a non-negative amount with at most two decimals, capped at 999.99.
// The zero value is a valid price of 0.
type Price struct {
	value decimal.Decimal
}

// NewPrice validates text and returns the price it represents.
//
// Checks run in order: numeric, format, upper bound. The first failing check
// decides the returned error.
func NewPrice(text string) (Price, error) {
	if !isNumeric(text) {
		return Price{}, apperr.PriceNotNumericErr
	}

	if !priceRegex.MatchString(text) {
		return Price{}, apperr.PriceInvalidFormatErr
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return Price{}, apperr.PriceInvalidFormatErr.WrapParent(err)
	}

	if value.GreaterThan(maxPrice) {
		return Price{}, apperr.PriceTooHighErr
	}

	return Price{value: value}, nil
}

// Value returns the price as a float, the representation used on the wire.
func (p Price) Value() float64 {
	return p.value.InexactFloat64()
}

func (p Price) Decimal() decimal.Decimal {
	return p.value
}

func (p Price) IsZero() bool {
	return p.value.IsZero()
}

// Equal reports whether both prices hold the same amount.
func (p Price) Equal(other Price) bool {
	return p.value.Equal(other.value)
}

// String formats the price with exactly two decimals.
func (p Price) String() string {
	return p.value.StringFixed(2)
}

func isNumeric(text string) bool {
	s := strings.TrimFunc(text, isNumberWhitespace)
	if s == "" {
		return true
	}
	return numericRegex.MatchString(s) || radixIntegerRegex.MatchString(s)
}

// isNumberWhitespace reports whether r is skipped around a string coerced to a
// number: tab, vertical tab, form feed, line terminators, U+FEFF and the Zs
// space separators. Unlike unicode.IsSpace it excludes U+0085.
func isNumberWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', '\u2028', '\u2029', '\ufeff':
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
