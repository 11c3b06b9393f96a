// Package core holds the pure ledger domain: records, money, the category
// taxonomy, aggregation and budget evaluation. Nothing in this package
// performs I/O.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a currency-agnostic amount in hundredths (satang, cents, ...).
// Amounts are absolute values; the direction of the flow is carried by the
// record's Type, never by a sign on the amount.
type Money struct {
	Satang int64
}

// ParseDecimalToSatang converts a decimal string to satang with half-up
// rounding on the third decimal place. Both dot (12.34) and comma (12,34)
// separators are accepted. Zero is a valid amount; signs are not.
//
// Examples:
//
//	ParseDecimalToSatang("12.34")  -> 1234, nil
//	ParseDecimalToSatang("12,34")  -> 1234, nil
//	ParseDecimalToSatang("12.345") -> 1234, nil (rounds down)
//	ParseDecimalToSatang("12.346") -> 1235, nil (rounds up)
func ParseDecimalToSatang(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidRecord)
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: signed amount %q", ErrInvalidRecord, s)
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: bad amount %q", ErrInvalidRecord, s)
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, fmt.Errorf("%w: bad amount %q", ErrInvalidRecord, s)
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad amount %q", ErrInvalidRecord, s)
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, fmt.Errorf("%w: amount %q too large", ErrInvalidRecord, s)
	}
	// Take the first two fractional digits, then half-up rounding on the third
	var fracSatang int64
	if len(fracPart) > 0 {
		fracSatang = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracSatang += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracSatang++
			}
		}
	}
	return iv*100 + fracSatang, nil
}

// Baht returns the amount as a float64 for display purposes.
// Use satang for calculations to avoid floating-point precision issues.
func (m Money) Baht() float64 {
	return float64(m.Satang) / 100.0
}

// Add returns the component-wise sum of the two amounts.
func (m Money) Add(other Money) Money {
	return Money{Satang: m.Satang + other.Satang}
}

// Sub returns m minus other. The result may be negative (budget overage).
func (m Money) Sub(other Money) Money {
	return Money{Satang: m.Satang - other.Satang}
}

func (m Money) Validate() error {
	if m.Satang < 0 {
		return fmt.Errorf("%w: negative amount", ErrInvalidRecord)
	}
	return nil
}

// String formats the amount as a plain decimal with two digits.
func (m Money) String() string {
	neg := m.Satang < 0
	v := m.Satang
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d.%02d", v/100, v%100)
	if neg {
		return "-" + s
	}
	return s
}

// MarshalJSON writes the amount as a plain decimal number, matching the
// numeric amounts in hand-inspectable ledger files.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
// Negative numbers are rejected at validation, not here, so that a bad row
// can be reported with its position instead of failing the whole decode.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	satang, err := ParseDecimalToSatang(s)
	if err != nil {
		return err
	}
	if neg {
		satang = -satang
	}
	m.Satang = satang
	return nil
}
