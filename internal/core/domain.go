package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Expense Type = "expense"
	Income  Type = "income"
)

// DateLayout is the canonical on-disk date representation.
const DateLayout = "2006-01-02"

// CreatedAtLayout is the canonical on-disk creation timestamp representation.
const CreatedAtLayout = "2006-01-02 15:04:05"

// NoSubcategory is the sentinel stored when a record has no subcategory
// (income records, or rows edited without one).
const NoSubcategory = "-"

type (
	// Type distinguishes money flowing out (expense) from money flowing in (income).
	Type string

	// Date is a calendar day without a time component.
	Date struct {
		time.Time
	}

	// Record is one income or expense event. Records have no identifier:
	// identity is positional within the stored sequence, so edits and
	// deletes are expressed as a full-table replace.
	Record struct {
		Date        Date
		Amount      Money
		Type        Type
		Category    string
		Subcategory string
		Note        string
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidRecord   = errors.New("invalid record")
	ErrUnknownCategory = errors.New("unknown category")
)

// Valid reports whether t is one of the two known transaction types.
func (t Type) Valid() bool {
	return t == Expense || t == Income
}

// NormalizeType maps a raw type tag to a Type. Empty or unrecognized tags
// resolve to Expense: legacy files predate the income variant and carry no
// type key at all.
func NormalizeType(raw string) Type {
	if Type(strings.TrimSpace(raw)) == Income {
		return Income
	}
	return Expense
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses the canonical YYYY-MM-DD form. Longer timestamp strings
// are accepted by taking their date prefix, since hand-edited files and
// grid editors sometimes hand back full datetimes.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: bad date %q", ErrInvalidRecord, s)
	}
	return Date{Time: t}, nil
}

// String returns the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON writes the canonical YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts the canonical form or a longer timestamp prefix.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int in 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date is not set", ErrInvalidRecord)
	}
	return nil
}

// Validate checks the structural record invariants: a set date, a
// non-negative amount, a known type and a non-empty category. Whether the
// category exists in the taxonomy is a separate concern, see Taxonomy.Resolve.
func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecord, string(r.Type))
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("%w: empty category", ErrInvalidRecord)
	}
	return nil
}
