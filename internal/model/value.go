package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies a cell value.
type Kind int

const (
	KindBlank Kind = iota
	KindText
	KindNumber
	KindDate
)

// Layouts used to render dates.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "blank"
	}
}

// Value is a single spreadsheet cell: text, number, date or blank.
// The zero Value is blank.
type Value struct {
	Kind   Kind
	Text   string          // set when Kind == KindText
	Number decimal.Decimal // set when Kind == KindNumber
	Time   time.Time       // set when Kind == KindDate
}

// Blank returns the blank value.
func Blank() Value { return Value{} }

// Text returns a text value. An empty string is stored as blank.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{Kind: KindText, Text: s}
}

// Number returns a numeric value.
func Number(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Number: d}
}

// Date returns a date value.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Time: t}
}

// HasClock reports whether a date value carries a time of day.
func (v Value) HasClock() bool {
	h, m, s := v.Time.Clock()
	return h != 0 || m != 0 || s != 0 || v.Time.Nanosecond() != 0
}

// NumberFromInt returns a numeric value for n.
func NumberFromInt(n int64) Value {
	return Number(decimal.NewFromInt(n))
}

// ParseCell types a raw cell string: numeric strings become numbers,
// everything else text, "" blank.
func ParseCell(raw string) Value {
	if raw == "" {
		return Value{}
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		return Number(d)
	}
	return Text(raw)
}

// IsBlank reports whether v holds no data.
func (v Value) IsBlank() bool {
	return v.Kind == KindBlank
}

// String renders v the way it reads in a cell. Numbers use their
// canonical decimal form, so 3001000 renders as "3001000".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number.String()
	case KindDate:
		if v.HasClock() {
			return v.Time.Format(DateTimeLayout)
		}
		return v.Time.Format(DateLayout)
	default:
		return ""
	}
}

// Decimal coerces v to a number. Text is trimmed and stripped of
// thousands separators before parsing. ok is false for blanks, dates and
// text that is not numeric.
func (v Value) Decimal() (d decimal.Decimal, ok bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindText:
		s := strings.ReplaceAll(strings.TrimSpace(v.Text), ",", "")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// DecimalOrZero is Decimal with failures counted as zero.
func (v Value) DecimalOrZero() decimal.Decimal {
	d, _ := v.Decimal()
	return d
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindNumber:
		return v.Number.Equal(o.Number)
	case KindDate:
		return v.Time.Equal(o.Time)
	default:
		return true
	}
}
