package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// All amounts on the platform are denominated in Indonesian Rupiah, which has
// no minor unit in practice. Money is therefore a whole-rupiah integer and
// every arithmetic helper returns whole rupiah.
const (
	Code   = "IDR"
	Symbol = "Rp"
	Name   = "Indonesian Rupiah"
	Locale = "id-ID"
)

// DefaultCommissionRate is the platform fee applied at checkout.
const DefaultCommissionRate = 0.05

// Money is a non-negative whole-rupiah amount.
type Money int64

const (
	thousand = 1_000
	million  = 1_000_000
	billion  = 1_000_000_000
	trillion = 1_000_000_000_000
)

// FormatOptions controls display formatting. The zero value renders the
// standard notation with the currency symbol and whole-unit precision.
type FormatOptions struct {
	// OmitSymbol drops the "Rp" prefix.
	OmitSymbol bool
	// Compact renders the Indonesian short scale (rb, jt, M, T).
	Compact bool
	// MinFractionDigits and MaxFractionDigits widen the fractional part.
	// Both default to 0, matching IDR convention.
	MinFractionDigits int
	MaxFractionDigits int
}

// Format renders a Money value as a localized IDR string, e.g. "Rp 1.500.000".
func Format(amount Money, opts FormatOptions) string {
	return formatDecimal(decimal.NewFromInt(int64(amount)), opts)
}

// FormatValue renders an arbitrary numeric value. Strings are parsed
// leniently and anything non-numeric formats as the zero amount; this helper
// never fails. Fractional input is rounded to the configured precision
// (whole rupiah by default).
func FormatValue(value any, opts FormatOptions) string {
	return formatDecimal(coerce(value), opts)
}

func coerce(value any) decimal.Decimal {
	switch v := value.(type) {
	case Money:
		return decimal.NewFromInt(int64(v))
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case float64:
		return decimal.NewFromFloat(v)
	case decimal.Decimal:
		return v
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

func formatDecimal(d decimal.Decimal, opts FormatOptions) string {
	minDigits := opts.MinFractionDigits
	maxDigits := opts.MaxFractionDigits
	if minDigits < 0 {
		minDigits = 0
	}
	if maxDigits < minDigits {
		maxDigits = minDigits
	}

	var body string
	if opts.Compact {
		body = compactBody(d)
	} else {
		body = standardBody(d.Round(int32(maxDigits)), minDigits)
	}

	if opts.OmitSymbol {
		return body
	}
	return Symbol + " " + body
}

// standardBody renders "1.500.000" / "1.500.000,50" using id-ID separators.
func standardBody(d decimal.Decimal, minDigits int) string {
	fixed := d.StringFixed(int32(fractionWidth(d, minDigits)))

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart := fixed
	fracPart := ""
	if idx := strings.IndexByte(fixed, '.'); idx >= 0 {
		intPart, fracPart = fixed[:idx], fixed[idx+1:]
	}

	grouped := groupThousands(intPart)
	if fracPart != "" {
		grouped += "," + fracPart
	}
	if negative {
		grouped = "-" + grouped
	}
	return grouped
}

func fractionWidth(d decimal.Decimal, minDigits int) int {
	width := int(-d.Exponent())
	if width < minDigits {
		width = minDigits
	}
	if width < 0 {
		width = 0
	}
	return width
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// compactBody renders the Indonesian short scale: 50.000 -> "50 rb",
// 1.500.000 -> "1,5 jt", 2.000.000.000 -> "2 M".
func compactBody(d decimal.Decimal) string {
	abs := d.Abs()
	units := []struct {
		limit  int64
		suffix string
	}{
		{trillion, "T"},
		{billion, "M"},
		{million, "jt"},
		{thousand, "rb"},
	}
	for _, unit := range units {
		threshold := decimal.NewFromInt(unit.limit)
		if abs.GreaterThanOrEqual(threshold) {
			scaled := d.Div(threshold).Round(1)
			return strings.Replace(trimTrailingZero(scaled), ".", ",", 1) + " " + unit.suffix
		}
	}
	return standardBody(d.Round(0), 0)
}

func trimTrailingZero(d decimal.Decimal) string {
	s := d.StringFixed(1)
	return strings.TrimSuffix(s, ".0")
}

// Parse extracts the numeric value from a display string, discarding the
// symbol and thousands separators. It inverts Format only for canonical
// outputs; unparseable input yields 0.
func Parse(display string) Money {
	var b strings.Builder
	for _, r := range display {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ',':
			// id-ID decimal mark
			b.WriteByte('.')
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0
	}
	return Money(d.Round(0).IntPart())
}

// Commission returns the platform fee for the amount, rounded half away from
// zero to whole rupiah.
func Commission(amount Money, rate float64) Money {
	fee := decimal.NewFromInt(int64(amount)).Mul(decimal.NewFromFloat(rate))
	return Money(fee.Round(0).IntPart())
}

// NetAmount returns what the seller keeps after commission. Defined as the
// complement of Commission so the two always partition the amount exactly.
func NetAmount(amount Money, rate float64) Money {
	return amount - Commission(amount, rate)
}
