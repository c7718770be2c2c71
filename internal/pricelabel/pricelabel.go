// Package pricelabel converts between machine-numeric prices and the
// free-form, locale-formatted display strings used in storage and API
// responses (e.g. "1 234,56 USD"). Parsing is deliberately best-effort:
// grouping separators and currency suffixes are discarded, and a label with
// no numeral is a normal miss, never an error. Callers must not rely on
// round-trip exactness.
package pricelabel

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Magnitude at or above which labels are rendered with two fraction digits;
// smaller values get three to four.
const preciseThreshold = 100

var (
	numeralPattern  = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	currencyPattern = regexp.MustCompile(`[A-Za-z]{3}$`)
	whitespace      = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "", " ", "", " ", "")
)

// ParseNumericValue extracts the first decimal numeral from a price label.
// Whitespace (including non-breaking spaces used as grouping separators) is
// stripped and a decimal comma is treated as a decimal point before
// matching. Returns ok=false when the label contains no numeral or the
// numeral does not parse to a finite float.
func ParseNumericValue(label string) (float64, bool) {
	cleaned := whitespace.Replace(label)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	match := numeralPattern.FindString(cleaned)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// FormatPriceLabel renders a numeric price as a display label: space-grouped
// thousands, decimal comma, and the trimmed currency code appended when
// non-empty. Values with magnitude >= 100 get exactly two fraction digits;
// smaller values get four with a single trailing zero trimmed, keeping at
// least three. Returns ok=false for non-finite values.
func FormatPriceLabel(value float64, currency string) (string, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "", false
	}

	d := decimal.NewFromFloat(value)
	var fixed string
	if math.Abs(value) >= preciseThreshold {
		fixed = d.StringFixed(2)
	} else {
		fixed = d.StringFixed(4)
		if strings.HasSuffix(fixed, "0") {
			fixed = fixed[:len(fixed)-1]
		}
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	label := groupThousands(intPart) + "," + fracPart

	if cur := strings.TrimSpace(currency); cur != "" {
		label += " " + cur
	}
	return label, true
}

// InferCurrencyFromLabel extracts a trailing three-letter alphabetic token
// from a label and upper-cases it. A longer trailing word (four or more
// letters) is not a currency code.
func InferCurrencyFromLabel(label string) (string, bool) {
	trimmed := strings.TrimSpace(label)
	loc := currencyPattern.FindStringIndex(trimmed)
	if loc == nil {
		return "", false
	}
	if loc[0] > 0 && isLetter(trimmed[loc[0]-1]) {
		return "", false
	}
	return strings.ToUpper(trimmed[loc[0]:]), true
}

// FormatReturnLabel renders a return percentage with a sign prefix ("+" for
// zero or positive), one fraction digit and a "%" suffix. Non-finite input
// falls back to the zero label.
func FormatReturnLabel(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		pct = 0
	}
	sign := ""
	if pct >= 0 {
		sign = "+"
	}
	return sign + strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

func groupThousands(intPart string) string {
	neg := strings.HasPrefix(intPart, "-")
	digits := strings.TrimPrefix(intPart, "-")

	if len(digits) > 3 {
		var b strings.Builder
		head := len(digits) % 3
		if head > 0 {
			b.WriteString(digits[:head])
		}
		for i := head; i < len(digits); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(digits[i : i+3])
		}
		digits = b.String()
	}

	if neg {
		return "-" + digits
	}
	return digits
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
