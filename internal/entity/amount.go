package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Amount is a money or quantity value decoded leniently from model output.
// Numbers, numeric strings and accounting negatives ("(50.00)") are accepted;
// null or missing values decode to zero. Anything else decodes to an invalid
// amount that encodes back as null.
type Amount float64

var reAmountNoise = regexp.MustCompile(`[^0-9.,\-]`)

// InvalidAmount returns an Amount that reports Valid() == false.
func InvalidAmount() Amount { return Amount(math.NaN()) }

// Valid reports whether the amount holds a finite number.
func (a Amount) Valid() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float64 returns the raw value.
func (a Amount) Float64() float64 { return float64(a) }

// Ptr returns a pointer to a copy of a.
func (a Amount) Ptr() *Amount { return &a }

func (a Amount) String() string {
	if !a.Valid() {
		return "invalid"
	}
	return strconv.FormatFloat(float64(a), 'f', 2, 64)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(a), 'f', -1, 64)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		*a = ParseAmount(str)
		return nil
	}
	if s == "true" || s == "false" || s[0] == '{' || s[0] == '[' {
		*a = InvalidAmount()
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(f)
	return nil
}

// ParseAmount reads a human formatted amount such as "$1,234.50", "(50.00)",
// "-7,41" or "EUR 12.00". Empty input is zero.
func ParseAmount(s string) Amount {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	s = reAmountNoise.ReplaceAllString(s, "")
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" || strings.ContainsAny(s, "-") {
		return InvalidAmount()
	}
	s = normalizeSeparators(s)

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return InvalidAmount()
	}
	if negative {
		f = -f
	}
	return Amount(f)
}

// normalizeSeparators turns "1.234,56", "1,234.56" and "7,41" into plain decimals.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// a single comma followed by exactly two digits is a decimal mark
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 == 2 {
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	default:
		return s
	}
}
