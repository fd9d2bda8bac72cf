package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal converts a comma-decimal cell ("23,4") to a value.
// Blank or unparseable cells yield nil.
func ParseDecimal(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &v
}

// FormatDecimal renders a value with six decimals and a comma separator,
// e.g. 3.5 -> "3,500000". Missing and NaN values render as an empty cell.
func FormatDecimal(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatFloat(*v)
}

// FormatFloat is FormatDecimal for a present value.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', 6, 64), ".", ",", 1)
}

func ptr(v float64) *float64 {
	return &v
}
