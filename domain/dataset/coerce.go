package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric cell, normalising a decimal comma to a dot.
// "12,5" and "1.234,5" parse as 12.5 and 1234.5; "1,234.5" parses as 1234.5.
func ParseNumber(raw string) (float64, bool) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return 0, false
	}

	hasComma := strings.Contains(clean, ",")
	hasPeriod := strings.Contains(clean, ".")

	switch {
	case hasComma && hasPeriod:
		if strings.LastIndex(clean, ",") > strings.LastIndex(clean, ".") {
			// European: period groups thousands, comma is the decimal mark
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	case hasComma:
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseBool parses the boolean spellings found in exported spreadsheets.
// Numeric 0/1 are left to ParseNumber so that count columns stay numeric.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y":
		return true, true
	case "false", "no", "n":
		return false, true
	}
	return false, false
}

// inferKind picks the narrowest kind every non-empty cell satisfies
func inferKind(values []string) ColumnKind {
	seen := 0
	isBool, isNumber := true, true
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		seen++
		if isBool {
			if _, ok := ParseBool(v); !ok {
				isBool = false
			}
		}
		if isNumber {
			if _, ok := ParseNumber(v); !ok {
				isNumber = false
			}
		}
		if !isBool && !isNumber {
			return KindText
		}
	}
	switch {
	case seen == 0:
		return KindText
	case isBool:
		return KindBool
	case isNumber:
		return KindNumber
	}
	return KindText
}
