package model

import (
	"math"
	"strconv"
	"strings"
)

// MaxAmount is the exclusive upper bound of a lesson price or order total.
// Both are stored as NUMERIC(10,2).
const MaxAmount = 1e8

// ValidAmount reports whether v is a finite, non-negative amount below
// MaxAmount with at most two decimal places, so it is stored unchanged.
func ValidAmount(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= MaxAmount {
		return false
	}

	text := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(text, '.'); i >= 0 {
		return len(text)-i-1 <= 2
	}
	return true
}

// RoundAmount rounds v to whole cents.
func RoundAmount(v float64) float64 {
	return math.Round(v*100) / 100
}
