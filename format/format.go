// Package format renders scores and durations for the CLI.
package format

import (
	"fmt"
)

// HumanNumber abbreviates n with a K, M, B or T suffix. Negative numbers
// keep their sign.
func HumanNumber(n int64) string {
	const (
		Thousand = 1000
		Million  = Thousand * 1000
		Billion  = Million * 1000
		Trillion = Billion * 1000
	)

	if n < 0 {
		if n == -n {
			// math.MinInt64 has no positive counterpart
			return fmt.Sprintf("%d", n)
		}
		return "-" + HumanNumber(-n)
	}

	switch {
	case n >= Trillion:
		return decimalPlace(float64(n)/Trillion) + "T"
	case n >= Billion:
		return decimalPlace(float64(n)/Billion) + "B"
	case n >= Million:
		return decimalPlace(float64(n)/Million) + "M"
	case n >= Thousand:
		return decimalPlace(float64(n)/Thousand) + "K"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func decimalPlace(number float64) string {
	switch {
	case number >= 100:
		return fmt.Sprintf("%.0f", number)
	case number >= 10:
		return fmt.Sprintf("%.1f", number)
	default:
		return fmt.Sprintf("%.2f", number)
	}
}
