package format

import (
	"fmt"
	"time"
)

// Elapsed returns a short rendering of d for event timelines: milliseconds
// below a second, seconds with two decimals below a minute, then whole
// minutes and seconds.
func Elapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}

	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	if seconds == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dm%02ds", minutes, seconds)
}

// Since is Elapsed measured from t. It returns zeroValue for a zero t.
func Since(t time.Time, zeroValue string) string {
	if t.IsZero() {
		return zeroValue
	}
	return Elapsed(time.Since(t))
}
