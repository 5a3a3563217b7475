// Package pricing computes parking charges. Partial hours are billed as full
// hours, so a 61 minute stay costs the same as a two hour one.
package pricing

import (
	"math"
	"time"
)

// BillableHours returns the number of whole hours to charge for the interval.
// Non-positive elapsed time counts as zero hours, never negative.
func BillableHours(start, end time.Time) int {
	elapsed := end.Sub(start)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Ceil(elapsed.Seconds() / 3600))
}

// Cost returns the amount owed for parking from start to end at the given
// hourly rate.
func Cost(start, end time.Time, hourlyRate float64) float64 {
	return float64(BillableHours(start, end)) * hourlyRate
}
