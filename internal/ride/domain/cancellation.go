package domain

import "time"

// LateCancellationMinutes is the penalty window: cancelling within the
// last 10 minutes before departure forfeits the refund.
const LateCancellationMinutes = 10

// CancellationAssessment is the outcome of the lateness policy for a
// cancellation happening at a given instant.
type CancellationAssessment struct {
	MinutesUntilDeparture int64
	Late                  bool
}

// AssessCancellation computes the lateness window. Minutes are truncated
// toward zero, so exactly 10 minutes out still counts as late while 11
// does not. A cancellation at or after departure time is not flagged late.
func AssessCancellation(now, departure time.Time) CancellationAssessment {
	minutes := int64(departure.Sub(now).Minutes())
	return CancellationAssessment{
		MinutesUntilDeparture: minutes,
		Late:                  minutes > 0 && minutes <= LateCancellationMinutes,
	}
}
