package metrics

import (
	"fmt"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
)

// Share outcomes reported by IncShares.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
)

// IncShares counts one aggregation outcome for the given server role.
func IncShares(role, outcome string) {
	vmetrics.GetOrCreateCounter(fmt.Sprintf(`prio_shares_total{role=%q,outcome=%q}`, role, outcome)).Inc()
}

// SharesCount returns the current value of the counter IncShares updates.
func SharesCount(role, outcome string) uint64 {
	return vmetrics.GetOrCreateCounter(fmt.Sprintf(`prio_shares_total{role=%q,outcome=%q}`, role, outcome)).Get()
}

// IncVerificationErrors counts verification messages that could not be produced.
func IncVerificationErrors(role string) {
	vmetrics.GetOrCreateCounter(fmt.Sprintf(`prio_verification_errors_total{role=%q}`, role)).Inc()
}

// ObserveVerification records how long generating one verification message took.
func ObserveVerification(role string, start time.Time) {
	vmetrics.GetOrCreateHistogram(fmt.Sprintf(`prio_verification_duration_seconds{role=%q}`, role)).UpdateDuration(start)
}

// IncHTTPErrors counts API requests that ended with the given status code.
func IncHTTPErrors(route string, status int) {
	vmetrics.GetOrCreateCounter(fmt.Sprintf(`prio_http_errors_total{route=%q,status="%d"}`, route, status)).Inc()
}
