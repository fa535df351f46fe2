package transform

import "strings"

const (
	cancelReasonPrefix = "Cancel reason: "
	delayReasonPrefix  = "Delay reason: "
	alertsPrefix       = "Alerts:\n"
)

// AggregateMessage builds a service's abnormality message. Segments appear
// in a fixed order (cancel reason, delay reason, alerts) and are joined by
// newlines; downstream consumers depend on this exact layout.
func AggregateMessage(cancelReason, delayReason string, alerts []string) string {
	var segments []string
	if cancelReason != "" {
		segments = append(segments, cancelReasonPrefix+cancelReason)
	}
	if delayReason != "" {
		segments = append(segments, delayReasonPrefix+delayReason)
	}
	if len(alerts) > 0 {
		segments = append(segments, alertsPrefix+JoinAlerts(alerts))
	}
	return strings.Join(segments, "\n")
}

// JoinAlerts joins ad-hoc alerts with newlines. No alerts yields "".
func JoinAlerts(alerts []string) string {
	return strings.Join(alerts, "\n")
}
