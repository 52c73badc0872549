package metrics

import "time"

// MetricsCollector records management API activity.
// This interface allows for easy mocking in tests.
type MetricsCollector interface {
	// Requests
	RecordRequest(method, route string, statusCode int, elapsed time.Duration)
	RecordTransportError(method, route string)

	// Shovels
	RecordShovelCreated(ok bool)
	RecordShovelDeleted(ok bool)

	// Utility
	IsEnabled() bool
}

// Ensure Collector implements MetricsCollector
var _ MetricsCollector = (*Collector)(nil)

// Ensure MockCollector implements MetricsCollector
var _ MetricsCollector = (*MockCollector)(nil)
