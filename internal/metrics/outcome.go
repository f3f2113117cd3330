// Package metrics aggregates request outcomes into run statistics.
package metrics

import (
	"time"
)

// Outcome is the result of one executed action.
//
// Closing the results channel is the terminator: it means no further
// outcomes will arrive and is never counted.
type Outcome struct {
	// Success is true only for an HTTP 200 response
	Success bool

	// Elapsed is measured from dispatch until the response headers arrived
	Elapsed time.Duration

	// URL is the resolved request URL
	URL string

	// StatusCode is zero when no response was received
	StatusCode int

	// BodySize is the number of body bytes read
	BodySize int64

	// Err holds the transport or read error behind a failure, if any
	Err error

	// Worker is the index of the worker that produced the outcome
	Worker int
}
