package repository

import "time"

// Metrics records chart pipeline telemetry.
type Metrics interface {
	RecordChart(status string, took time.Duration)
	RecordDegraded(kind string)
	RecordSolver(iterations, evaluations int)
	RecordEphemerisCall(op string, err error)
}
