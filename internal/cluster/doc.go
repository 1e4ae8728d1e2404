// Package cluster dispatches cleaned question text to a third-party
// keyword-clustering service.
//
// The dispatch is fire-and-forget: the service's response body is logged
// and stored on the report for the debug cells, but never parsed or used
// downstream. A failure here is recorded and logged but never aborts the
// pipeline.
package cluster
