// Package pipeline orchestrates the research run as an ordered sequence
// of steps: fetch questions, scrape the target site, clean, dispatch to
// the clustering service, analyze, and write results to the spreadsheet.
//
// Each step receives the accumulated ResearchReport and records its
// outcome on it. Only the first step (question fetch) is fatal; every
// later stage depends on its output, so a fetch failure halts the run.
// All other failures are recorded as stage results and the pipeline
// continues, so one flaky external service does not lose the rest of
// the run's data.
//
// The BatchProcessor runs the pipeline for multiple target websites
// concurrently with a bounded worker count.
package pipeline
