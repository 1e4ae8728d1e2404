// Package model defines the core data structures used throughout seoscan.
//
// This package contains the following main types:
//   - Question: A single forum question collected for a target website
//   - ScrapedPage: Text extracted from one page of the target website
//   - ResearchReport: The main pipeline result structure
//   - RunSummary: A summarized, human-readable view of a research run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (forum, scraper, pipeline, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
