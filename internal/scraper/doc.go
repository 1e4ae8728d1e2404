// Package scraper extracts visible text from a target website.
//
// The scraper fetches the homepage, collects internal navigation links
// from common menu selectors, and then fetches a bounded number of those
// pages, keeping only paragraph text. Individual page failures are
// logged and skipped; the pipeline continues with whatever text was
// collected. A politeness delay separates page fetches.
package scraper
