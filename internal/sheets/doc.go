// Package sheets writes pipeline results and trigger status into a shared
// Google spreadsheet via the values REST API.
//
// Two kinds of writes happen here:
//   - fixed trigger cells on the watched sheet (B1 input, C1 status,
//     D1/E1 response label and body, D2/E2 error label and body)
//   - result tabs added per run ("Industry Analysis" and
//     "Relevant Subreddits"), written in a single batch request each to
//     stay inside API quotas
//
// Writes are side effects only; nothing downstream consumes their
// return values. The one retry in the whole system lives here: a 429
// quota response is retried once after a backoff, matching the source
// system's behavior.
package sheets
