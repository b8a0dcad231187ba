// Package sitedigest turns an arbitrary website into a bounded, de-duplicated
// set of fetched pages suitable for downstream summarization. It copes with
// unreliable and adversarial web infrastructure: bot-protection interstitials,
// JavaScript-rendered pages, paginated APIs, and rate limiting.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, rod/, sqlite/).
package sitedigest
