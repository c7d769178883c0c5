// Package study orchestrates the scheduler for callers: it saves words as
// cards, records lookups, runs reviews through the SRS engine, and builds
// due queues and progress analytics from the stores.
//
// Storage failures are absorbed rather than propagated. Queries degrade to
// empty results and writes report an outcome status, so a study session
// keeps working without persistence. Every absorbed failure is logged at
// ERROR level.
package study
