// Package sqlite implements the store interfaces on a local SQLite file using
// the pure-Go modernc.org/sqlite driver and sqlx for row mapping.
//
// Timestamps are stored as Unix milliseconds in INTEGER columns.
package sqlite
