// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduler's core logic, allowing the review engine and the queue
// builder to remain independent of specific database technologies.
package store
