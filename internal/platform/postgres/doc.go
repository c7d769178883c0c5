// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver.
//
// Stores accept a store.DBTX so they work with either a *sql.DB or a
// *sql.Tx; transaction boundaries are managed by the caller.
package postgres
