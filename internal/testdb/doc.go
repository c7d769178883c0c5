// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests obtain a migrated connection with GetTestDBWithT and run each case
// inside a transaction that is rolled back when the test ends, so cases can
// run in parallel against the same database without cleanup.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips when DATABASE_URL is unset
//	    tx := testdb.BeginTx(t, db)
//	    cards := postgres.NewPostgresCardStore(tx, nil)
//	    ...
//	}
package testdb
