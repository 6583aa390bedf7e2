// Package testdb provides utilities for database integration tests.
//
// Tests run only when DATABASE_URL (or TASKAPI_TEST_DB_URL) is set and are
// otherwise skipped. Each test runs in its own transaction, which is rolled
// back when the test completes, so tests can run in parallel without manual
// cleanup:
//
//	func TestMyFeature(t *testing.T) {
//	    t.Parallel()
//	    db := testdb.GetTestDBWithT(t)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := postgres.NewPostgresTaskStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
