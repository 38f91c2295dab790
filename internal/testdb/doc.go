// Package testdb provides helpers for integration tests that need a real
// database.
//
// Tests call GetTestDBWithT, which skips unless DATABASE_URL is set, then
// SetupTestDatabaseSchema to apply the embedded migrations, and run their
// assertions inside WithTx so that every change is rolled back:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.SetupTestDatabaseSchema(t, db)
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        accounts := sqlstore.NewAccountStore(tx, testdb.Dialect(t), nil)
//	        ...
//	    })
//	}
//
// DATABASE_DRIVER selects "pgx" (default) or "mysql".
package testdb
