// Package testing provides a standardised test suite for implementations of
// store.ISuite.
//
// Example usage:
//
//	storetesting.RunSuiteTests(t, "LocalSuite", func(name string) store.ISuite {
//		return lstore.NewLocalSuite(name, func() db.KVDB { return maple.NewMapleDB(nil) })
//	})
package testing
