// Package lstore implements store.ISuite on top of a local db.KVDB.
//
// Values are encoded with native.Marshal before they reach the database, so
// any byte-level engine (e.g. maple) can back a suite. The suite generates
// the write index for every Set and Delete itself using an atomic counter.
//
// Besides the ISuite methods, LocalSuite offers Save and Load to write and
// restore binary snapshots of the underlying database, and GetDBInfo to
// inspect it.
package lstore
