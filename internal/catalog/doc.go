// Package catalog defines the typed row records of the metadata catalogue,
// the Bundle aggregate built from them, and the assembler that composes a
// Bundle for one catalogue entry from a DataSource.
//
// All reads go through the DataSource interface so the assembler can be
// exercised against the SQLite store or an in-memory fake. The assembler
// never writes; a Bundle is built fresh per export call and is not mutated
// afterwards.
package catalog
