// Package ingest reads the three raw sources and normalizes them into the
// common sales schema.
//
// Readers are tolerant of header naming variations: each file's header row
// is detected and mapped to logical column names, the data rows are kept as
// untyped strings, and the normalizer performs all type coercion. Rows that
// fail coercion are dropped with a diagnostic; a missing or empty source
// contributes zero rows. Only a reference table that is present but
// structurally unusable is fatal.
package ingest
