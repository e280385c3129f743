package catalog

import (
	"errors"
	"fmt"
)

// Error codes categorise per-record and per-run failures. Every error the
// assembler or builder surfaces carries one so the orchestrator can decide
// whether to continue with the next record.
const (
	// ErrCodeNotFound means the main record for an identifier is absent.
	ErrCodeNotFound = "NOT_FOUND"

	// ErrCodeDataIntegrity means a foreign key dangles (e.g. an orphaned
	// source link). The export degrades but still produces valid output.
	ErrCodeDataIntegrity = "DATA_INTEGRITY"

	// ErrCodeSchemaMapping means a mandatory scalar was null when the
	// document was built. Fatal for that record only.
	ErrCodeSchemaMapping = "SCHEMA_MAPPING"

	// ErrCodeDataSource means connectivity or query failure. Fatal for the
	// run; no retry policy lives at this layer.
	ErrCodeDataSource = "DATA_SOURCE"
)

// NotFoundError reports an absent main record.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: metadata record %q not found", ErrCodeNotFound, e.ID)
}

// DataIntegrityError reports a dangling foreign key discovered during
// assembly. The assembler logs and skips; this type exists for callers that
// opt into strict handling.
type DataIntegrityError struct {
	ID     string // metadata record being assembled
	Detail string // what dangled, naming the offending identifier
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("%s: record %q: %s", ErrCodeDataIntegrity, e.ID, e.Detail)
}

// SchemaMappingError reports a null mandatory scalar on the main record.
type SchemaMappingError struct {
	ID    string
	Field string
}

func (e *SchemaMappingError) Error() string {
	return fmt.Sprintf("%s: record %q: mandatory field %s is null", ErrCodeSchemaMapping, e.ID, e.Field)
}

// DataSourceError wraps a connectivity or query failure.
type DataSourceError struct {
	Op  string // the fetch that failed
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCodeDataSource, e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsSchemaMapping reports whether err is (or wraps) a SchemaMappingError.
func IsSchemaMapping(err error) bool {
	var e *SchemaMappingError
	return errors.As(err, &e)
}

// IsDataSource reports whether err is (or wraps) a DataSourceError.
// These abort the run rather than just the current record.
func IsDataSource(err error) bool {
	var e *DataSourceError
	return errors.As(err, &e)
}
