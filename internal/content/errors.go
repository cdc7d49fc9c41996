package content

import "errors"

// Sentinel errors surfaced by the content package, grouped per the error
// taxonomy: configuration errors (bad window/metadata), I/O errors, and
// schema errors. ErrTimestampOutOfWindow lives in window.go since it is
// raised directly by Window.
var (
	// ErrMissingMetadata is returned by Import when the Parquet file is
	// missing the crimeline.epoch or crimeline.duration key/value metadata.
	ErrMissingMetadata = errors.New("content: missing epoch/duration metadata")

	// ErrSchemaMismatch names the schema error case for the expected
	// (uid, cid, timestamp, blob) columns. Import does not return it: a
	// column mismatch surfaces as the Parquet reader's own error, wrapped.
	ErrSchemaMismatch = errors.New("content: schema mismatch")

	// ErrArenaFrozen is returned by Hot.Add/AddBulk after the arena has
	// already been consumed by Freeze.
	ErrArenaFrozen = errors.New("content: hot arena already frozen")
)
