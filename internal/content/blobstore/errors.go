package blobstore

import "errors"

// ErrSchemaMismatch is returned when a blob file's columns do not have the
// expected Arrow types — the schema error case of the core's error taxonomy.
var ErrSchemaMismatch = errors.New("blobstore: schema mismatch")
