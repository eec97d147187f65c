// Package store provides the content-addressable audio store: a flat
// directory of fingerprint-named files with atomic writes and idempotent
// deletes. Entries persist until explicitly invalidated; there is no
// eviction and no metadata beyond the bytes themselves.
package store

import "errors"

// ErrNotFound is returned by Read when no entry exists for a fingerprint.
var ErrNotFound = errors.New("audio entry not found")

// Store is the key->bytes contract the speech engine depends on. Write must
// be atomic with respect to concurrent readers and Delete must be a no-op
// for absent fingerprints.
type Store interface {
	Exists(fingerprint string) bool
	Read(fingerprint string) ([]byte, error)
	Write(fingerprint string, data []byte) error
	Delete(fingerprint string) error
}
