// Package store keeps the per-stage emission predictions for one session.
//
// Store is the in-memory mapping from stage to kgCO2e. Reads of a stage that
// was never predicted return 0. FileStore persists a Store as JSON so that
// separate CLI invocations (one per stage, then `total`) share a session:
//   - Atomic writes via temp file + rename
//   - Optional max age after which a stored prediction is treated as unset
//   - A missing file is an empty session, not an error
package store
