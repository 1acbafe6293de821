// Package store provides SQLite-backed durable storage for accepted
// recommendations and the shared visit counter.
//
// # Guarantees
//
// Uniqueness on canonical key:
//   - recommendations.canonical_key is UNIQUE and never empty
//   - TryInsert is a single INSERT ... ON CONFLICT(canonical_key) DO NOTHING;
//     the statement itself decides which of several concurrent callers wins
//   - FindByKey is advisory; a negative answer can be stale by the time the
//     caller inserts
//
// Canonical key consistency:
//   - TryInsert recomputes canon.Normalize(CompanyName) and refuses rows whose
//     CanonicalKey disagrees
//
// Visit counter:
//   - one row, incremented by a single UPDATE count = count + 1 statement,
//     so concurrent increments are never lost
//
// Ordering:
//   - listings are newest first: ORDER BY submitted_at DESC, id DESC
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Writers from other handles wait up to 5 seconds
//
// Driver failures are wrapped with ErrStorageUnavailable.
package store
