// Package roster turns a published registration sheet into normalized
// member records.
//
// This package is the heart of rosterd, containing all domain logic
// independent of any transport layer. The sheet fetcher, the HTTP API,
// and the CLI all drive it through [Service].
//
// # Field Resolution
//
// Registration sheets name their columns inconsistently ("Student Name",
// "student name", "Name of the Student", ...). Each logical field carries
// a [FieldSpec] listing its acceptable header variants in priority order;
// [ResolveField] matches them against a row in three strict tiers:
//
//  1. exact key match
//  2. case-insensitive key match
//  3. case-insensitive substring match, only for variants longer than
//     three characters, and only when no exact match existed at all
//
// Exact matches always beat substring matches regardless of variant
// order, so a short unrelated column can never shadow the real one.
//
// # Record Building
//
// [BuildMember] assembles one [Member] per usable row: it gates on the
// row having a name and a mobile number, derives the registration and
// fee-expiry dates, applies parent-contact fallbacks, and rewrites Drive
// photo links into direct-content form. Rows failing the gate are
// skipped with a reason, never an error.
//
// # Sync
//
// [Service.Sync] runs one fetch-convert-mirror cycle: it pulls a
// [Snapshot] from the configured [Fetcher], converts rows strictly in
// sheet order, mirrors changes through the [Writer], and replaces the
// in-memory [Cache]. Runs are serialized; a second concurrent Sync gets
// [ErrSyncRunning]. Row-level problems degrade to skips, batch-level
// problems (fetch, parse) surface as a single wrapped error with no
// partial results.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using
// [MapError]. Each error category has a unique code for support
// reference:
//
//   - SHEET001-SHEET004: fetching or decoding the published sheet
//   - SYNC001-SYNC002: sync lifecycle (already running, cancelled)
//   - ROSTER001: member lookups
package roster
