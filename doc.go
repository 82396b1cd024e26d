// Package lookthrough reconciles a declared portfolio against downloaded
// fund-holdings disclosures, decomposing each fund position into its
// underlying constituent assets and producing a consolidated table of
// dollar exposure per underlying security.
//
// The core functionalities include:
//   - Snapshot Resolution: Locating the most recently downloaded disclosure
//     file per source key on a calendar-dated local store (see the snapshot
//     subpackage).
//   - Holdings Normalization: Validating and reshaping heterogeneous
//     disclosure tables (different column sets, different identifier
//     schemes) into one canonical schema, with deterministic failure modes.
//   - Reconciliation Pipeline: Driving snapshot lookup, parsing,
//     normalization, dollar conversion and accumulation for every declared
//     position, then delegating to an entity-resolution step and reporting
//     the consolidated exposure.
//
// This package serves as the foundational logic for the `plt` command-line
// tool. It never fetches data over the network: snapshots are written by an
// external downloader and are read-only here.
package lookthrough
