// Package domain contains the core data model of the sluice engine:
// node configurations and runtime states (one variant per node kind),
// tokens and their lineage records, activity ledger entries, scenario
// snapshots and the lifecycle hook surface.
//
// The package is dependency-free by design so that adapters, stores and
// presentation layers can all share the same vocabulary.
package domain
