// Package core validates data contracts: spreadsheets that describe
// datasets and their attributes.
//
// The package contains all domain logic independent of any UI or transport
// layer. It is used by the CLI, the report server, and tests without
// modification.
//
// # Architecture
//
//   - Partitioner: [PartitionDocument] drops empty rows, forward-fills the
//     document and groups rows into [Dataset] values by dataset name.
//   - Rules: field validators registered at init time via [Register]. The
//     standard set lives in the core/rules package and is enabled with a
//     blank import.
//   - Context: a [ValidationContext] holds the accumulated state of one
//     dataset and is finalized exactly once into a [DatasetIssueReport].
//   - Samples: a [SampleValidator] compares each dataset with its sample
//     data file.
//   - Checker: [Checker] runs the file-level checks (entity, file name,
//     header) and the [Engine] for each contract file.
//
// # Rule Registry
//
// Rules are registered at init time. Each rule reads one row at a time and
// records issues in the context:
//
//	core.Register(core.Rule{
//	    Name:   "attribute",
//	    Order:  20,
//	    Column: core.ColAttribute,
//	    Check:  checkAttribute,
//	})
//
// Rules that decide on the whole dataset set Finalize, which runs after the
// last row and before the context is flushed.
//
// # Error Handling
//
// Rule violations are never errors: they become [Issue] values. Conditions
// that stop a file (unknown entity, missing header columns) return a
// [*FatalError] together with a partial report. Technical errors map to
// user-facing codes with [MapError]:
//
//   - ENT001-ENT002: entity errors
//   - HDR001: header errors
//   - FILE001-FILE003: contract file errors
//   - SMP001: sample file errors
//   - VAL001: capacity errors
package core
