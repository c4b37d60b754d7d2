// Package dataprocessing implements the validation core for the burn-unit
// admission registry: the identifier decoder, the tolerant date parser, the
// per-column rule engine and the derived-field calculator.
//
// # Architecture
//
// The package is organized into four components:
//
// 1. Identifier: decodes the registry's 3/4-digit patient code into year and serial
// 2. Dates: parses free-form date strings with strict/fallback confidence tiers
// 3. Checks: runs declared check chains per column and cross-field rules
// 4. Derive: computes age, days-to-admission and the severity score
//
// # Data Flow
//
//	CSV file → Reader → RawRecords → Engine → Findings
//	                        ↓
//	                     Derive → CleanRecords → exporter / registry
//
// Findings are data, not errors: every per-field problem (empty, malformed,
// out-of-range, duplicate, mismatched, misordered) is recorded and processing
// continues. The only fatal condition lives in the Reader, when the source
// file itself cannot be loaded.
package dataprocessing
