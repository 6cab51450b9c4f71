// Package writers turns per-sample tables into serialized outputs.
//
// Design:
//   - Writers own presentation (TSV column order, JSON wire rows).
//   - pipeline stays domain-only; apps pick a format by name.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
