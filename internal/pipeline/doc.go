// Package pipeline runs one sample through decode, abundance filter and
// summary counting. It holds no state between samples; fanning out across
// samples is the caller's job.
//
// The detail table and the summary read the same decoded report on two
// independent paths: only the detail table sees the abundance threshold.
package pipeline
