// Package report renders benchmark results as a human-readable text
// report: a configuration banner, a per-operation results table, the
// overall average throughput and a pass/fail verdict.
//
// The verdict compares the unweighted mean of per-operation throughputs
// against two fixed design constants: below 30000 ops/sec the report
// recommends falling back to the embedded library ("kill switch"),
// at or above 50000 ops/sec the target is met, anything in between
// passes. The thresholds are deliberately not configurable.
package report
