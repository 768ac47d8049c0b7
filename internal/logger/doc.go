// Package logger provides a minimal leveled logger for the benchmark.
//
// Log lines go to stderr so they never interleave with the report,
// which is written to stdout. Each line carries a timestamp, a level
// and an optional operation tag (the command being benchmarked).
//
// # Basic Usage
//
//	logger.Info("PING", "benchmark started (iterations=%d)", n)
//	logger.Error("", "connection failed: %v", err)
//	logger.Timing("GET", 10000, elapsed, opsPerSec)
//
// Package-level functions use the Default logger; create a Logger with
// New to redirect output or change the minimum level in tests.
package logger
