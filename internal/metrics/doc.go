// Package metrics provides latency sample collection and aggregation.
//
// A Recorder collects per-request round-trip times in issuance order.
// Summarize derives mean, median (P50) and the P95/P99 percentiles from
// a sample sequence; Throughput derives ops/sec from the wall-clock
// time of a whole operation run rather than the sum of per-call
// latencies.
//
// # Basic Usage
//
//	rec := metrics.NewRecorder(iterations)
//
//	start := time.Now()
//	// ... one request/response round trip ...
//	rec.Record(time.Since(start))
//
//	sum := metrics.Summarize(rec.Samples())
//	fmt.Printf("p99: %.1f µs\n", metrics.Microseconds(sum.P99))
//
// # Percentile Semantics
//
// P95 and P99 select the sample at index floor(q×count) of the
// ascending sort, without interpolation. For 10000 samples P95 is the
// 9501st-smallest value. Indices are clamped so that 0- and 1-sample
// sequences never fault.
//
// # Thread Safety
//
// Recorder is safe for concurrent use; one Recorder is shared by all
// clients benchmarking the same operation.
package metrics
