// Package bench drives benchmark operations against a RESP server.
//
// An Op names one of the supported commands (PING, SET, GET, DEL) and
// knows how to build its arguments for a given iteration index: SET
// writes a fresh key{i}/value{i} pair every time, while GET and DEL
// cycle through keys 0..999 (i mod 1000) to probe lookup behavior
// under key reuse.
//
// # Drivers
//
// The Driver interface has two implementations sharing the same
// protocol and statistics logic:
//
//   - Sequential: one connection, one outstanding request at a time.
//     Measured latency is the true round-trip time. This is the
//     default.
//   - Concurrent: N simulated clients, each with its own connection,
//     backed by the worker pool. Samples from all clients merge into
//     one recorder per operation.
//
// # Suite
//
//	suite := &bench.Suite{
//	    Addr:       "127.0.0.1:6380",
//	    Iterations: 10000,
//	    Ops:        bench.AllOps(),
//	}
//	sum, err := suite.Run(ctx)
//
// A fresh connection (or connection set) is opened per operation and
// closed when that operation's run ends. Operations run strictly in
// order; by default the first fatal error aborts the whole run, with
// KeepGoing the remaining operations are still attempted and the
// failure is reported per operation.
package bench
