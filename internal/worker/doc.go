// Package worker provides a goroutine pool where every worker owns a
// dedicated server connection.
//
// The concurrent benchmark driver simulates N independent clients: each
// worker dials its own connection at Start and keeps it for the pool's
// lifetime, so a submitted job always runs against a connection no other
// goroutine touches. Jobs are processed from a shared buffered queue.
//
// # Basic Usage
//
//	pool := worker.NewPool(worker.PoolConfig{
//	    Clients: 8,
//	    Dial:    func() (*resp.Conn, error) { return resp.Dial(addr, 0) },
//	})
//	if err := pool.Start(ctx); err != nil {
//	    return err
//	}
//
//	for i := 0; i < n; i++ {
//	    pool.Submit(func(conn *resp.Conn) {
//	        // one request/response round trip on this worker's conn
//	    })
//	}
//	pool.Drain() // wait for all submitted jobs, then close connections
//
// # Shutdown
//
// Drain closes the queue and waits for every submitted job to finish.
// Stop cancels immediately and discards queued jobs. Both close all
// worker connections; the pool cannot be restarted afterwards.
package worker
