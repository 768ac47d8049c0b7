package worker

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"respbench/internal/resp"
)

// startServer accepts connections and echoes a fixed reply for every read.
func startServer(t *testing.T) (addr string, connCount *atomic.Int32) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	var count atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			count.Add(1)
			go func() {
				defer conn.Close()
				buf := make([]byte, 1024)
				for {
					if _, err := conn.Read(buf); err != nil {
						return
					}
					if _, err := conn.Write([]byte("+PONG\r\n")); err != nil {
						return
					}
				}
			}()
		}
	}()

	return ln.Addr().String(), &count
}

func newTestPool(addr string, clients int) *Pool {
	return NewPool(PoolConfig{
		Clients: clients,
		Dial: func() (*resp.Conn, error) {
			return resp.Dial(addr, time.Second)
		},
	})
}

func TestPoolStartDialsAllClients(t *testing.T) {
	addr, connCount := startServer(t)
	pool := newTestPool(addr, 4)

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer pool.Stop()

	if pool.Clients() != 4 {
		t.Errorf("Clients = %d, want 4", pool.Clients())
	}
	// Dial returns on TCP handshake; give the server's Accept loop a
	// moment to observe the already-established connections.
	deadline := time.Now().Add(2 * time.Second)
	for connCount.Load() < 4 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if got := connCount.Load(); got != 4 {
		t.Errorf("server saw %d connections, want 4", got)
	}
}

func TestPoolStartDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	pool := newTestPool(addr, 2)
	if err := pool.Start(context.Background()); err == nil {
		t.Error("expected Start to fail when dialing fails")
	}
}

func TestPoolSubmitAndDrain(t *testing.T) {
	addr, _ := startServer(t)
	pool := newTestPool(addr, 2)

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var done atomic.Int32
	for i := 0; i < 20; i++ {
		ok := pool.Submit(func(conn *resp.Conn) {
			if _, err := conn.Roundtrip(resp.EncodeCommand("PING")); err != nil {
				t.Errorf("roundtrip: %v", err)
			}
			done.Add(1)
		})
		if !ok {
			t.Fatalf("Submit %d returned false", i)
		}
	}

	pool.Drain()

	if got := done.Load(); got != 20 {
		t.Errorf("completed jobs = %d, want 20 (Drain must wait for all)", got)
	}
}

func TestPoolJobsGetDedicatedConns(t *testing.T) {
	addr, _ := startServer(t)
	pool := newTestPool(addr, 3)

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var mu sync.Mutex
	seen := make(map[*resp.Conn]bool)
	for i := 0; i < 30; i++ {
		pool.Submit(func(conn *resp.Conn) {
			mu.Lock()
			seen[conn] = true
			mu.Unlock()
		})
	}
	pool.Drain()

	if len(seen) > 3 {
		t.Errorf("jobs ran on %d distinct connections, want at most 3", len(seen))
	}
}

func TestPoolSubmitAfterDrain(t *testing.T) {
	addr, _ := startServer(t)
	pool := newTestPool(addr, 1)

	if err := pool.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	pool.Drain()

	if pool.Submit(func(conn *resp.Conn) {}) {
		t.Error("Submit after Drain should return false")
	}
}

func TestPoolStopDiscardsQueue(t *testing.T) {
	addr, _ := startServer(t)
	pool := newTestPool(addr, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := pool.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	blocker := make(chan struct{})
	pool.Submit(func(conn *resp.Conn) {
		<-blocker
	})

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		pool.Submit(func(conn *resp.Conn) {
			ran.Add(1)
		})
	}

	close(blocker)
	pool.Stop()

	// Stop does not promise queued jobs run; it must only terminate
	if pool.Submit(func(conn *resp.Conn) {}) {
		t.Error("Submit after Stop should return false")
	}
}

func TestPoolSubmitBeforeStart(t *testing.T) {
	addr, _ := startServer(t)
	pool := newTestPool(addr, 2)

	// Must refuse instead of touching the uninitialized context
	if pool.Submit(func(conn *resp.Conn) {}) {
		t.Error("Submit before Start should return false")
	}

	// Drain/Stop on a never-started pool are no-ops
	pool.Drain()
	pool.Stop()
}

func TestPoolClientsFloor(t *testing.T) {
	pool := NewPool(PoolConfig{Clients: 0, Dial: nil})
	if pool.Clients() != 1 {
		t.Errorf("Clients = %d, want floor of 1", pool.Clients())
	}
}
