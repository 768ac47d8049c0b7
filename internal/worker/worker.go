package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"respbench/internal/logger"
	"respbench/internal/resp"
)

// Job はワーカーが実行するジョブ
// 引数にはそのワーカー専有のコネクションが渡される
type Job func(conn *resp.Conn)

// DialFunc はワーカー用のコネクションを確立する
type DialFunc func() (*resp.Conn, error)

// PoolConfig はコネクション付きワーカープールの設定
type PoolConfig struct {
	Clients     int      // 同時クライアント数（ワーカー数）
	QueueFactor int      // キューサイズ = Clients * QueueFactor
	Dial        DialFunc // ワーカーごとのコネクション確立
}

// DefaultQueueFactor はキューサイズの既定倍率
const DefaultQueueFactor = 100

// Pool は各ワーカーが専有コネクションを持つゴルーチンプール
//
// Startで全コネクションを先に確立し、どれか1本でも失敗したら
// プール全体の起動を失敗させる（接続失敗は致命的、§エラー方針）
type Pool struct {
	clients int
	dial    DialFunc
	jobs    chan Job
	conns   []*resp.Conn
	wg      sync.WaitGroup

	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	started  bool
	stopping atomic.Bool
}

// NewPool は新しいプールを作成する
// Clients が 0 以下の場合は 1 とする
func NewPool(config PoolConfig) *Pool {
	clients := config.Clients
	if clients <= 0 {
		clients = 1
	}
	queueFactor := config.QueueFactor
	if queueFactor <= 0 {
		queueFactor = DefaultQueueFactor
	}
	return &Pool{
		clients: clients,
		dial:    config.Dial,
		jobs:    make(chan Job, clients*queueFactor),
	}
}

// Start は全ワーカーのコネクションを確立し、プールを起動する
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return nil
	}

	conns := make([]*resp.Conn, 0, p.clients)
	for i := 0; i < p.clients; i++ {
		conn, err := p.dial()
		if err != nil {
			for _, c := range conns {
				_ = c.Close()
			}
			return fmt.Errorf("worker %d: %w", i, err)
		}
		conns = append(conns, conn)
	}
	p.conns = conns

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.started = true

	for _, conn := range p.conns {
		p.wg.Add(1)
		go p.worker(conn)
	}

	logger.Debug("", "pool started with %d client connections", p.clients)
	return nil
}

// worker は専有コネクションでジョブを実行し続ける
func (p *Pool) worker(conn *resp.Conn) {
	defer p.wg.Done()
	defer conn.Close()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job(conn)
		}
	}
}

// Submit はジョブをプールに送信する
// キューに空きがなければブロックする。停止中は false を返す
func (p *Pool) Submit(job Job) (submitted bool) {
	if p.stopping.Load() {
		return false
	}

	// Start前はコンテキストが未初期化なので受け付けない
	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if !started {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("", "submit failed, queue already closed: %v", r)
			submitted = false
		}
	}()

	select {
	case <-p.ctx.Done():
		return false
	default:
	}

	select {
	case <-p.ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Drain は投入済みの全ジョブの完了を待ち、プールを終了する
// Drain後のプールは再利用できない
func (p *Pool) Drain() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.stopping.Store(true)
	close(p.jobs)
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	logger.Debug("", "pool drained")
}

// Stop はキューに残ったジョブを破棄して即座に停止する
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	p.stopping.Store(true)
	p.cancel()
	p.wg.Wait()

	p.mu.Lock()
	p.started = false
	p.mu.Unlock()

	logger.Debug("", "pool stopped")
}

// Clients はワーカー数を返す
func (p *Pool) Clients() int {
	return p.clients
}

// QueueSize は現在のキュー長を返す
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
