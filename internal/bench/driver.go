package bench

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"respbench/internal/metrics"
	"respbench/internal/resp"
	"respbench/internal/worker"
)

// Result は1つの操作のベンチマーク結果
// 全イテレーション完了後に一度だけ作られ、以後変更しない
type Result struct {
	Op         Op
	Iterations int
	Elapsed    time.Duration
	Throughput float64 // ops/sec（実測経過時間ベース）
	Latency    metrics.Summary
	Errors     uint64 // 並行モードでのみ非ゼロになりうる
	Err        error  // 操作全体を失敗させたエラー（keep_going時のみ保持）
}

// ProgressFunc はイテレーション完了ごとに完了数を受け取る
type ProgressFunc func(completed int)

// Driver は1つの操作のベンチマークを実行する
// 逐次・並行の両実装がこのインタフェースを満たす
type Driver interface {
	Run(ctx context.Context, op Op, iterations int) (*Result, error)
}

// Sequential は1コネクション同期式のドライバ
//
// 操作ごとに新しいコネクションを張り、リクエストの往復を完全に
// 待ってから次のイテレーションへ進む。測定値は真の往復時間になるが、
// 未処理リクエストは常に最大1件に制限される
type Sequential struct {
	Addr     string
	Timeout  time.Duration
	Progress ProgressFunc // nil可
}

// Run は指定操作を iterations 回実行する
// コネクション確立や送受信の失敗はその時点で致命的エラーとして返す
func (d *Sequential) Run(ctx context.Context, op Op, iterations int) (*Result, error) {
	conn, err := resp.Dial(d.Addr, d.Timeout)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rec := metrics.NewRecorder(iterations)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		begin := time.Now()
		if _, err := conn.Roundtrip(resp.EncodeCommand(op.Command(i)...)); err != nil {
			return nil, fmt.Errorf("%s iteration %d: %w", op, i, err)
		}
		rec.Record(time.Since(begin))

		if d.Progress != nil {
			d.Progress(i + 1)
		}
	}
	elapsed := time.Since(start)

	return &Result{
		Op:         op,
		Iterations: iterations,
		Elapsed:    elapsed,
		Throughput: metrics.Throughput(iterations, elapsed),
		Latency:    metrics.Summarize(rec.Samples()),
	}, nil
}

// Concurrent は複数の模擬クライアントで負荷をかけるドライバ
//
// 各クライアントは専有コネクションを持ち、サンプルは共有Recorderに
// 集約される。プロトコルと統計のロジックは逐次ドライバと共通。
// 個々のリクエスト失敗は致命的にせず、失敗数として集計する
type Concurrent struct {
	Addr     string
	Timeout  time.Duration
	Clients  int
	Progress ProgressFunc // nil可
}

// Run は指定操作を iterations 回、Clients 本のコネクションで実行する
func (d *Concurrent) Run(ctx context.Context, op Op, iterations int) (*Result, error) {
	pool := worker.NewPool(worker.PoolConfig{
		Clients: d.Clients,
		Dial: func() (*resp.Conn, error) {
			return resp.Dial(d.Addr, d.Timeout)
		},
	})
	if err := pool.Start(ctx); err != nil {
		return nil, err
	}

	rec := metrics.NewRecorder(iterations)
	var completed atomic.Int64

	start := time.Now()
	for i := 0; i < iterations; i++ {
		cmd := resp.EncodeCommand(op.Command(i)...)
		ok := pool.Submit(func(conn *resp.Conn) {
			begin := time.Now()
			if _, err := conn.Roundtrip(cmd); err != nil {
				rec.RecordError()
			} else {
				rec.Record(time.Since(begin))
			}
			if d.Progress != nil {
				d.Progress(int(completed.Add(1)))
			}
		})
		if !ok {
			pool.Stop()
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("%s: job submission failed", op)
		}
	}
	pool.Drain()
	elapsed := time.Since(start)

	// キャンセルで打ち切られた実行は成功として返さない。投入済みでも
	// 未実行のジョブが残るため、サンプル数がイテレーション数を下回り、
	// iterations/elapsed のスループットが実態より大きく出てしまう
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if rec.Count() == 0 {
		return nil, fmt.Errorf("%s: all %d requests failed", op, iterations)
	}

	return &Result{
		Op:         op,
		Iterations: iterations,
		Elapsed:    elapsed,
		Throughput: metrics.Throughput(iterations, elapsed),
		Latency:    metrics.Summarize(rec.Samples()),
		Errors:     rec.Errors(),
	}, nil
}
