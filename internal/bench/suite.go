package bench

import (
	"context"
	"fmt"
	"time"

	"respbench/internal/logger"
)

// Suite は設定された操作列を順番にベンチマークする
type Suite struct {
	Addr       string
	Iterations int
	Ops        []Op
	Clients    int           // 1以下で逐次モード
	Timeout    time.Duration // 0で無効
	KeepGoing  bool          // 操作の致命的エラーで中断せず残りを実行する

	// OnOpStart は各操作の開始時に呼ばれる（nil可）
	OnOpStart func(op Op, iterations int)
	// OnProgress は各操作のイテレーション完了ごとに呼ばれる（nil可）
	OnProgress func(op Op, completed int)
}

// Summary は1回のベンチマーク実行全体の結果
type Summary struct {
	Results      []Result
	AvgOpsPerSec float64 // 操作ごとのスループットの単純平均
	Elapsed      time.Duration
}

// Run は設定された操作を順番に実行し、結果を集約する
//
// 既定では最初の致命的エラーで実行全体を中断する。KeepGoing が
// 真の場合は失敗した操作を結果に記録して残りの操作を続行する
func (s *Suite) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	results := make([]Result, 0, len(s.Ops))

	for _, op := range s.Ops {
		if s.OnOpStart != nil {
			s.OnOpStart(op, s.Iterations)
		}
		logger.Debug(string(op), "benchmark start (iterations=%d, clients=%d)", s.Iterations, s.clients())

		driver := s.driverFor(op)
		res, err := driver.Run(ctx, op, s.Iterations)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !s.KeepGoing {
				return nil, fmt.Errorf("bench %s: %w", op, err)
			}
			logger.Warn(string(op), "benchmark failed, continuing: %v", err)
			results = append(results, Result{Op: op, Iterations: s.Iterations, Err: err})
			continue
		}
		logger.Timing(string(op), res.Iterations, res.Elapsed, res.Throughput)
		results = append(results, *res)
	}

	return &Summary{
		Results:      results,
		AvgOpsPerSec: averageThroughput(results),
		Elapsed:      time.Since(start),
	}, nil
}

// driverFor は設定に応じたドライバを作る
func (s *Suite) driverFor(op Op) Driver {
	progress := s.progressFor(op)
	if s.clients() > 1 {
		return &Concurrent{
			Addr:     s.Addr,
			Timeout:  s.Timeout,
			Clients:  s.clients(),
			Progress: progress,
		}
	}
	return &Sequential{
		Addr:     s.Addr,
		Timeout:  s.Timeout,
		Progress: progress,
	}
}

func (s *Suite) progressFor(op Op) ProgressFunc {
	if s.OnProgress == nil {
		return nil
	}
	return func(completed int) {
		s.OnProgress(op, completed)
	}
}

func (s *Suite) clients() int {
	if s.Clients <= 1 {
		return 1
	}
	return s.Clients
}

// averageThroughput は成功した操作のスループットの単純平均を返す
// 総オペ数/総時間の加重平均ではない
func averageThroughput(results []Result) float64 {
	var sum float64
	var n int
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		sum += r.Throughput
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
