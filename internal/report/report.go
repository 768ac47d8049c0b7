package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"respbench/internal/bench"
	"respbench/internal/config"
	"respbench/internal/metrics"
)

// 固定の判定しきい値（ops/sec）。設定からは導出しない
const (
	// KillSwitchOpsPerSec を下回った場合は組み込みライブラリ案への
	// 切り替えを推奨する
	KillSwitchOpsPerSec = 30000
	// TargetOpsPerSec 以上で目標達成
	TargetOpsPerSec = 50000
)

const divider = "================================================================================"

// Renderer はベンチマーク結果を書き出す
type Renderer struct {
	out io.Writer
}

// New は出力先を指定してRendererを作成する
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Banner は実行設定を表示する
func (r *Renderer) Banner(cfg config.Config) {
	ops := make([]string, len(cfg.Ops))
	for i, op := range cfg.Ops {
		ops[i] = string(op)
	}

	fmt.Fprintln(r.out, divider)
	fmt.Fprintln(r.out, "                        respbench - RESP server benchmark")
	fmt.Fprintln(r.out, divider)
	fmt.Fprintf(r.out, "  Target:     %s\n", cfg.Addr())
	fmt.Fprintf(r.out, "  Iterations: %d\n", cfg.Iterations)
	fmt.Fprintf(r.out, "  Operations: %s\n", strings.Join(ops, ", "))
	fmt.Fprintf(r.out, "  Clients:    %d\n", cfg.Clients)
	if cfg.Timeout > 0 {
		fmt.Fprintf(r.out, "  Timeout:    %v\n", cfg.Timeout)
	}
	fmt.Fprintln(r.out, divider)
	fmt.Fprintln(r.out)
}

// Summary は結果テーブル・平均スループット・判定を表示する
func (r *Renderer) Summary(sum *bench.Summary) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, divider)
	fmt.Fprintln(r.out, "                                    RESULTS")
	fmt.Fprintln(r.out, divider)
	fmt.Fprintln(r.out)

	for _, res := range sum.Results {
		r.resultRow(res)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  Average throughput: %.0f ops/sec\n", sum.AvgOpsPerSec)
	fmt.Fprintf(r.out, "  Total time:         %v\n", sum.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "  %s\n", Verdict(sum.AvgOpsPerSec))
	fmt.Fprintln(r.out, divider)
}

// resultRow は1操作分の行を表示する
func (r *Renderer) resultRow(res bench.Result) {
	if res.Err != nil {
		fmt.Fprintf(r.out, "  %-6s | failed: %v\n", res.Op, res.Err)
		return
	}

	lat := res.Latency
	fmt.Fprintf(r.out,
		"  %-6s | %10.0f ops/sec | Avg: %8.1f µs | P50: %8.1f µs | P95: %8.1f µs | P99: %8.1f µs",
		res.Op,
		res.Throughput,
		metrics.Microseconds(lat.Mean),
		metrics.Microseconds(lat.P50),
		metrics.Microseconds(lat.P95),
		metrics.Microseconds(lat.P99),
	)
	if res.Errors > 0 {
		fmt.Fprintf(r.out, " | errors: %d", res.Errors)
	}
	fmt.Fprintln(r.out)
}

// Verdict は平均スループットに対する判定メッセージを返す
//
//	avg <  30000: キルスイッチ割れの警告
//	avg >= 50000: 目標達成（境界値を含む）
//	それ以外:     合格
func Verdict(avg float64) string {
	switch {
	case avg < KillSwitchOpsPerSec:
		return fmt.Sprintf("WARNING: below %d ops/sec kill switch; recommend shipping the embedded library instead", KillSwitchOpsPerSec)
	case avg >= TargetOpsPerSec:
		return fmt.Sprintf("SUCCESS: exceeded %d ops/sec target", TargetOpsPerSec)
	default:
		return fmt.Sprintf("PASS: above %d ops/sec kill switch", KillSwitchOpsPerSec)
	}
}

// BelowKillSwitch は平均がキルスイッチを下回るかどうかを返す
func BelowKillSwitch(avg float64) bool {
	return avg < KillSwitchOpsPerSec
}
