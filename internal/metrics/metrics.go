package metrics

import (
	"sort"
	"sync"
	"time"
)

// Recorder は1つの操作のレイテンシサンプルを発行順に収集する
// 並行ドライバが共有できるようにスレッドセーフにしてある
type Recorder struct {
	mu      sync.Mutex
	samples []time.Duration
	errors  uint64
}

// NewRecorder は指定した容量で新しいRecorderを作成する
func NewRecorder(capacity int) *Recorder {
	if capacity < 0 {
		capacity = 0
	}
	return &Recorder{
		samples: make([]time.Duration, 0, capacity),
	}
}

// Record は1リクエスト分の往復時間を記録する
func (r *Recorder) Record(d time.Duration) {
	r.mu.Lock()
	r.samples = append(r.samples, d)
	r.mu.Unlock()
}

// RecordError は失敗したリクエストを記録する
func (r *Recorder) RecordError() {
	r.mu.Lock()
	r.errors++
	r.mu.Unlock()
}

// Count は記録済みサンプル数を返す
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

// Errors は失敗リクエスト数を返す
func (r *Recorder) Errors() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Samples は記録済みサンプルのコピーを発行順で返す
func (r *Recorder) Samples() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]time.Duration, len(r.samples))
	copy(out, r.samples)
	return out
}

// Summary は1つの操作のレイテンシ統計
type Summary struct {
	Count int
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

// Summarize はサンプル列からレイテンシ統計を計算する
//
// P50は統計的中央値（偶数個なら中央2値の平均）。P95/P99は昇順ソート列の
// floor(q×count) 番目の値で、補間はしない。count が 0 または 1 の場合も
// インデックスを範囲内にクランプして安全に動く
func Summarize(samples []time.Duration) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]time.Duration, n)
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	var total time.Duration
	for _, d := range samples {
		total += d
	}

	return Summary{
		Count: n,
		Min:   sorted[0],
		Max:   sorted[n-1],
		Mean:  total / time.Duration(n),
		P50:   median(sorted),
		P95:   sorted[percentileIndex(n, 0.95)],
		P99:   sorted[percentileIndex(n, 0.99)],
	}
}

// Throughput は操作全体の実測時間からスループット（ops/sec）を計算する
// 経過時間が0以下の場合は0を返す
func Throughput(ops int, elapsed time.Duration) float64 {
	if ops <= 0 || elapsed <= 0 {
		return 0
	}
	return float64(ops) / elapsed.Seconds()
}

// Microseconds はDurationをマイクロ秒の小数値に変換する
func Microseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}

// median はソート済み列の統計的中央値を返す
func median(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// percentileIndex は floor(q×n) を有効範囲にクランプして返す
func percentileIndex(n int, q float64) int {
	idx := int(float64(n) * q)
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
