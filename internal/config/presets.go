package config

import (
	"time"

	"respbench/internal/bench"
)

// QuickPreset は動作確認用の短いベンチマーク設定を返す
func QuickPreset() Config {
	c := DefaultConfig()
	c.Iterations = 100
	c.Timeout = 5 * time.Second
	return c
}

// StandardPreset は標準のベンチマーク設定を返す
// 10000イテレーション、全操作、逐次モード
func StandardPreset() Config {
	return DefaultConfig()
}

// SoakPreset は長時間の負荷をかける設定を返す
func SoakPreset() Config {
	c := DefaultConfig()
	c.Iterations = 100000
	c.KeepGoing = true
	return c
}

// ParallelPreset は複数クライアントで負荷をかける設定を返す
func ParallelPreset() Config {
	c := DefaultConfig()
	c.Clients = 8
	return c
}

// PingOnlyPreset はPINGのみの設定を返す
// サーバーのプロトコル層だけを分離して測る
func PingOnlyPreset() Config {
	c := DefaultConfig()
	c.Ops = []bench.Op{bench.OpPing}
	return c
}

// GetPreset は名前からプリセット設定を取得する
func GetPreset(name string) (Config, bool) {
	presets := map[string]func() Config{
		"quick":    QuickPreset,
		"standard": StandardPreset,
		"soak":     SoakPreset,
		"parallel": ParallelPreset,
		"ping":     PingOnlyPreset,
	}

	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"quick", "standard", "soak", "parallel", "ping"}
}
