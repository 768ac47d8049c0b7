// Package main is the entry point for respbench.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"respbench/internal/bench"
	"respbench/internal/config"
	"respbench/internal/logger"
	"respbench/internal/report"

	"github.com/schollz/progressbar/v3"
)

var (
	version = "dev"
)

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		presetName  = flag.String("preset", "", "プリセット設定名 (quick, standard, soak, parallel, ping)")
		host        = flag.String("host", "", "接続先ホスト")
		port        = flag.Int("port", 0, "接続先ポート")
		iterations  = flag.Int("iterations", 0, "操作ごとのイテレーション数")
		opsFlag     = flag.String("ops", "", "実行する操作のカンマ区切りリスト (例: PING,SET,GET,DEL)")
		clients     = flag.Int("clients", 0, "同時クライアント数 (1で逐次モード)")
		timeout     = flag.Duration("timeout", -1, "送受信タイムアウト (0で無効, 例: 5s)")
		keepGoing   = flag.Bool("keep-going", false, "操作の失敗で中断せず残りの操作を実行する")
		strict      = flag.Bool("strict", false, "キルスイッチ割れを終了コード1にする")
		verbose     = flag.Bool("verbose", false, "デバッグログを出力する")
		noProgress  = flag.Bool("no-progress", false, "進行バーを表示しない")
		listPresets = flag.Bool("list-presets", false, "利用可能なプリセットを表示")
		showVersion = flag.Bool("version", false, "バージョンを表示")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `respbench - RESP key-value server benchmark

Usage:
  respbench [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # デフォルト設定で実行 (127.0.0.1:6380, 10000イテレーション)
  respbench

  # プリセットで実行
  respbench --preset quick

  # 設定ファイルから実行
  respbench --config bench.yaml

  # フラグでカスタマイズ
  respbench --host 10.0.0.5 --port 6379 --iterations 50000 --ops PING,GET

  # 8クライアントの並行モード
  respbench --clients 8
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("respbench version %s\n", version)
		return
	}

	if *listPresets {
		printPresets()
		return
	}

	if *verbose {
		logger.Default.SetLevel(logger.LevelDebug)
	}

	cfg, err := buildConfig(*configFile, *presetName, *host, *port, *iterations, *opsFlag, *clients, *timeout, *keepGoing, *strict)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	if err := run(cfg, !*noProgress); err != nil {
		if errors.Is(err, errKillSwitch) {
			os.Exit(1)
		}
		logger.Error("", "ベンチマーク実行エラー: %v", err)
		os.Exit(1)
	}
}

// errKillSwitch はstrictモードでキルスイッチを下回ったことを示す
var errKillSwitch = errors.New("average throughput below kill switch")

// buildConfig は設定ファイル・プリセット・フラグの順に設定を組み立てる
func buildConfig(
	configFile, presetName, host string,
	port, iterations int,
	opsFlag string, clients int,
	timeout time.Duration,
	keepGoing, strict bool,
) (config.Config, error) {
	var cfg config.Config

	// 1. 設定ファイルから読み込み
	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return cfg, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		cfg, err = fileConfig.ToConfig()
		if err != nil {
			return cfg, fmt.Errorf("設定変換エラー: %w", err)
		}
	} else if presetName != "" {
		// 2. プリセットから読み込み
		preset, ok := config.GetPreset(presetName)
		if !ok {
			return cfg, fmt.Errorf("不明なプリセット: %s (利用可能: %v)", presetName, config.ListPresets())
		}
		cfg = preset
	} else {
		// 3. デフォルト
		cfg = config.DefaultConfig()
	}

	// フラグでオーバーライド
	if host != "" {
		cfg.Host = host
	}
	if port > 0 {
		cfg.Port = port
	}
	if iterations > 0 {
		cfg.Iterations = iterations
	}
	if opsFlag != "" {
		ops, err := bench.ParseOps(splitComma(opsFlag))
		if err != nil {
			return cfg, err
		}
		cfg.Ops = ops
	}
	if clients > 0 {
		cfg.Clients = clients
	}
	if timeout >= 0 {
		cfg.Timeout = timeout
	}
	if keepGoing {
		cfg.KeepGoing = true
	}
	if strict {
		cfg.Strict = true
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// run はベンチマークを実行してレポートを出力する
func run(cfg config.Config, progress bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n中断シグナルを受信、ベンチマークを終了中...")
		cancel()
	}()

	renderer := report.New(os.Stdout)
	renderer.Banner(cfg)

	suite := &bench.Suite{
		Addr:       cfg.Addr(),
		Iterations: cfg.Iterations,
		Ops:        cfg.Ops,
		Clients:    cfg.Clients,
		Timeout:    cfg.Timeout,
		KeepGoing:  cfg.KeepGoing,
	}
	if progress {
		attachProgress(suite)
	}

	sum, err := suite.Run(ctx)
	if err != nil {
		return err
	}

	renderer.Summary(sum)

	if cfg.Strict && report.BelowKillSwitch(sum.AvgOpsPerSec) {
		return errKillSwitch
	}
	return nil
}

// attachProgress は操作ごとの進行バーをスイートに取り付ける
func attachProgress(suite *bench.Suite) {
	var bar *progressbar.ProgressBar
	suite.OnOpStart = func(op bench.Op, iterations int) {
		bar = progressbar.NewOptions(iterations,
			progressbar.OptionSetDescription(fmt.Sprintf("%-5s", op)),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetWriter(os.Stderr),
		)
	}
	suite.OnProgress = func(op bench.Op, completed int) {
		_ = bar.Set(completed)
	}
}

// splitComma はカンマ区切りの文字列を空要素を除いて分割する
func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// printPresets は利用可能なプリセットを表示する
func printPresets() {
	fmt.Println("利用可能なプリセット:")
	fmt.Println()

	presets := []struct {
		name string
		desc string
	}{
		{"quick", "動作確認用の短いベンチマーク (100イテレーション)"},
		{"standard", "標準ベンチマーク (10000イテレーション, 全操作)"},
		{"soak", "長時間負荷 (100000イテレーション, keep-going)"},
		{"parallel", "8クライアントの並行モード"},
		{"ping", "PINGのみ (プロトコル層の分離計測)"},
	}

	for _, p := range presets {
		fmt.Printf("  %-10s %s\n", p.name, p.desc)
	}

	fmt.Println()
	fmt.Println("使用例: respbench --preset quick")
}
