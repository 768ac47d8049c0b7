package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"respbench/internal/bench"

	"gopkg.in/yaml.v3"
)

// Config はベンチマーク実行の設定
// 実行開始後は変更しない
type Config struct {
	Host       string
	Port       int
	Iterations int
	Ops        []bench.Op
	Clients    int           // 1で逐次モード
	Timeout    time.Duration // 0でタイムアウトなし
	KeepGoing  bool          // 操作単位の失敗で実行を中断しない
	Strict     bool          // キルスイッチ割れを終了コードに反映する
}

// DefaultConfig はデフォルト設定を返す
func DefaultConfig() Config {
	return Config{
		Host:       "127.0.0.1",
		Port:       6380,
		Iterations: 10000,
		Ops:        bench.AllOps(),
		Clients:    1,
		Timeout:    0,
		KeepGoing:  false,
		Strict:     false,
	}
}

// Addr は接続先アドレスを host:port 形式で返す
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate は設定を検証する
func (c Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", c.Iterations)
	}
	if len(c.Ops) == 0 {
		return fmt.Errorf("operations must not be empty")
	}
	if c.Clients < 0 {
		return fmt.Errorf("clients must be non-negative, got %d", c.Clients)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	return nil
}

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Benchmark BenchmarkConfig `yaml:"benchmark" json:"benchmark"`
}

// BenchmarkConfig は設定ファイルのベンチマークセクション
type BenchmarkConfig struct {
	Host       string   `yaml:"host" json:"host"`
	Port       int      `yaml:"port" json:"port"`
	Iterations int      `yaml:"iterations" json:"iterations"`
	Operations []string `yaml:"operations" json:"operations"`
	Clients    int      `yaml:"clients" json:"clients"`
	Timeout    string   `yaml:"timeout" json:"timeout"`
	KeepGoing  bool     `yaml:"keep_going" json:"keep_going"`
	Strict     bool     `yaml:"strict" json:"strict"`
}

// LoadFile は設定ファイルを読み込む。拡張子でYAML/JSONを判別する
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToConfig はFileConfigをデフォルト値の上に重ねてConfigへ変換する
func (f *FileConfig) ToConfig() (Config, error) {
	b := f.Benchmark
	config := DefaultConfig()

	if b.Host != "" {
		config.Host = b.Host
	}
	if b.Port > 0 {
		config.Port = b.Port
	}
	if b.Iterations > 0 {
		config.Iterations = b.Iterations
	}
	if len(b.Operations) > 0 {
		ops, err := bench.ParseOps(b.Operations)
		if err != nil {
			return config, err
		}
		config.Ops = ops
	}
	if b.Clients > 0 {
		config.Clients = b.Clients
	}
	if b.Timeout != "" {
		d, err := time.ParseDuration(b.Timeout)
		if err != nil {
			return config, fmt.Errorf("invalid timeout: %w", err)
		}
		config.Timeout = d
	}
	config.KeepGoing = b.KeepGoing
	config.Strict = b.Strict

	return config, nil
}
