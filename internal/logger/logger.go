package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level はログレベルを表す
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger はスレッドセーフなロガー
// レポート本体はstdoutに出すため、ログはstderrに分離する
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
}

// Default はデフォルトのロガー
var Default = New(os.Stderr, LevelInfo)

// New は新しいロガーを作成する
func New(out io.Writer, minLevel Level) *Logger {
	return &Logger{
		out:      out,
		minLevel: minLevel,
	}
}

// SetLevel はログレベルを設定する
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// log は指定されたレベルでログを出力する
// op には対象の操作名（PINGなど）を渡す。空でもよい
func (l *Logger) log(level Level, op string, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.minLevel {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	if op != "" {
		_, _ = fmt.Fprintf(l.out, "[%s] [%s] [%s] %s\n", timestamp, level, op, msg)
	} else {
		_, _ = fmt.Fprintf(l.out, "[%s] [%s] %s\n", timestamp, level, msg)
	}
}

// Debug はデバッグログを出力する
func (l *Logger) Debug(op string, format string, args ...any) {
	l.log(LevelDebug, op, format, args...)
}

// Info は情報ログを出力する
func (l *Logger) Info(op string, format string, args ...any) {
	l.log(LevelInfo, op, format, args...)
}

// Warn は警告ログを出力する
func (l *Logger) Warn(op string, format string, args ...any) {
	l.log(LevelWarn, op, format, args...)
}

// Error はエラーログを出力する
func (l *Logger) Error(op string, format string, args ...any) {
	l.log(LevelError, op, format, args...)
}

// Timing は1操作分の実測値を情報ログに出力する
// ベンチマーク各操作の完了時に使う共通フォーマット
func (l *Logger) Timing(op string, ops int, elapsed time.Duration, throughput float64) {
	l.log(LevelInfo, op, "%d ops in %v (%.0f ops/sec)", ops, elapsed.Round(time.Millisecond), throughput)
}

// グローバル関数（デフォルトロガーを使用）

// Debug はデバッグログを出力する
func Debug(op string, format string, args ...any) {
	Default.Debug(op, format, args...)
}

// Info は情報ログを出力する
func Info(op string, format string, args ...any) {
	Default.Info(op, format, args...)
}

// Warn は警告ログを出力する
func Warn(op string, format string, args ...any) {
	Default.Warn(op, format, args...)
}

// Error はエラーログを出力する
func Error(op string, format string, args ...any) {
	Default.Error(op, format, args...)
}

// Timing は1操作分の実測値を情報ログに出力する
func Timing(op string, ops int, elapsed time.Duration, throughput float64) {
	Default.Timing(op, ops, elapsed, throughput)
}
