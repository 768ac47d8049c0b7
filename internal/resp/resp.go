package resp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
	"unicode/utf8"
)

// ReplyBufferSize は1回の返信読み取りに使うバッファサイズ（バイト）
const ReplyBufferSize = 1024

// ErrConnClosed はサーバー側が接続を閉じたことを示す
var ErrConnClosed = errors.New("resp: connection closed by peer")

// EncodeCommand はコマンド引数列をRESPのBulk String配列にエンコードする
// 長さはエンコード後のバイト数で数える（マルチバイト文字も正しく扱う）
func EncodeCommand(args ...string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "*%d\r\n", len(args))
	for _, arg := range args {
		fmt.Fprintf(&b, "$%d\r\n%s\r\n", len(arg), arg)
	}
	return b.Bytes()
}

// DecodeLossy はバイト列をUTF-8テキストとして解釈する
// 不正なバイト列は失敗させずに U+FFFD に置き換える
func DecodeLossy(p []byte) string {
	return strings.ToValidUTF8(string(p), string(utf8.RuneError))
}

// Conn はRESPサーバーへの1本のコネクション
// 並行利用は想定しない（1コネクション1ワーカー）
type Conn struct {
	nc      net.Conn
	timeout time.Duration
	buf     [ReplyBufferSize]byte
}

// Dial は host:port 形式のアドレスに接続する
// timeout が 0 以下の場合はデッドラインを一切設定しない
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	var (
		nc  net.Conn
		err error
	)
	if timeout > 0 {
		nc, err = net.DialTimeout("tcp", addr, timeout)
	} else {
		nc, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("resp: dial %s: %w", addr, err)
	}
	return &Conn{nc: nc, timeout: timeout}, nil
}

// Send はエンコード済みコマンドを送信する
func (c *Conn) Send(cmd []byte) error {
	if err := c.arm(); err != nil {
		return err
	}
	if _, err := c.nc.Write(cmd); err != nil {
		return fmt.Errorf("resp: write: %w", err)
	}
	return nil
}

// ReadReply は1回の読み取りで返信を取得し、テキストとしてデコードする
//
// 返信1件を読み切る保証はなく、ReplyBufferSize を超えるBulk返信は
// 途中で切れる。計測経路を軽く保つための意図的な簡略化であり、
// このツールが発行するコマンドの返信は通常1回の読み取りに収まる。
// ピアが接続を閉じた場合は ErrConnClosed を返す
func (c *Conn) ReadReply() (string, error) {
	if err := c.arm(); err != nil {
		return "", err
	}
	n, err := c.nc.Read(c.buf[:])
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrConnClosed
		}
		return "", fmt.Errorf("resp: read: %w", err)
	}
	return DecodeLossy(c.buf[:n]), nil
}

// Roundtrip はコマンドを送信し、対応する返信を1件読み取る
func (c *Conn) Roundtrip(cmd []byte) (string, error) {
	if err := c.Send(cmd); err != nil {
		return "", err
	}
	return c.ReadReply()
}

// Close はコネクションを閉じる
func (c *Conn) Close() error {
	return c.nc.Close()
}

// RemoteAddr は接続先アドレスを返す
func (c *Conn) RemoteAddr() net.Addr {
	return c.nc.RemoteAddr()
}

// arm はタイムアウト設定時のみデッドラインを更新する
func (c *Conn) arm() error {
	if c.timeout <= 0 {
		return nil
	}
	if err := c.nc.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("resp: set deadline: %w", err)
	}
	return nil
}
