package resp

import (
	"bufio"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestEncodeCommandFraming(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"PING"}, "*1\r\n$4\r\nPING\r\n"},
		{"set", []string{"SET", "key0", "value0"}, "*3\r\n$3\r\nSET\r\n$4\r\nkey0\r\n$6\r\nvalue0\r\n"},
		{"get", []string{"GET", "42"}, "*2\r\n$3\r\nGET\r\n$2\r\n42\r\n"},
		{"empty arg", []string{"SET", "k", ""}, "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$0\r\n\r\n"},
		{"no args", nil, "*0\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(EncodeCommand(tt.args...))
			if got != tt.want {
				t.Errorf("EncodeCommand(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestEncodeCommandMultiByte(t *testing.T) {
	// Length prefixes must count encoded bytes, not runes
	got := string(EncodeCommand("SET", "鍵", "こんにちは"))
	want := "*3\r\n$3\r\nSET\r\n$3\r\n鍵\r\n$15\r\nこんにちは\r\n"
	if got != want {
		t.Errorf("EncodeCommand = %q, want %q", got, want)
	}
}

// parseCommand decodes one RESP array-of-bulk-strings frame, the way a
// conforming server would.
func parseCommand(t *testing.T, r *bufio.Reader) []string {
	t.Helper()

	header, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read array header: %v", err)
	}
	if !strings.HasPrefix(header, "*") {
		t.Fatalf("expected array header, got %q", header)
	}
	argc, err := strconv.Atoi(strings.TrimSuffix(header[1:], "\r\n"))
	if err != nil {
		t.Fatalf("bad array count in %q: %v", header, err)
	}

	args := make([]string, 0, argc)
	for i := 0; i < argc; i++ {
		lenLine, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read bulk length: %v", err)
		}
		if !strings.HasPrefix(lenLine, "$") {
			t.Fatalf("expected bulk length, got %q", lenLine)
		}
		n, err := strconv.Atoi(strings.TrimSuffix(lenLine[1:], "\r\n"))
		if err != nil {
			t.Fatalf("bad bulk length in %q: %v", lenLine, err)
		}
		payload := make([]byte, n+2) // payload + trailing CRLF
		if _, err := io.ReadFull(r, payload); err != nil {
			t.Fatalf("read bulk payload: %v", err)
		}
		if string(payload[n:]) != "\r\n" {
			t.Fatalf("bulk payload not CRLF-terminated: %q", payload)
		}
		args = append(args, string(payload[:n]))
	}
	return args
}

func TestEncodeCommandRoundTrip(t *testing.T) {
	tests := [][]string{
		{"PING"},
		{"SET", "key123", "value123"},
		{"GET", "999"},
		{"DEL", "0"},
		{"SET", "with space", "multi\r\nline"},
		{"SET", "非ASCII", "データ"},
	}

	for _, args := range tests {
		r := bufio.NewReader(strings.NewReader(string(EncodeCommand(args...))))
		got := parseCommand(t, r)
		if len(got) != len(args) {
			t.Fatalf("round trip of %v: got %v", args, got)
		}
		for i := range args {
			if got[i] != args[i] {
				t.Errorf("round trip of %v: arg %d = %q, want %q", args, i, got[i], args[i])
			}
		}
	}
}

func TestDecodeLossy(t *testing.T) {
	if got := DecodeLossy([]byte("+PONG\r\n")); got != "+PONG\r\n" {
		t.Errorf("valid input changed: %q", got)
	}

	// Invalid UTF-8 must be replaced, never rejected
	got := DecodeLossy([]byte{'+', 0xff, 0xfe, '\r', '\n'})
	if !strings.ContainsRune(got, '�') {
		t.Errorf("expected replacement marker in %q", got)
	}
	if !strings.HasPrefix(got, "+") || !strings.HasSuffix(got, "\r\n") {
		t.Errorf("valid bytes around the bad sequence lost: %q", got)
	}
}

// startEchoServer accepts one connection and writes reply for every
// command-sized read it performs.
func startEchoServer(t *testing.T, reply string) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 4096)
		for {
			if _, err := conn.Read(buf); err != nil {
				return
			}
			if _, err := conn.Write([]byte(reply)); err != nil {
				return
			}
		}
	}()

	return ln.Addr().String()
}

func TestConnRoundtrip(t *testing.T) {
	addr := startEchoServer(t, "+PONG\r\n")

	conn, err := Dial(addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	reply, err := conn.Roundtrip(EncodeCommand("PING"))
	if err != nil {
		t.Fatalf("roundtrip: %v", err)
	}
	if reply != "+PONG\r\n" {
		t.Errorf("reply = %q, want +PONG", reply)
	}
}

func TestConnReadReplyPeerClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}()

	conn, err := Dial(ln.Addr().String(), time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, err = conn.ReadReply()
	if !errors.Is(err, ErrConnClosed) {
		t.Errorf("expected ErrConnClosed, got %v", err)
	}
}

func TestDialRefused(t *testing.T) {
	// Grab a port that is certainly closed
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := Dial(addr, time.Second); err == nil {
		t.Error("expected dial error for closed port")
	}
}

func TestConnReadReplyTimeout(t *testing.T) {
	// Server that accepts but never replies
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		time.Sleep(time.Second)
	}()

	conn, err := Dial(ln.Addr().String(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.ReadReply(); err == nil {
		t.Error("expected timeout error from silent server")
	}
}
