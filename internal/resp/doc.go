// Package resp implements the client side of the RESP wire format
// used by the benchmark.
//
// Requests are encoded as arrays of bulk strings
// (*<argc>\r\n$<len>\r\n<bytes>\r\n...). Replies are read with a single
// bounded read and decoded lossily: the reader never fails on malformed
// bytes, it substitutes U+FFFD instead. This keeps the latency
// measurement path free of protocol parsing and decode errors.
//
// # Basic Usage
//
//	conn, err := resp.Dial("127.0.0.1:6380", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	reply, err := conn.Roundtrip(resp.EncodeCommand("PING"))
//
// # Limitations
//
// ReadReply is intentionally not a protocol-complete reply parser: it
// returns whatever a single read of ReplyBufferSize bytes captured.
// Replies larger than the buffer are truncated. For the small replies
// produced by PING/SET/GET/DEL this captures exactly one reply in the
// common case.
package resp
