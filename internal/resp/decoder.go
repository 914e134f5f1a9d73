package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

const (
	// MaxBulkLength caps a single bulk string payload at 512 MiB, matching
	// the Redis proto-max-bulk-len default. A larger announced length is
	// treated as a protocol error rather than an allocation request.
	MaxBulkLength = 512 * 1024 * 1024

	// MaxArrayLength caps a single array header's element count.
	MaxArrayLength = 1024 * 1024

	// compactThreshold is the consumed-prefix size at which the decoder
	// shifts unconsumed bytes to the front of its buffer.
	compactThreshold = 4096
)

// ErrUnderflow is returned by Dequeue when no completed value is queued.
// It indicates a caller logic error, not a network condition: the caller
// must feed the response bytes before dequeuing.
var ErrUnderflow = errors.New("resp: no completed value to dequeue")

// ProtocolError reports malformed bytes on the wire: an unknown type
// sigil, a non-numeric length or count, or an illegal negative length.
// It is fatal to the decoder; the stream cannot be resynchronized and the
// caller must treat the connection as broken.
type ProtocolError struct {
	msg string
}

func (e *ProtocolError) Error() string { return "resp: protocol error: " + e.msg }

func protocolErrorf(format string, args ...any) *ProtocolError {
	return &ProtocolError{msg: fmt.Sprintf(format, args...)}
}

// arrayContext tracks one in-progress array: how many elements are still
// owed and the elements decoded so far. The stack of contexts replaces
// the recursive descent a blocking parser would use, so parsing can
// suspend between chunks without relying on call-stack state.
type arrayContext struct {
	remaining int
	values    []RedisValue
}

// Decoder is an incremental RESP2 reply decoder. Bytes arrive via Feed in
// chunks of any size; each fully decoded top-level value is appended to an
// internal FIFO queue and retrieved with Dequeue. The decoded sequence is
// identical no matter how the same byte stream was chunked.
//
// A Decoder serves one logical stream, typically one connection, for that
// connection's lifetime. It performs no locking; callers that share a
// Decoder across goroutines must serialize access themselves.
type Decoder struct {
	buf   []byte
	pos   int
	stack []arrayContext
	queue []RedisValue
	err   error
}

// NewDecoder returns an empty Decoder ready to be fed.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends chunk to the internal buffer and decodes as many complete
// top-level values as the buffered bytes allow. When the buffer ends
// mid-token, parsing suspends in place and the next Feed resumes exactly
// there; no partial value is ever queued.
//
// A ProtocolError is sticky: once returned, every later Feed returns the
// same error and the Decoder must be discarded (or Reset for a fresh
// stream).
func (d *Decoder) Feed(chunk []byte) error {
	if d.err != nil {
		return d.err
	}
	d.buf = append(d.buf, chunk...)
	for {
		ok, err := d.step()
		if err != nil {
			d.err = err
			return err
		}
		if !ok {
			break
		}
	}
	d.compact()
	return nil
}

// Dequeue removes and returns the oldest completed value, or ErrUnderflow
// if none is queued yet.
func (d *Decoder) Dequeue() (RedisValue, error) {
	if len(d.queue) == 0 {
		return nil, ErrUnderflow
	}
	v := d.queue[0]
	d.queue = d.queue[1:]
	return v, nil
}

// Queued reports how many completed values are waiting to be dequeued.
func (d *Decoder) Queued() int {
	return len(d.queue)
}

// Reset re-initializes the Decoder for a new logical stream, discarding
// buffered bytes, in-progress arrays, queued values, and any sticky error.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.pos = 0
	d.stack = nil
	d.queue = nil
	d.err = nil
}

// step consumes at most one token from the buffer: a complete scalar
// value, a null marker, or an array header. It returns false when the
// buffer does not yet hold the full token; the cursor only advances once
// a token is complete, so a suspended parse resumes from stored state.
func (d *Decoder) step() (bool, error) {
	if d.pos >= len(d.buf) {
		return false, nil
	}

	sigil := d.buf[d.pos]
	switch sigil {
	case '+', '-', ':':
		line, n, ok, err := d.line(d.pos + 1)
		if !ok || err != nil {
			return false, err
		}
		var v RedisValue
		switch sigil {
		case '+':
			v = RedisString{Value: string(line)}
		case '-':
			v = RedisError{Value: string(line)}
		default:
			i, perr := strconv.ParseInt(string(line), 10, 64)
			if perr != nil {
				return false, protocolErrorf("invalid integer %q", line)
			}
			v = RedisInteger{IntValue: i}
		}
		d.pos += 1 + n
		d.emit(v)
		return true, nil

	case '$':
		length, n, ok, err := d.header(d.pos+1, "bulk string length", MaxBulkLength)
		if !ok || err != nil {
			return false, err
		}
		if length == -1 {
			// Null bulk string; no payload follows.
			d.pos += 1 + n
			d.emit(RedisNull{})
			return true, nil
		}
		total := 1 + n + length + 2
		if len(d.buf)-d.pos < total {
			return false, nil
		}
		start := d.pos + 1 + n
		payload := d.buf[start : start+length]
		if d.buf[start+length] != '\r' || d.buf[start+length+1] != '\n' {
			return false, protocolErrorf("bulk string payload not terminated by CRLF")
		}
		d.pos += total
		d.emit(RedisBulkString{Value: string(payload), Length: length})
		return true, nil

	case '*':
		count, n, ok, err := d.header(d.pos+1, "array count", MaxArrayLength)
		if !ok || err != nil {
			return false, err
		}
		d.pos += 1 + n
		switch {
		case count == -1:
			d.emit(RedisNull{FromArray: true})
		case count == 0:
			d.emit(RedisArray{Values: []RedisValue{}})
		default:
			d.stack = append(d.stack, arrayContext{
				remaining: count,
				values:    make([]RedisValue, 0, count),
			})
		}
		return true, nil

	default:
		return false, protocolErrorf("unknown RESP type byte: %q", sigil)
	}
}

// emit routes a completed value: into the innermost open array if one
// exists, otherwise onto the result queue. Filling an array completes it,
// and the popped array is itself emitted one level up.
func (d *Decoder) emit(v RedisValue) {
	for {
		if len(d.stack) == 0 {
			d.queue = append(d.queue, v)
			return
		}
		top := &d.stack[len(d.stack)-1]
		top.values = append(top.values, v)
		top.remaining--
		if top.remaining > 0 {
			return
		}
		v = RedisArray{Values: top.values}
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// line returns the bytes between start and the next CRLF, plus the number
// of bytes consumed including the terminator. ok is false while no full
// terminator is buffered. A bare LF is malformed: the RESP terminator is
// always CRLF.
func (d *Decoder) line(start int) (line []byte, n int, ok bool, err error) {
	idx := bytes.IndexByte(d.buf[start:], '\n')
	if idx == -1 {
		return nil, 0, false, nil
	}
	if idx == 0 || d.buf[start+idx-1] != '\r' {
		return nil, 0, false, protocolErrorf("line terminated by bare LF")
	}
	return d.buf[start : start+idx-1], idx + 1, true, nil
}

// header parses a decimal length/count line for $ and * tokens. -1 is the
// null sentinel; anything below that, non-numeric, or above max is a
// protocol error.
func (d *Decoder) header(start int, what string, max int) (val, n int, ok bool, err error) {
	line, n, ok, err := d.line(start)
	if !ok || err != nil {
		return 0, 0, false, err
	}
	v, perr := strconv.Atoi(string(line))
	if perr != nil {
		return 0, 0, false, protocolErrorf("invalid %s %q", what, line)
	}
	if v < -1 {
		return 0, 0, false, protocolErrorf("invalid %s %d", what, v)
	}
	if v > max {
		return 0, 0, false, protocolErrorf("%s %d exceeds limit %d", what, v, max)
	}
	return v, n, true, nil
}

// compact drops the fully-consumed prefix of the buffer once it grows
// past the threshold, or frees the buffer entirely when everything has
// been consumed. Unconsumed bytes are preserved verbatim so a suspended
// token replays intact.
func (d *Decoder) compact() {
	if d.pos == 0 {
		return
	}
	if d.pos == len(d.buf) {
		d.buf = d.buf[:0]
		d.pos = 0
		return
	}
	if d.pos >= compactThreshold {
		n := copy(d.buf, d.buf[d.pos:])
		d.buf = d.buf[:n]
		d.pos = 0
	}
}
