package resp

import (
	"bytes"
	"fmt"
)

// Frame is one fully encoded RESP request, ready to transmit.
//
// ExpectedResults is the number of top-level values a caller should
// dequeue after sending the frame. It is computed at construction time by
// running the encoded bytes back through the decoder and counting the
// values they represent; for a single well-formed request that is always
// one, so the field doubles as a self-check on the encoder's output.
type Frame struct {
	Bytes           []byte
	ExpectedResults int
}

// Encode serializes a command name and its arguments into a RESP
// multi-bulk request frame: a *N header followed by one bulk string per
// item, the command name being item zero. Any byte sequence is legal as
// an argument; the encoder never inspects content and never fails.
func Encode(name string, args ...[]byte) Frame {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("*%d\r\n", 1+len(args)))
	writeBulk(&buf, []byte(name))
	for _, arg := range args {
		writeBulk(&buf, arg)
	}

	f := Frame{Bytes: buf.Bytes()}
	count, err := CountValues(f.Bytes)
	if err != nil || count == 0 {
		// Cannot happen for output of this encoder; default to one
		// reply per request.
		count = 1
	}
	f.ExpectedResults = count
	return f
}

// EncodeStrings is Encode for callers holding text arguments. The byte
// length of each argument after UTF-8 conversion is what ends up in the
// bulk string header.
func EncodeStrings(name string, args ...string) Frame {
	byteArgs := make([][]byte, len(args))
	for i, arg := range args {
		byteArgs[i] = []byte(arg)
	}
	return Encode(name, byteArgs...)
}

// writeBulk appends one bulk string item: $len\r\n<bytes>\r\n.
func writeBulk(buf *bytes.Buffer, b []byte) {
	buf.WriteString(fmt.Sprintf("$%d\r\n", len(b)))
	buf.Write(b)
	buf.WriteString("\r\n")
}

// CountValues interprets b as a reply stream and reports how many
// complete top-level values it contains. It exists as a consistency
// check: a request frame read back as a reply is exactly one array.
// Trailing incomplete bytes are not an error; they simply do not count.
func CountValues(b []byte) (int, error) {
	d := NewDecoder()
	if err := d.Feed(b); err != nil {
		return 0, err
	}
	return d.Queued(), nil
}
