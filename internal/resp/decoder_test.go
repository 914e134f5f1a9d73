package resp

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// drain dequeues every completed value.
func drain(t *testing.T, d *Decoder) []RedisValue {
	t.Helper()
	var values []RedisValue
	for d.Queued() > 0 {
		v, err := d.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue() unexpected error: %v", err)
		}
		values = append(values, v)
	}
	return values
}

func TestDecoderFeed(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []RedisValue
		wantErr  bool
	}{
		{
			name:     "Simple String",
			input:    "+OK\r\n",
			expected: []RedisValue{RedisString{Value: "OK"}},
		},
		{
			name:     "Error",
			input:    "-ERR bad\r\n",
			expected: []RedisValue{RedisError{Value: "ERR bad"}},
		},
		{
			name:     "Integer",
			input:    ":42\r\n",
			expected: []RedisValue{RedisInteger{IntValue: 42}},
		},
		{
			name:     "Negative Integer",
			input:    ":-7\r\n",
			expected: []RedisValue{RedisInteger{IntValue: -7}},
		},
		{
			name:     "Bulk String",
			input:    "$6\r\nfoobar\r\n",
			expected: []RedisValue{RedisBulkString{Value: "foobar", Length: 6}},
		},
		{
			name:     "Null Bulk String",
			input:    "$-1\r\n",
			expected: []RedisValue{RedisNull{}},
		},
		{
			name:     "Empty Bulk String",
			input:    "$0\r\n\r\n",
			expected: []RedisValue{RedisBulkString{Value: "", Length: 0}},
		},
		{
			name:     "Binary Bulk String",
			input:    "$4\r\n\x00\x01\r\n\r\n",
			expected: []RedisValue{RedisBulkString{Value: "\x00\x01\r\n", Length: 4}},
		},
		{
			name:     "Null Array",
			input:    "*-1\r\n",
			expected: []RedisValue{RedisNull{FromArray: true}},
		},
		{
			name:     "Empty Array",
			input:    "*0\r\n",
			expected: []RedisValue{RedisArray{Values: []RedisValue{}}},
		},
		{
			name:  "Array",
			input: "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n",
			expected: []RedisValue{RedisArray{
				Values: []RedisValue{
					RedisBulkString{Value: "foo", Length: 3},
					RedisBulkString{Value: "bar", Length: 3},
				},
			}},
		},
		{
			name:  "Nested Array",
			input: "*2\r\n:1\r\n*1\r\n:2\r\n",
			expected: []RedisValue{RedisArray{
				Values: []RedisValue{
					RedisInteger{IntValue: 1},
					RedisArray{Values: []RedisValue{RedisInteger{IntValue: 2}}},
				},
			}},
		},
		{
			name:  "Array With Null Element",
			input: "*3\r\n$1\r\na\r\n$-1\r\n:0\r\n",
			expected: []RedisValue{RedisArray{
				Values: []RedisValue{
					RedisBulkString{Value: "a", Length: 1},
					RedisNull{},
					RedisInteger{IntValue: 0},
				},
			}},
		},
		{
			name:  "Multiple Top-Level Values",
			input: "+OK\r\n:1\r\n$2\r\nhi\r\n",
			expected: []RedisValue{
				RedisString{Value: "OK"},
				RedisInteger{IntValue: 1},
				RedisBulkString{Value: "hi", Length: 2},
			},
		},
		{
			name:    "Unknown Sigil",
			input:   "&foo\r\n",
			wantErr: true,
		},
		{
			name:    "Invalid Integer",
			input:   ":abc\r\n",
			wantErr: true,
		},
		{
			name:    "Invalid Bulk String Length",
			input:   "$abc\r\n",
			wantErr: true,
		},
		{
			name:    "Invalid Array Count",
			input:   "*abc\r\n",
			wantErr: true,
		},
		{
			name:    "Negative Bulk String Length",
			input:   "$-2\r\n",
			wantErr: true,
		},
		{
			name:    "Negative Array Count",
			input:   "*-2\r\n",
			wantErr: true,
		},
		{
			name:    "Bare LF Terminator",
			input:   "+OK\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Feed the whole stream at once.
			d := NewDecoder()
			err := d.Feed([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Feed() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				var perr *ProtocolError
				if !errors.As(err, &perr) {
					t.Fatalf("Feed() error = %v, want ProtocolError", err)
				}
				if d.Queued() != 0 {
					t.Fatalf("Queued() = %d after protocol error, want 0", d.Queued())
				}
				return
			}
			if got := drain(t, d); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Feed() queued %v, want %v", got, tt.expected)
			}

			// Feed the same stream one byte at a time; the result must be
			// identical regardless of chunking.
			d = NewDecoder()
			for i := 0; i < len(tt.input); i++ {
				if err := d.Feed([]byte{tt.input[i]}); err != nil {
					t.Fatalf("byte-wise Feed() at offset %d: %v", i, err)
				}
			}
			if got := drain(t, d); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("byte-wise Feed() queued %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDecoderPartialBulkString(t *testing.T) {
	fragments := [][]string{
		{"$5\r\nhel", "lo\r\n"},
		{"$5\r\nhel", "lo", "\r\n"},
		{"$5", "\r", "\n", "hello", "\r\n"},
	}
	expected := RedisBulkString{Value: "hello", Length: 5}

	for _, frags := range fragments {
		d := NewDecoder()
		for i, frag := range frags {
			if err := d.Feed([]byte(frag)); err != nil {
				t.Fatalf("Feed(%q) fragment %d: %v", frag, i, err)
			}
			// No partial value may surface before the final fragment.
			if i < len(frags)-1 && d.Queued() != 0 {
				t.Fatalf("Queued() = %d before final fragment %v", d.Queued(), frags)
			}
		}
		if d.Queued() != 1 {
			t.Fatalf("Queued() = %d after %v, want 1", d.Queued(), frags)
		}
		got, err := d.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(): %v", err)
		}
		if !reflect.DeepEqual(got, expected) {
			t.Errorf("Dequeue() = %v, want %v", got, expected)
		}
	}
}

func TestDecoderPartialNestedArray(t *testing.T) {
	// Suspend inside a nested array header and inside its elements.
	d := NewDecoder()
	for _, frag := range []string{"*2\r\n:1\r\n*", "1\r\n:", "2\r\n"} {
		if err := d.Feed([]byte(frag)); err != nil {
			t.Fatalf("Feed(%q): %v", frag, err)
		}
	}
	expected := RedisArray{Values: []RedisValue{
		RedisInteger{IntValue: 1},
		RedisArray{Values: []RedisValue{RedisInteger{IntValue: 2}}},
	}}
	got, err := d.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue(): %v", err)
	}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Dequeue() = %v, want %v", got, expected)
	}
}

func TestDecoderDequeueOrder(t *testing.T) {
	d := NewDecoder()
	if err := d.Feed([]byte(":1\r\n:2\r\n:3\r\n")); err != nil {
		t.Fatalf("Feed(): %v", err)
	}
	for want := int64(1); want <= 3; want++ {
		v, err := d.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(): %v", err)
		}
		if got := v.(RedisInteger).IntValue; got != want {
			t.Errorf("Dequeue() = %d, want %d", got, want)
		}
	}
	if _, err := d.Dequeue(); !errors.Is(err, ErrUnderflow) {
		t.Errorf("Dequeue() on empty queue = %v, want ErrUnderflow", err)
	}
}

func TestDecoderStickyError(t *testing.T) {
	d := NewDecoder()
	err := d.Feed([]byte("&foo\r\n"))
	if err == nil {
		t.Fatal("Feed() with unknown sigil returned nil error")
	}
	// Valid bytes after a protocol error must not revive the decoder.
	if again := d.Feed([]byte("+OK\r\n")); !errors.Is(again, err) {
		t.Errorf("Feed() after protocol error = %v, want %v", again, err)
	}
	if d.Queued() != 0 {
		t.Errorf("Queued() = %d after protocol error, want 0", d.Queued())
	}
}

func TestDecoderReset(t *testing.T) {
	d := NewDecoder()
	if err := d.Feed([]byte("&nope\r\n")); err == nil {
		t.Fatal("Feed() with unknown sigil returned nil error")
	}
	d.Reset()
	if err := d.Feed([]byte("+PONG\r\n")); err != nil {
		t.Fatalf("Feed() after Reset(): %v", err)
	}
	v, err := d.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue(): %v", err)
	}
	if !reflect.DeepEqual(v, RedisString{Value: "PONG"}) {
		t.Errorf("Dequeue() = %v, want PONG", v)
	}

	// Reset mid-parse discards the suspended token entirely.
	d.Reset()
	if err := d.Feed([]byte("$5\r\nhel")); err != nil {
		t.Fatalf("Feed(): %v", err)
	}
	d.Reset()
	if err := d.Feed([]byte(":9\r\n")); err != nil {
		t.Fatalf("Feed() after mid-parse Reset(): %v", err)
	}
	if d.Queued() != 1 {
		t.Errorf("Queued() = %d, want 1", d.Queued())
	}
}

func TestDecoderLengthLimits(t *testing.T) {
	d := NewDecoder()
	if err := d.Feed([]byte("$536870913\r\n")); err == nil {
		t.Error("Feed() with oversized bulk length returned nil error")
	}

	d = NewDecoder()
	if err := d.Feed([]byte("*1048577\r\n")); err == nil {
		t.Error("Feed() with oversized array count returned nil error")
	}
}

func TestDecoderLargeChunkedStream(t *testing.T) {
	// A long stream chunked at awkward sizes must match the one-shot
	// decode value for value.
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("*2\r\n$3\r\nkey\r\n:")
		sb.WriteString(strings.Repeat("9", 1+i%5))
		sb.WriteString("\r\n")
	}
	stream := sb.String()

	oneShot := NewDecoder()
	if err := oneShot.Feed([]byte(stream)); err != nil {
		t.Fatalf("one-shot Feed(): %v", err)
	}
	want := drain(t, oneShot)

	chunked := NewDecoder()
	for off := 0; off < len(stream); off += 7 {
		end := off + 7
		if end > len(stream) {
			end = len(stream)
		}
		if err := chunked.Feed([]byte(stream[off:end])); err != nil {
			t.Fatalf("chunked Feed() at offset %d: %v", off, err)
		}
	}
	got := drain(t, chunked)

	if !reflect.DeepEqual(got, want) {
		t.Errorf("chunked decode diverged: got %d values, want %d", len(got), len(want))
	}
}
