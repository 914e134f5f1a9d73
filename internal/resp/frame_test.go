package resp

import (
	"reflect"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		command  string
		args     []string
		expected string
	}{
		{
			name:     "No Arguments",
			command:  "PING",
			expected: "*1\r\n$4\r\nPING\r\n",
		},
		{
			name:     "Set Key Value",
			command:  "SET",
			args:     []string{"k", "v"},
			expected: "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n",
		},
		{
			name:     "Empty Argument",
			command:  "SET",
			args:     []string{"key", ""},
			expected: "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$0\r\n\r\n",
		},
		{
			name:     "Binary Argument",
			command:  "SET",
			args:     []string{"bin", "\x00\r\n\x01"},
			expected: "*3\r\n$3\r\nSET\r\n$3\r\nbin\r\n$4\r\n\x00\r\n\x01\r\n",
		},
		{
			name:     "Multibyte Argument",
			command:  "SET",
			args:     []string{"key", "héllo"},
			expected: "*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$6\r\nhéllo\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := EncodeStrings(tt.command, tt.args...)
			if got := string(f.Bytes); got != tt.expected {
				t.Errorf("EncodeStrings() = %q, want %q", got, tt.expected)
			}
			if f.ExpectedResults != 1 {
				t.Errorf("ExpectedResults = %d, want 1", f.ExpectedResults)
			}

			// The self-check and the decoder must agree about the frame.
			count, err := CountValues(f.Bytes)
			if err != nil {
				t.Fatalf("CountValues(): %v", err)
			}
			if count != f.ExpectedResults {
				t.Errorf("CountValues() = %d, ExpectedResults = %d", count, f.ExpectedResults)
			}
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := EncodeStrings("HSET", "h", "field", "value with spaces")

	d := NewDecoder()
	if err := d.Feed(f.Bytes); err != nil {
		t.Fatalf("Feed(): %v", err)
	}
	v, err := d.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue(): %v", err)
	}

	expected := RedisArray{Values: []RedisValue{
		RedisBulkString{Value: "HSET", Length: 4},
		RedisBulkString{Value: "h", Length: 1},
		RedisBulkString{Value: "field", Length: 5},
		RedisBulkString{Value: "value with spaces", Length: 17},
	}}
	if !reflect.DeepEqual(v, expected) {
		t.Errorf("round trip = %v, want %v", v, expected)
	}
}

func TestCountValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{name: "Empty", input: "", expected: 0},
		{name: "Single Value", input: "+OK\r\n", expected: 1},
		{name: "Two Values", input: ":1\r\n:2\r\n", expected: 2},
		{name: "Array Counts Once", input: "*2\r\n:1\r\n:2\r\n", expected: 1},
		{name: "Trailing Partial Ignored", input: "+OK\r\n$3\r\nab", expected: 1},
		{name: "Malformed", input: "&x\r\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountValues([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("CountValues() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("CountValues() = %d, want %d", got, tt.expected)
			}
		})
	}
}
