package command

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/cosmez/respwire-go/internal/serializer"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple",
			input:    "GET mykey",
			expected: []string{"GET", "mykey"},
		},
		{
			name:     "Quoted String",
			input:    `SET key "hello world"`,
			expected: []string{"SET", "key", "hello world"},
		},
		{
			name:     "Escaped Quotes",
			input:    `SET key "hello \"world\""`,
			expected: []string{"SET", "key", `hello "world"`},
		},
		{
			name:     "Unclosed Quotes",
			input:    `SET key "hello`,
			expected: []string{"SET", "key", "hello"},
		},
		{
			name:     "Multiple Spaces",
			input:    "  GET   mykey  ",
			expected: []string{"GET", "mykey"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("tokenize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	tests := []struct {
		name         string
		input        string
		expectedName string
		expectedArgs []string
		expectedMod  string
		expectedPipe string
		expectedRESP []byte
	}{
		{
			name:         "Simple Command",
			input:        "GET mykey",
			expectedName: "GET",
			expectedArgs: []string{"mykey"},
			expectedRESP: []byte("*2\r\n$3\r\nGET\r\n$5\r\nmykey\r\n"),
		},
		{
			name:         "Lowercase Command Is Uppercased",
			input:        "get mykey",
			expectedName: "GET",
			expectedArgs: []string{"mykey"},
			expectedRESP: []byte("*2\r\n$3\r\nGET\r\n$5\r\nmykey\r\n"),
		},
		{
			name:         "Quoted Value",
			input:        `SET key "hello world"`,
			expectedName: "SET",
			expectedArgs: []string{"key", "hello world"},
			expectedRESP: []byte("*3\r\n$3\r\nSET\r\n$3\r\nkey\r\n$11\r\nhello world\r\n"),
		},
		{
			name:         "With Codec",
			input:        "GET mykey#:gzip",
			expectedName: "GET",
			expectedArgs: []string{"mykey"},
			expectedMod:  "gzip",
			expectedRESP: []byte("*2\r\n$3\r\nGET\r\n$5\r\nmykey\r\n"),
		},
		{
			name:         "With Pipe",
			input:        "GET mykey | jq .",
			expectedName: "GET",
			expectedArgs: []string{"mykey"},
			expectedPipe: "jq .",
			expectedRESP: []byte("*2\r\n$3\r\nGET\r\n$5\r\nmykey\r\n"),
		},
		{
			name:         "Codec And Pipe",
			input:        "GET mykey #:gzip | jq .",
			expectedName: "GET",
			expectedArgs: []string{"mykey"},
			expectedMod:  "gzip",
			expectedPipe: "jq .",
			expectedRESP: []byte("*2\r\n$3\r\nGET\r\n$5\r\nmykey\r\n"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, reg)
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if got.Name != tt.expectedName {
				t.Errorf("Name = %q, want %q", got.Name, tt.expectedName)
			}
			if !reflect.DeepEqual(got.Args, tt.expectedArgs) {
				t.Errorf("Args = %v, want %v", got.Args, tt.expectedArgs)
			}
			if got.Modifier != tt.expectedMod {
				t.Errorf("Modifier = %q, want %q", got.Modifier, tt.expectedMod)
			}
			if got.Pipe != tt.expectedPipe {
				t.Errorf("Pipe = %q, want %q", got.Pipe, tt.expectedPipe)
			}
			if !bytes.Equal(got.Frame.Bytes, tt.expectedRESP) {
				t.Errorf("Frame.Bytes = %q, want %q", got.Frame.Bytes, tt.expectedRESP)
			}
			if got.Frame.ExpectedResults != 1 {
				t.Errorf("Frame.ExpectedResults = %d, want 1", got.Frame.ExpectedResults)
			}
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	got, err := Parse("   ", nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got.Name != "" || got.Frame.Bytes != nil {
		t.Errorf("Parse() of blank input = %+v, want empty command", got)
	}
}

func TestParseSetWithCodec(t *testing.T) {
	// The codec modifier serializes the value argument of SET before it is
	// encoded into the frame.
	got, err := Parse("SET key hello#:base64", nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got.Modifier != "base64" {
		t.Fatalf("Modifier = %q, want base64", got.Modifier)
	}

	codec, err := serializer.Get("base64")
	if err != nil {
		t.Fatalf("serializer.Get(): %v", err)
	}
	encoded, err := codec.Serialize([]byte("hello"))
	if err != nil {
		t.Fatalf("Serialize(): %v", err)
	}
	if !bytes.Contains(got.Frame.Bytes, encoded) {
		t.Errorf("Frame.Bytes = %q, want to contain serialized value %q", got.Frame.Bytes, encoded)
	}
}

func TestParseUnknownCodec(t *testing.T) {
	if _, err := Parse("SET key value#:nope", nil); err == nil {
		t.Error("Parse() with unknown codec returned nil error")
	}
}
