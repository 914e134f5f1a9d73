package command

import (
	"fmt"
	"strings"

	"github.com/cosmez/respwire-go/internal/resp"
	"github.com/cosmez/respwire-go/internal/serializer"
)

// Parse takes a raw input string, extracts modifiers, tokenizes it, and
// encodes the request frame through the resp encoder.
func Parse(input string, reg *Registry) (*ParsedCommand, error) {
	if strings.TrimSpace(input) == "" {
		return &ParsedCommand{}, nil
	}

	parsed := &ParsedCommand{
		Text: input,
	}

	// 1. Detect and strip `| shell cmd` suffix
	// We do this FIRST to avoid extracting `gzip | jq .` as a codec name
	// if the user types `GET key #:gzip | jq .`
	if pipeIdx := strings.Index(input, " | "); pipeIdx != -1 {
		parsed.Pipe = strings.TrimSpace(input[pipeIdx+3:])
		input = input[:pipeIdx]
	}

	// 2. Detect and strip `#:codec` suffix
	if codecIdx := strings.LastIndex(input, "#:"); codecIdx != -1 {
		parsed.Modifier = strings.TrimSpace(input[codecIdx+2:])
		input = input[:codecIdx]
	}

	// 3. Tokenize remaining text
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return parsed, nil
	}

	// 4. Extract Name and Args
	parsed.Name = strings.ToUpper(tokens[0])
	if len(tokens) > 1 {
		parsed.Args = tokens[1:]
	}

	// 5. Look up documentation
	if reg != nil {
		// Try exact match first
		parsed.Doc = reg.Get(parsed.Name)
		// Try compound match (e.g., "CLIENT INFO")
		if len(parsed.Args) > 0 {
			compoundName := parsed.Name + " " + strings.ToUpper(parsed.Args[0])
			if compoundDoc := reg.Get(compoundName); compoundDoc != nil {
				parsed.Doc = compoundDoc
			}
		}
	}

	// 6. Encode the request frame
	byteArgs := make([][]byte, len(parsed.Args))
	for i, arg := range parsed.Args {
		argBytes := []byte(arg)

		// Special case: serialize the value argument of SET when a codec
		// modifier is present
		if parsed.Name == "SET" && i == 1 && parsed.Modifier != "" {
			codec, err := serializer.Get(parsed.Modifier)
			if err != nil {
				return nil, fmt.Errorf("failed to get serializer %q: %w", parsed.Modifier, err)
			}
			serializedBytes, err := codec.Serialize(argBytes)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize value: %w", err)
			}
			argBytes = serializedBytes
		}

		byteArgs[i] = argBytes
	}
	parsed.Frame = resp.Encode(parsed.Name, byteArgs...)

	return parsed, nil
}
