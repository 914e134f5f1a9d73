package serializer

import (
	"encoding/base64"
)

// base64Serializer encodes values with standard base64. Useful for
// storing binary data in places a human will read back.
type base64Serializer struct{}

func (s base64Serializer) Serialize(data []byte) ([]byte, error) {
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(data)))
	base64.StdEncoding.Encode(encoded, data)
	return encoded, nil
}

func (s base64Serializer) Deserialize(data []byte) ([]byte, error) {
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(decoded, data)
	if err != nil {
		return nil, err
	}
	return decoded[:n], nil
}
