package serializer

import (
	"github.com/golang/snappy"
)

// snappySerializer compresses values with snappy block encoding.
type snappySerializer struct{}

func (s snappySerializer) Serialize(data []byte) ([]byte, error) {
	// Encode appends to dst; nil allocates a slice of the right size.
	return snappy.Encode(nil, data), nil
}

func (s snappySerializer) Deserialize(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}
