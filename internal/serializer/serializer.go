package serializer

import (
	"fmt"
	"sort"
	"strings"
)

// Serializer is a value codec: it transforms a value's bytes before they
// are written into a request frame, and reverses the transform when a
// reply is displayed.
type Serializer interface {
	Serialize([]byte) ([]byte, error)
	Deserialize([]byte) ([]byte, error)
}

var codecs = map[string]Serializer{
	"base64": base64Serializer{},
	"gzip":   gzipSerializer{},
	"snappy": snappySerializer{},
}

// Get returns the Serializer registered under name. Unknown names return
// an error so the caller handles the missing codec explicitly.
func Get(name string) (Serializer, error) {
	codec, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown serializer: %q", name)
	}
	return codec, nil
}

// Names returns the registered codec names, sorted, for help output and
// completion.
func Names() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
