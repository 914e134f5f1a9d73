package conn

import (
	"fmt"
	"iter"
	"time"

	"github.com/cosmez/respwire-go/internal/resp"
)

// GetKeyValue determines the type of a key and returns either its single
// value or an iterator for its collection.
func (c *Connection) GetKeyValue(key string) (typeName string, single resp.RedisValue, collection iter.Seq[resp.RedisValue], err error) {
	typeName, err = c.KeyType(key)
	if err != nil {
		return "", nil, nil, fmt.Errorf("TYPE command failed: %w", err)
	}

	switch typeName {
	case "string":
		single, err = c.Do(5*time.Second, "GET", key)
		if err != nil {
			return typeName, nil, nil, fmt.Errorf("GET command failed: %w", err)
		}
		return typeName, single, nil, nil

	case "list":
		return typeName, nil, c.SafeList(key), nil
	case "set":
		return typeName, nil, c.SafeSets(key), nil
	case "zset":
		return typeName, nil, c.SafeSortedSets(key), nil
	case "hash":
		return typeName, nil, c.SafeHash(key), nil
	case "stream":
		return typeName, nil, c.SafeStream(key), nil
	case "none":
		return typeName, nil, nil, fmt.Errorf("key does not exist")
	default:
		return typeName, nil, nil, fmt.Errorf("unsupported key type: %s", typeName)
	}
}
