package conn

import (
	"fmt"
	"strconv"
	"time"

	"github.com/cosmez/respwire-go/internal/resp"
)

// commandTimeout bounds every typed command method.
const commandTimeout = 5 * time.Second

// The methods in this file are thin wrappers: each encodes one Redis
// command, sends it, and unwraps the reply into an idiomatic return type.
// An error reply where success was expected surfaces as *ServerError.

// Ping checks the connection and returns the server's response, normally
// "PONG".
func (c *Connection) Ping() (string, error) {
	v, err := c.Do(commandTimeout, "PING")
	if err != nil {
		return "", err
	}
	return unwrapStatus(v)
}

// Echo returns the message echoed back by the server.
func (c *Connection) Echo(message string) (string, error) {
	v, err := c.Do(commandTimeout, "ECHO", message)
	if err != nil {
		return "", err
	}
	s, _, err := unwrapBulk(v)
	return s, err
}

// Select changes the database for the current connection.
func (c *Connection) Select(db int) error {
	v, err := c.Do(commandTimeout, "SELECT", strconv.Itoa(db))
	if err != nil {
		return err
	}
	_, err = unwrapStatus(v)
	return err
}

// Set stores value under key.
func (c *Connection) Set(key, value string) error {
	v, err := c.Do(commandTimeout, "SET", key, value)
	if err != nil {
		return err
	}
	_, err = unwrapStatus(v)
	return err
}

// Get fetches the value of key. ok is false when the key does not exist
// (a null bulk string reply).
func (c *Connection) Get(key string) (value string, ok bool, err error) {
	v, err := c.Do(commandTimeout, "GET", key)
	if err != nil {
		return "", false, err
	}
	return unwrapBulk(v)
}

// Del removes the given keys and returns how many existed.
func (c *Connection) Del(keys ...string) (int64, error) {
	v, err := c.Do(commandTimeout, "DEL", keys...)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// Exists returns how many of the given keys exist.
func (c *Connection) Exists(keys ...string) (int64, error) {
	v, err := c.Do(commandTimeout, "EXISTS", keys...)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// Incr increments the integer value of key by one.
func (c *Connection) Incr(key string) (int64, error) {
	v, err := c.Do(commandTimeout, "INCR", key)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// IncrBy increments the integer value of key by increment.
func (c *Connection) IncrBy(key string, increment int64) (int64, error) {
	v, err := c.Do(commandTimeout, "INCRBY", key, strconv.FormatInt(increment, 10))
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// Expire sets key's time to live in seconds. It reports whether the
// timeout was set (false when the key does not exist).
func (c *Connection) Expire(key string, seconds int64) (bool, error) {
	v, err := c.Do(commandTimeout, "EXPIRE", key, strconv.FormatInt(seconds, 10))
	if err != nil {
		return false, err
	}
	n, err := unwrapInteger(v)
	return n == 1, err
}

// TTL returns key's remaining time to live in seconds. Redis returns -1
// for a key without expiry and -2 for a missing key.
func (c *Connection) TTL(key string) (int64, error) {
	v, err := c.Do(commandTimeout, "TTL", key)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// KeyType returns the Redis type of key ("string", "list", "hash", ...).
func (c *Connection) KeyType(key string) (string, error) {
	v, err := c.Do(commandTimeout, "TYPE", key)
	if err != nil {
		return "", err
	}
	return unwrapStatus(v)
}

// DBSize returns the number of keys in the selected database.
func (c *Connection) DBSize() (int64, error) {
	v, err := c.Do(commandTimeout, "DBSIZE")
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// HSet sets field/value pairs on the hash at key and returns the number
// of fields that were newly created.
func (c *Connection) HSet(key string, fieldValues ...string) (int64, error) {
	args := append([]string{key}, fieldValues...)
	v, err := c.Do(commandTimeout, "HSET", args...)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// HGet fetches one field of the hash at key. ok is false when the field
// or key does not exist.
func (c *Connection) HGet(key, field string) (value string, ok bool, err error) {
	v, err := c.Do(commandTimeout, "HGET", key, field)
	if err != nil {
		return "", false, err
	}
	return unwrapBulk(v)
}

// HGetAll returns every field and value of the hash at key.
func (c *Connection) HGetAll(key string) (map[string]string, error) {
	v, err := c.Do(commandTimeout, "HGETALL", key)
	if err != nil {
		return nil, err
	}
	items, err := unwrapStringArray(v)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, fmt.Errorf("HGETALL returned odd element count %d", len(items))
	}
	fields := make(map[string]string, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		fields[items[i]] = items[i+1]
	}
	return fields, nil
}

// LPush prepends elements to the list at key and returns its new length.
func (c *Connection) LPush(key string, elements ...string) (int64, error) {
	args := append([]string{key}, elements...)
	v, err := c.Do(commandTimeout, "LPUSH", args...)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// RPush appends elements to the list at key and returns its new length.
func (c *Connection) RPush(key string, elements ...string) (int64, error) {
	args := append([]string{key}, elements...)
	v, err := c.Do(commandTimeout, "RPUSH", args...)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// LLen returns the length of the list at key.
func (c *Connection) LLen(key string) (int64, error) {
	v, err := c.Do(commandTimeout, "LLEN", key)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// LRange returns the list elements between start and stop inclusive.
func (c *Connection) LRange(key string, start, stop int64) ([]string, error) {
	v, err := c.Do(commandTimeout, "LRANGE", key,
		strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10))
	if err != nil {
		return nil, err
	}
	return unwrapStringArray(v)
}

// SAdd adds members to the set at key and returns how many were new.
func (c *Connection) SAdd(key string, members ...string) (int64, error) {
	args := append([]string{key}, members...)
	v, err := c.Do(commandTimeout, "SADD", args...)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// SMembers returns every member of the set at key.
func (c *Connection) SMembers(key string) ([]string, error) {
	v, err := c.Do(commandTimeout, "SMEMBERS", key)
	if err != nil {
		return nil, err
	}
	return unwrapStringArray(v)
}

// ZAdd adds a member with the given score to the sorted set at key and
// returns how many members were newly added.
func (c *Connection) ZAdd(key string, score float64, member string) (int64, error) {
	v, err := c.Do(commandTimeout, "ZADD", key,
		strconv.FormatFloat(score, 'f', -1, 64), member)
	if err != nil {
		return 0, err
	}
	return unwrapInteger(v)
}

// ZScore returns the score of member in the sorted set at key, or nil
// when the member does not exist.
func (c *Connection) ZScore(key, member string) (*float64, error) {
	v, err := c.Do(commandTimeout, "ZSCORE", key, member)
	if err != nil {
		return nil, err
	}
	s, ok, err := unwrapBulk(v)
	if err != nil || !ok {
		return nil, err
	}
	score, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("ZSCORE returned non-numeric score %q: %w", s, err)
	}
	return &score, nil
}

// unwrapStatus expects a simple string reply.
func unwrapStatus(v resp.RedisValue) (string, error) {
	if err := replyError(v); err != nil {
		return "", err
	}
	s, ok := v.(resp.RedisString)
	if !ok {
		return "", fmt.Errorf("expected simple string reply, got %T", v)
	}
	return s.Value, nil
}

// unwrapInteger expects an integer reply.
func unwrapInteger(v resp.RedisValue) (int64, error) {
	if err := replyError(v); err != nil {
		return 0, err
	}
	i, ok := v.(resp.RedisInteger)
	if !ok {
		return 0, fmt.Errorf("expected integer reply, got %T", v)
	}
	return i.IntValue, nil
}

// unwrapBulk expects a bulk string reply; a null bulk string yields
// ok=false.
func unwrapBulk(v resp.RedisValue) (value string, ok bool, err error) {
	if err := replyError(v); err != nil {
		return "", false, err
	}
	switch r := v.(type) {
	case resp.RedisBulkString:
		return r.Value, true, nil
	case resp.RedisString:
		return r.Value, true, nil
	case resp.RedisNull:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("expected bulk string reply, got %T", v)
	}
}

// unwrapStringArray expects an array of bulk strings. A null array
// yields an empty slice.
func unwrapStringArray(v resp.RedisValue) ([]string, error) {
	if err := replyError(v); err != nil {
		return nil, err
	}
	if _, isNull := v.(resp.RedisNull); isNull {
		return nil, nil
	}
	arr, ok := v.(resp.RedisArray)
	if !ok {
		return nil, fmt.Errorf("expected array reply, got %T", v)
	}
	items := make([]string, len(arr.Values))
	for i, elem := range arr.Values {
		items[i] = elem.StringValue()
	}
	return items, nil
}

// replyError converts an error reply into a *ServerError.
func replyError(v resp.RedisValue) error {
	if errResp, ok := v.(resp.RedisError); ok {
		return &ServerError{Message: errResp.Value}
	}
	return nil
}
