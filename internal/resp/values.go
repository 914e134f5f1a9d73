package resp

import "strconv"

// ValueType represents the type of a RESP value.
type ValueType int

const (
	TypeNone ValueType = iota
	TypeString
	TypeInteger
	TypeBulkString
	TypeArray
	TypeNull
	TypeError
)

// RedisValue is the interface that all RESP value types implement.
// A decoded value is always structurally complete: the decoder never
// hands out a value whose payload or elements are still in flight.
type RedisValue interface {
	Type() ValueType
	StringValue() string
}

// RedisString represents a RESP Simple String (starts with +).
type RedisString struct {
	Value string
}

func (s RedisString) Type() ValueType     { return TypeString }
func (s RedisString) StringValue() string { return s.Value }

// RedisBulkString represents a RESP Bulk String (starts with $).
// Value holds the raw payload; Go strings are binary-safe, so arbitrary
// byte sequences round-trip unchanged.
type RedisBulkString struct {
	Value  string
	Length int
}

func (b RedisBulkString) Type() ValueType     { return TypeBulkString }
func (b RedisBulkString) StringValue() string { return b.Value }

// RedisInteger represents a RESP Integer (starts with :).
type RedisInteger struct {
	IntValue int64
}

func (i RedisInteger) Type() ValueType { return TypeInteger }
func (i RedisInteger) StringValue() string {
	return strconv.FormatInt(i.IntValue, 10)
}

// RedisArray represents a RESP Array (starts with *). Arrays nest
// arbitrarily: elements may themselves be arrays.
type RedisArray struct {
	Values []RedisValue
}

func (a RedisArray) Type() ValueType { return TypeArray }
func (a RedisArray) StringValue() string {
	// The output formatter decides how to display arrays.
	return ""
}

// RedisError represents a RESP Error (starts with -). An error reply is a
// well-formed value, not a decode failure; callers decide whether to
// surface it as a domain error.
type RedisError struct {
	Value string
}

func (e RedisError) Type() ValueType     { return TypeError }
func (e RedisError) StringValue() string { return e.Value }

// RedisNull represents a RESP null: a Null Bulk String ($-1) or a Null
// Array (*-1). FromArray records which marker produced it, since Redis
// distinguishes a missing string from a missing collection.
type RedisNull struct {
	FromArray bool
}

func (n RedisNull) Type() ValueType { return TypeNull }
func (n RedisNull) StringValue() string {
	return ""
}
