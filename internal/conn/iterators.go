package conn

import (
	"fmt"
	"iter"
	"strconv"
	"time"

	"github.com/cosmez/respwire-go/internal/resp"
)

// iteratorTimeout bounds each round trip made by an iterator.
const iteratorTimeout = 10 * time.Second

// scanPageSize is the COUNT hint passed to SCAN-family commands and the
// page size used by range-based iterators.
const scanPageSize = 100

// scanIterator drives one keyed SCAN-family command (SSCAN, HSCAN,
// ZSCAN) to completion, yielding every element of every page. If an
// error occurs, a RedisError is yielded and iteration stops.
func (c *Connection) scanIterator(name, key string) iter.Seq[resp.RedisValue] {
	return func(yield func(resp.RedisValue) bool) {
		cursor := "0"
		for {
			response, err := c.Do(iteratorTimeout, name,
				key, cursor, "COUNT", strconv.Itoa(scanPageSize))
			if err != nil {
				yield(resp.RedisError{Value: fmt.Sprintf("%s failed: %v", name, err)})
				return
			}

			if errResp, ok := response.(resp.RedisError); ok {
				yield(errResp)
				return
			}

			array, ok := response.(resp.RedisArray)
			if !ok || len(array.Values) < 2 {
				yield(resp.RedisError{Value: fmt.Sprintf("unexpected %s response format", name)})
				return
			}

			cursor = array.Values[0].StringValue()

			page, ok := array.Values[1].(resp.RedisArray)
			if !ok {
				yield(resp.RedisError{Value: fmt.Sprintf("unexpected %s page format", name)})
				return
			}

			for _, elem := range page.Values {
				if !yield(elem) {
					return // consumer stopped iterating
				}
			}

			if cursor == "0" {
				return
			}
		}
	}
}

// SafeKeys iterates over all keys matching a pattern using the SCAN
// command, never blocking the server the way KEYS does.
func (c *Connection) SafeKeys(pattern string) iter.Seq[resp.RedisValue] {
	return func(yield func(resp.RedisValue) bool) {
		cursor := "0"
		for {
			response, err := c.Do(iteratorTimeout, "SCAN",
				cursor, "MATCH", pattern, "COUNT", strconv.Itoa(scanPageSize))
			if err != nil {
				yield(resp.RedisError{Value: fmt.Sprintf("SCAN failed: %v", err)})
				return
			}

			if errResp, ok := response.(resp.RedisError); ok {
				yield(errResp)
				return
			}

			array, ok := response.(resp.RedisArray)
			if !ok || len(array.Values) < 2 {
				yield(resp.RedisError{Value: "unexpected SCAN response format"})
				return
			}

			cursor = array.Values[0].StringValue()

			keys, ok := array.Values[1].(resp.RedisArray)
			if !ok {
				yield(resp.RedisError{Value: "unexpected SCAN keys array format"})
				return
			}

			for _, key := range keys.Values {
				if !yield(key) {
					return
				}
			}

			if cursor == "0" {
				return
			}
		}
	}
}

// SafeSets iterates over all members of a Set using the SSCAN command.
func (c *Connection) SafeSets(key string) iter.Seq[resp.RedisValue] {
	return c.scanIterator("SSCAN", key)
}

// SafeHash iterates over the fields and values of a Hash using the HSCAN
// command. Fields and values alternate in the yielded sequence.
func (c *Connection) SafeHash(key string) iter.Seq[resp.RedisValue] {
	return c.scanIterator("HSCAN", key)
}

// SafeSortedSets iterates over the members and scores of a Sorted Set
// using the ZSCAN command. Members and scores alternate.
func (c *Connection) SafeSortedSets(key string) iter.Seq[resp.RedisValue] {
	return c.scanIterator("ZSCAN", key)
}

// SafeList iterates over all elements of a List in LRANGE pages, stopping
// when a page comes back empty.
func (c *Connection) SafeList(key string) iter.Seq[resp.RedisValue] {
	return func(yield func(resp.RedisValue) bool) {
		start := 0
		for {
			response, err := c.Do(iteratorTimeout, "LRANGE", key,
				strconv.Itoa(start), strconv.Itoa(start+scanPageSize-1))
			if err != nil {
				yield(resp.RedisError{Value: fmt.Sprintf("LRANGE failed: %v", err)})
				return
			}

			if errResp, ok := response.(resp.RedisError); ok {
				yield(errResp)
				return
			}

			array, ok := response.(resp.RedisArray)
			if !ok {
				yield(resp.RedisError{Value: "unexpected LRANGE response format"})
				return
			}

			if len(array.Values) == 0 {
				return // reached the end of the list
			}

			for _, element := range array.Values {
				if !yield(element) {
					return
				}
			}

			start += scanPageSize
		}
	}
}

// SafeStream iterates over all entries of a Stream in XRANGE pages. The
// cursor for each page is the previous page's last entry ID, made
// exclusive with the `(` prefix (Redis 6.2+).
func (c *Connection) SafeStream(key string) iter.Seq[resp.RedisValue] {
	return func(yield func(resp.RedisValue) bool) {
		cursor := "-" // start from the beginning
		for {
			response, err := c.Do(iteratorTimeout, "XRANGE", key,
				cursor, "+", "COUNT", strconv.Itoa(scanPageSize))
			if err != nil {
				yield(resp.RedisError{Value: fmt.Sprintf("XRANGE failed: %v", err)})
				return
			}

			if errResp, ok := response.(resp.RedisError); ok {
				yield(errResp)
				return
			}

			array, ok := response.(resp.RedisArray)
			if !ok {
				yield(resp.RedisError{Value: "unexpected XRANGE response format"})
				return
			}

			if len(array.Values) == 0 {
				return // reached the end of the stream
			}

			for _, entry := range array.Values {
				if !yield(entry) {
					return
				}
			}

			lastEntry, ok := array.Values[len(array.Values)-1].(resp.RedisArray)
			if !ok || len(lastEntry.Values) == 0 {
				yield(resp.RedisError{Value: "unexpected XRANGE entry format"})
				return
			}

			cursor = "(" + lastEntry.Values[0].StringValue()
		}
	}
}
