package conn

import (
	"errors"
	"reflect"
	"testing"
)

func TestPing(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "+PONG\r\n")

	got, err := c.Ping()
	if err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if got != "PONG" {
		t.Errorf("Ping() = %q, want PONG", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "$-1\r\n")

	value, ok, err := c.Get("missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("Get() = (%q, %v), want (\"\", false)", value, ok)
	}
}

func TestGetExistingKey(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "$5\r\nhello\r\n")

	value, ok, err := c.Get("greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != "hello" {
		t.Errorf("Get() = (%q, %v), want (hello, true)", value, ok)
	}
}

func TestSetServerError(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "-ERR wrong number of arguments\r\n")

	err := c.Set("key", "value")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Set() error = %v, want ServerError", err)
	}
	if serverErr.Message != "ERR wrong number of arguments" {
		t.Errorf("ServerError.Message = %q", serverErr.Message)
	}
}

func TestDel(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, ":2\r\n")

	n, err := c.Del("a", "b", "c")
	if err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Del() = %d, want 2", n)
	}
}

func TestHGetAll(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "*4\r\n$1\r\nf\r\n$1\r\n1\r\n$1\r\ng\r\n$1\r\n2\r\n")

	fields, err := c.HGetAll("myhash")
	if err != nil {
		t.Fatalf("HGetAll failed: %v", err)
	}
	expected := map[string]string{"f": "1", "g": "2"}
	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("HGetAll() = %v, want %v", fields, expected)
	}
}

func TestLRange(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n")

	elements, err := c.LRange("mylist", 0, -1)
	if err != nil {
		t.Fatalf("LRange failed: %v", err)
	}
	if !reflect.DeepEqual(elements, []string{"foo", "bar"}) {
		t.Errorf("LRange() = %v, want [foo bar]", elements)
	}
}

func TestZScore(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "$3\r\n1.5\r\n")

	score, err := c.ZScore("myzset", "member")
	if err != nil {
		t.Fatalf("ZScore failed: %v", err)
	}
	if score == nil || *score != 1.5 {
		t.Errorf("ZScore() = %v, want 1.5", score)
	}
}

func TestZScoreMissingMember(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, "$-1\r\n")

	score, err := c.ZScore("myzset", "ghost")
	if err != nil {
		t.Fatalf("ZScore failed: %v", err)
	}
	if score != nil {
		t.Errorf("ZScore() = %v, want nil", *score)
	}
}

func TestTTL(t *testing.T) {
	c, serverConn := setupMockConnection()
	defer c.Close()
	defer serverConn.Close()

	serveOnce(serverConn, ":-1\r\n")

	ttl, err := c.TTL("persistent")
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl != -1 {
		t.Errorf("TTL() = %d, want -1", ttl)
	}
}
