package conn

import (
	"fmt"
	"net"
	"time"

	"github.com/cosmez/respwire-go/internal/command"
	"github.com/cosmez/respwire-go/internal/resp"
)

// readChunkSize is the size of the socket read buffer handed to the
// decoder per read.
const readChunkSize = 4096

// ServerError is an error reply received where a success reply was
// expected. The reply itself is well-formed protocol; the error is a
// domain-level one.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return "redis: " + e.Message }

// Connection represents a TCP connection to a Redis server. Replies are
// decoded by an incremental resp.Decoder owned by the connection: socket
// bytes are fed in whatever chunks arrive, and completed values are
// dequeued in order. One Decoder serves the connection for its lifetime.
//
// A Connection is not safe for concurrent use; callers issuing commands
// from multiple goroutines must serialize access.
type Connection struct {
	Host       string
	Port       string
	conn       net.Conn
	dec        *resp.Decoder
	scratch    []byte
	ServerInfo map[string]string
}

// Connect establishes a TCP connection to Redis and performs
// authentication if required.
func Connect(host, port, user, pass string) (*Connection, error) {
	address := net.JoinHostPort(host, port)
	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}

	c := &Connection{
		Host:    host,
		Port:    port,
		conn:    conn,
		dec:     resp.NewDecoder(),
		scratch: make([]byte, readChunkSize),
	}

	// Handle Authentication
	if pass != "" {
		var response resp.RedisValue
		if user == "" {
			// Legacy AUTH
			response, err = c.Do(5*time.Second, "AUTH", pass)
		} else {
			// ACL AUTH (Redis 6+)
			response, err = c.Do(5*time.Second, "AUTH", user, pass)
		}
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("AUTH failed: %w", err)
		}

		if errResp, ok := response.(resp.RedisError); ok {
			c.Close()
			return nil, fmt.Errorf("authentication failed: %s", errResp.Value)
		}
		if strResp, ok := response.(resp.RedisString); !ok || strResp.Value != "OK" {
			c.Close()
			return nil, fmt.Errorf("unexpected AUTH response: %v", response)
		}
	}

	// Fetch Server Info
	if err := c.getServerInfo(); err != nil {
		// Don't fail the connection if INFO fails; some restricted
		// environments block the INFO command.
		c.ServerInfo = map[string]string{"error": err.Error()}
	}

	return c, nil
}

// Send writes a parsed command's request frame to the Redis server.
func (c *Connection) Send(cmd *command.ParsedCommand) error {
	return c.SendFrame(cmd.Frame)
}

// SendFrame writes an encoded request frame to the Redis server.
func (c *Connection) SendFrame(f resp.Frame) error {
	_, err := c.conn.Write(f.Bytes)
	return err
}

// Receive returns the next reply from the server, optionally with a
// timeout, feeding socket bytes to the decoder until one value completes.
func (c *Connection) Receive(timeout time.Duration) (resp.RedisValue, error) {
	values, err := c.ReceiveCount(1, timeout)
	if err != nil {
		return nil, err
	}
	return values[0], nil
}

// ReceiveCount returns the next n replies from the server. Bytes are read
// in arbitrary chunks and fed to the connection's decoder; the call
// returns once n completed values are dequeued.
//
// On error the connection should be considered broken: a protocol error
// poisons the decoder, and a timeout may leave a reply half-fed.
func (c *Connection) ReceiveCount(n int, timeout time.Duration) ([]resp.RedisValue, error) {
	if timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", err)
		}
		// Reset deadline after read
		defer c.conn.SetReadDeadline(time.Time{})
	}

	for c.dec.Queued() < n {
		read, err := c.conn.Read(c.scratch)
		if read > 0 {
			if ferr := c.dec.Feed(c.scratch[:read]); ferr != nil {
				return nil, ferr
			}
		}
		if err != nil {
			return nil, err
		}
	}

	values := make([]resp.RedisValue, n)
	for i := range values {
		v, err := c.dec.Dequeue()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Do encodes a command, sends it, and returns its reply. The number of
// replies awaited comes from the frame's expected result count.
func (c *Connection) Do(timeout time.Duration, name string, args ...string) (resp.RedisValue, error) {
	frame := resp.EncodeStrings(name, args...)
	if err := c.SendFrame(frame); err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", name, err)
	}

	values, err := c.ReceiveCount(frame.ExpectedResults, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to receive %s response: %w", name, err)
	}
	return values[0], nil
}

// Close terminates the TCP connection.
func (c *Connection) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
