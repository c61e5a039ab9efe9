package resp

import (
	"fmt"
	"net"

	"github.com/ziyasal/pomaitools/internal/pkg/common"
)

// Client exchanges commands with a server over one persistent connection.
// It is not safe for concurrent use: requests are strictly sequential.
type Client struct {
	conn   net.Conn
	pool   common.Pooled
	logger common.Logger
	wbuf   []byte
}

type ClientOption func(*Client)

// WithLogger sets the logger used for connection level events.
func WithLogger(l common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithBufferPool sets the pool reply buffers are taken from. A pool whose
// block size is below ReplyBufferSize is ignored.
func WithBufferPool(p common.Pooled) ClientOption {
	return func(c *Client) {
		c.pool = p
	}
}

// Dial connects to addr over TCP. No connect or I/O deadline is applied.
func Dial(addr string, opts ...ClientOption) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := NewClient(conn, opts...)
	c.logger.Debug(fmt.Sprintf("connected to %s", addr))

	return c, nil
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, opts ...ClientOption) *Client {
	c := &Client{
		conn:   conn,
		pool:   common.NewDefaultPooled(ReplyBufferSize),
		logger: common.NewDefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.pool == nil || c.pool.BlockSize() < ReplyBufferSize {
		c.logger.Warn(fmt.Sprintf("reply buffer pool too small, using %d byte blocks", ReplyBufferSize))
		c.pool = common.NewDefaultPooled(ReplyBufferSize)
	}

	return c
}

// Send writes the command built from parts and returns the bytes of a
// single read of at most ReplyBufferSize. Socket errors are returned as is
// (wrapped); there is no retry.
func (c *Client) Send(parts ...interface{}) ([]byte, error) {
	if len(parts) == 0 {
		return nil, ErrEmptyCommand
	}

	c.wbuf = AppendCommand(c.wbuf[:0], parts...)
	if _, err := c.conn.Write(c.wbuf); err != nil {
		return nil, fmt.Errorf("write %v: %w", parts[0], err)
	}

	buf := c.pool.Get()
	defer c.pool.Put(buf)

	n, err := c.conn.Read(buf[:ReplyBufferSize])
	if err != nil {
		return nil, fmt.Errorf("read reply to %v: %w", parts[0], err)
	}

	reply := make([]byte, n)
	copy(reply, buf[:n])

	return reply, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
