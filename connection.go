package zephpost

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"
)

// ConnectionTrace contains tracing and diagnostic information for a connection.
type ConnectionTrace struct {
	// ID is a unique identifier for this connection (for correlation in logs).
	ID string
	// RemoteAddr is the remote client address.
	RemoteAddr net.Addr
	// LocalAddr is the local server address.
	LocalAddr net.Addr
	// ConnectedAt is when the connection was established.
	ConnectedAt time.Time
	// ClientHostname is the hostname provided in HELO/EHLO.
	ClientHostname string
	// ReverseDNS is the PTR name of the client IP, when a resolver is configured.
	ReverseDNS string
	// ReverseDNSAuthentic is set when the PTR answer was DNSSEC-authenticated.
	ReverseDNSAuthentic bool
	// CommandCount is the number of lines read from the client.
	CommandCount int64
	// TransactionCount is the number of transactions that reached MAIL FROM.
	TransactionCount int64
	// LastActivity is the timestamp of the last command.
	LastActivity time.Time
	// Errors contains the protocol and I/O errors seen on the connection.
	Errors []error
}

// Connection is one accepted client connection and its session.
type Connection struct {
	conn net.Conn

	ctx    context.Context
	cancel context.CancelFunc

	reader *bufio.Reader
	writer *bufio.Writer

	// mu protects Trace and closed.
	mu sync.RWMutex

	// Trace contains connection tracing and diagnostic information.
	Trace ConnectionTrace

	// session is only touched by the goroutine serving the connection.
	session Session

	closedChan chan struct{}
	closed     bool
}

// NewConnection creates a new Connection from a net.Conn.
// The provided context is used for cancellation.
func NewConnection(ctx context.Context, conn net.Conn, bufioSize int) *Connection {
	connCtx, cancel := context.WithCancel(ctx)
	now := time.Now()
	if bufioSize < 16 {
		bufioSize = 16
	}

	return &Connection{
		conn:   conn,
		ctx:    connCtx,
		cancel: cancel,
		reader: bufio.NewReaderSize(conn, bufioSize),
		writer: bufio.NewWriterSize(conn, bufioSize),
		Trace: ConnectionTrace{
			RemoteAddr:   conn.RemoteAddr(),
			LocalAddr:    conn.LocalAddr(),
			ConnectedAt:  now,
			LastActivity: now,
		},
		closedChan: make(chan struct{}),
	}
}

// Context returns the connection's context. It is cancelled when the
// connection closes or the server shuts down.
func (c *Connection) Context() context.Context {
	return c.ctx
}

// RemoteAddr returns the remote client address.
func (c *Connection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// LocalAddr returns the local server address.
func (c *Connection) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// Session returns the envelope state of the connection. It must only be
// used from hooks, which run on the connection's own goroutine.
func (c *Connection) Session() *Session {
	return &c.session
}

// State returns the current session state.
func (c *Connection) State() SessionState {
	return c.session.State()
}

// Close closes the connection and releases resources.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	c.cancel()
	close(c.closedChan)

	_ = c.writer.Flush()

	return c.conn.Close()
}

// Done returns a channel that is closed when the connection is terminated.
func (c *Connection) Done() <-chan struct{} {
	return c.closedChan
}

// UpdateActivity updates the last activity timestamp and increments command count.
func (c *Connection) UpdateActivity() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.LastActivity = time.Now()
	c.Trace.CommandCount++
}

// RecordError records an error for this connection.
func (c *Connection) RecordError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.Errors = append(c.Trace.Errors, err)
}

// ErrorCount returns the number of errors recorded for this connection.
func (c *Connection) ErrorCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Trace.Errors)
}

// RecordTransaction counts a transaction that reached MAIL FROM.
func (c *Connection) RecordTransaction() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.TransactionCount++
}

// SetClientHostname sets the hostname from HELO/EHLO.
func (c *Connection) SetClientHostname(hostname string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.ClientHostname = hostname
}

// ClientHostname returns the hostname from HELO/EHLO.
func (c *Connection) ClientHostname() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Trace.ClientHostname
}

// SetReverseDNS records the PTR name of the client.
func (c *Connection) SetReverseDNS(name string, authentic bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Trace.ReverseDNS = name
	c.Trace.ReverseDNSAuthentic = authentic
}
