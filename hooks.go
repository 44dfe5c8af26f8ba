package zephpost

// HandlerFunc is the function signature for hook handlers.
// A returned error stops the chain and is reported by the Logger middleware;
// it never changes the reply sent to the client.
type HandlerFunc func(ctx *Context) error

// Middleware wraps handlers to add functionality.
type Middleware func(HandlerFunc) HandlerFunc

// Context provides event-scoped values and methods for handlers.
type Context struct {
	Connection *Connection
	// Envelope is set for OnTransactionEnd handlers.
	Envelope *Envelope
	Keys     map[string]any
	handlers []HandlerFunc
	index    int
}

func newContext(conn *Connection, handlers []HandlerFunc) *Context {
	return &Context{Connection: conn, handlers: handlers, index: -1}
}

// Set stores a value in the context for later retrieval.
func (c *Context) Set(key string, value any) {
	if c.Keys == nil {
		c.Keys = make(map[string]any)
	}
	c.Keys[key] = value
}

// Get retrieves a value from the context.
func (c *Context) Get(key string) (any, bool) {
	if c.Keys == nil {
		return nil, false
	}
	val, ok := c.Keys[key]
	return val, ok
}

// MustGet retrieves a value or panics if not found.
func (c *Context) MustGet(key string) any {
	val, ok := c.Get(key)
	if !ok {
		panic("Key \"" + key + "\" does not exist in context")
	}
	return val
}

// GetString retrieves a string value from the context.
func (c *Context) GetString(key string) string {
	if val, ok := c.Get(key); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// Next executes the next handler in the chain.
func (c *Context) Next() error {
	c.index++
	for c.index < len(c.handlers) {
		if err := c.handlers[c.index](c); err != nil {
			return err
		}
		c.index++
	}
	return nil
}

// Abort stops the handler chain execution.
func (c *Context) Abort() {
	c.index = len(c.handlers)
}

// RemoteAddr returns the client's remote address as a string.
func (c *Context) RemoteAddr() string {
	return c.Connection.RemoteAddr().String()
}

// ClientHostname returns the hostname provided in HELO/EHLO.
func (c *Context) ClientHostname() string {
	return c.Connection.ClientHostname()
}

// State returns the session state of the connection.
func (c *Context) State() SessionState {
	return c.Connection.State()
}
