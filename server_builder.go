package zephpost

import (
	"context"
	"log/slog"
	"time"

	"github.com/synqronlabs/zephpost/dns"
)

// eventKey holds the hook name in a Context.
const eventKey = "event"

// ServerBuilder provides a fluent API for configuring an SMTP server.
type ServerBuilder struct {
	hostname          string
	product           string
	addr              string
	logger            *slog.Logger
	readTimeout       time.Duration
	writeTimeout      time.Duration
	maxLineLength     int
	strictLineEndings bool
	validate          func(string) bool
	resolver          dns.Resolver
	onConnect         []HandlerFunc
	onDisconnect      []HandlerFunc
	onTransactionEnd  []HandlerFunc
	middleware        []Middleware
}

// New creates a new ServerBuilder with the given hostname.
// An empty hostname falls back to DefaultHostname.
//
// Example:
//
//	server, err := zephpost.New("mail.example.com").
//	    Addr(":2525").
//	    OnTransactionEnd(func(c *zephpost.Context) error {
//	        log.Println(c.Envelope.From)
//	        return nil
//	    }).
//	    Build()
func New(hostname string) *ServerBuilder {
	if hostname == "" {
		hostname = DefaultHostname
	}
	return &ServerBuilder{
		hostname: hostname,
		product:  DefaultProduct,
		addr:     DefaultAddr,
		logger:   slog.Default(),
	}
}

// Addr sets the listen address.
func (b *ServerBuilder) Addr(addr string) *ServerBuilder {
	b.addr = addr
	return b
}

// Product sets the name announced in the greeting.
func (b *ServerBuilder) Product(product string) *ServerBuilder {
	b.product = product
	return b
}

// Logger sets the logger.
func (b *ServerBuilder) Logger(logger *slog.Logger) *ServerBuilder {
	b.logger = logger
	return b
}

// ReadTimeout sets the idle timeout between client lines.
func (b *ServerBuilder) ReadTimeout(d time.Duration) *ServerBuilder {
	b.readTimeout = d
	return b
}

// WriteTimeout sets the timeout for writing a reply.
func (b *ServerBuilder) WriteTimeout(d time.Duration) *ServerBuilder {
	b.writeTimeout = d
	return b
}

// MaxLineLength sets the longest accepted command line.
func (b *ServerBuilder) MaxLineLength(n int) *ServerBuilder {
	b.maxLineLength = n
	return b
}

// StrictLineEndings rejects lines not terminated by CRLF.
func (b *ServerBuilder) StrictLineEndings() *ServerBuilder {
	b.strictLineEndings = true
	return b
}

// Validate sets the predicate used to accept MAIL FROM and RCPT TO paths.
func (b *ServerBuilder) Validate(fn func(string) bool) *ServerBuilder {
	b.validate = fn
	return b
}

// ReverseDNS enables reverse lookups of connecting clients.
func (b *ServerBuilder) ReverseDNS(resolver dns.Resolver) *ServerBuilder {
	b.resolver = resolver
	return b
}

// Use adds middleware that wraps every hook handler.
func (b *ServerBuilder) Use(middleware ...Middleware) *ServerBuilder {
	b.middleware = append(b.middleware, middleware...)
	return b
}

// OnConnect adds handlers run after a client connects, before the greeting.
func (b *ServerBuilder) OnConnect(handlers ...HandlerFunc) *ServerBuilder {
	b.onConnect = append(b.onConnect, handlers...)
	return b
}

// OnDisconnect adds handlers run after a client connection is closed.
func (b *ServerBuilder) OnDisconnect(handlers ...HandlerFunc) *ServerBuilder {
	b.onDisconnect = append(b.onDisconnect, handlers...)
	return b
}

// OnTransactionEnd adds handlers run with the envelope of every transaction
// that is abandoned or left open when the connection ends.
func (b *ServerBuilder) OnTransactionEnd(handlers ...HandlerFunc) *ServerBuilder {
	b.onTransactionEnd = append(b.onTransactionEnd, handlers...)
	return b
}

// Build creates the server.
func (b *ServerBuilder) Build() (*Server, error) {
	config := ServerConfig{
		Hostname:          b.hostname,
		Product:           b.product,
		Addr:              b.addr,
		ReadTimeout:       b.readTimeout,
		WriteTimeout:      b.writeTimeout,
		MaxLineLength:     b.maxLineLength,
		StrictLineEndings: b.strictLineEndings,
		Validate:          b.validate,
		Resolver:          b.resolver,
		Logger:            b.logger,
		Callbacks:         b.buildCallbacks(),
	}
	return NewServer(config)
}

// Run builds and starts the server.
// This is a convenience method equivalent to Build() followed by ListenAndServe().
func (b *ServerBuilder) Run() error {
	server, err := b.Build()
	if err != nil {
		return err
	}
	return server.ListenAndServe()
}

// buildCallbacks creates the Callbacks struct from the handler chains.
func (b *ServerBuilder) buildCallbacks() *Callbacks {
	cb := &Callbacks{}

	// Wrap handlers with global middleware
	wrapHandlers := func(handlers []HandlerFunc) []HandlerFunc {
		wrapped := make([]HandlerFunc, len(handlers))
		for i, h := range handlers {
			finalHandler := h
			// Apply middleware in reverse order
			for j := len(b.middleware) - 1; j >= 0; j-- {
				finalHandler = b.middleware[j](finalHandler)
			}
			wrapped[i] = finalHandler
		}
		return wrapped
	}

	if len(b.onConnect) > 0 {
		handlers := wrapHandlers(b.onConnect)
		cb.OnConnect = func(ctx context.Context, conn *Connection) {
			c := newContext(conn, handlers)
			c.Set(eventKey, "connect")
			_ = c.Next()
		}
	}

	if len(b.onDisconnect) > 0 {
		handlers := wrapHandlers(b.onDisconnect)
		cb.OnDisconnect = func(ctx context.Context, conn *Connection) {
			c := newContext(conn, handlers)
			c.Set(eventKey, "disconnect")
			_ = c.Next()
		}
	}

	if len(b.onTransactionEnd) > 0 {
		handlers := wrapHandlers(b.onTransactionEnd)
		cb.OnTransactionEnd = func(ctx context.Context, conn *Connection, env Envelope) {
			c := newContext(conn, handlers)
			c.Envelope = &env
			c.Set(eventKey, "transaction_end")
			_ = c.Next()
		}
	}

	return cb
}
