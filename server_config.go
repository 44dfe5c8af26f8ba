package zephpost

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/synqronlabs/zephpost/dns"
)

const (
	// DefaultHostname is used in replies when none is configured.
	DefaultHostname = "smtp.example.com"
	// DefaultProduct is the name announced in the greeting.
	DefaultProduct = "ZephPost"
)

// DefaultAddr listens on every IPv4 interface at DefaultPort.
var DefaultAddr = fmt.Sprintf("0.0.0.0:%d", DefaultPort)

// ServerConfig contains configuration options for the SMTP server.
// Prefer using the builder pattern via zephpost.New().
type ServerConfig struct {
	Hostname string
	// Product is announced after "ESMTP" in the greeting.
	Product string
	Addr    string
	// ReadTimeout bounds how long a connection may stay idle between lines.
	// A negative value disables it.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MaxLineLength is the longest accepted line, CRLF included.
	MaxLineLength int
	// StrictLineEndings rejects lines terminated by a bare LF.
	StrictLineEndings bool
	// Validate checks MAIL FROM and RCPT TO paths. Defaults to IsValidAddress.
	Validate func(string) bool
	// Resolver, when set, is used to look up the client's reverse DNS name
	// on connect. The result is only recorded in the connection trace.
	Resolver  dns.Resolver
	Logger    *slog.Logger
	Callbacks *Callbacks
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Hostname:      DefaultHostname,
		Product:       DefaultProduct,
		Addr:          DefaultAddr,
		ReadTimeout:   5 * time.Minute,
		WriteTimeout:  5 * time.Minute,
		MaxLineLength: 512,
		Validate:      IsValidAddress,
		Logger:        slog.Default(),
	}
}

// Callbacks defines event handlers for SMTP server events.
// All callbacks are optional. They observe the session and cannot change
// the replies sent to the client.
type Callbacks struct {
	OnConnect    func(ctx context.Context, conn *Connection)
	OnDisconnect func(ctx context.Context, conn *Connection)
	// OnTransactionEnd is called with the envelope of a transaction that
	// was abandoned by RSET, a new MAIL, a new HELO/EHLO or the end of the
	// connection.
	OnTransactionEnd func(ctx context.Context, conn *Connection, env Envelope)
}
