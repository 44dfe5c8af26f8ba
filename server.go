package zephpost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/synqronlabs/zephpost/dns"
	"github.com/synqronlabs/zephpost/utils"
)

// Server is an SMTP server that handles concurrent connections.
type Server struct {
	config ServerConfig
	parser Parser

	// mu guards listener and orders handler registration against Shutdown.
	mu        sync.Mutex
	listener  net.Listener
	connCount atomic.Int64

	// shutdown coordination
	signal     *Signal
	ctx        context.Context
	cancel     context.CancelFunc
	shutdownWg sync.WaitGroup
}

// NewServer creates a new SMTP server with the given configuration.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Hostname == "" {
		return nil, ErrHostnameRequired
	}

	// Apply defaults
	defaults := DefaultServerConfig()
	if config.Product == "" {
		config.Product = defaults.Product
	}
	if config.Addr == "" {
		config.Addr = defaults.Addr
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.MaxLineLength == 0 {
		config.MaxLineLength = defaults.MaxLineLength
	}
	if config.Validate == nil {
		config.Validate = defaults.Validate
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config: config,
		parser: Parser{Validate: config.Validate},
		signal: NewSignal(),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Hostname returns the name the server uses in replies.
func (s *Server) Hostname() string {
	return s.config.Hostname
}

// ActiveConnections returns the number of connections being served.
func (s *Server) ActiveConnections() int64 {
	return s.connCount.Load()
}

// Addr returns the listener address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds an IPv4 TCP listener on the configured address and
// serves it.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp4", s.config.Addr)
	if err != nil {
		return fmt.Errorf("smtp: failed to listen: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on the listener and handles each on its own
// goroutine. It always closes the listener and returns ErrServerClosed once
// the server has been closed.
func (s *Server) Serve(listener net.Listener) error {
	if !s.signal.Open() {
		_ = listener.Close()
		return ErrServerClosed
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-s.signal.Done():
			_ = listener.Close()
		case <-stop:
		}
	}()

	s.config.Logger.Info("SMTP server started",
		slog.String("addr", listener.Addr().String()),
		slog.String("hostname", s.config.Hostname),
	)

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.signal.Closed() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.config.Logger.Error("accept error", slog.Any("error", err))
			continue
		}

		s.mu.Lock()
		if s.signal.Closed() {
			s.mu.Unlock()
			s.refuse(conn)
			return ErrServerClosed
		}
		s.shutdownWg.Add(1)
		s.mu.Unlock()

		go s.handleConnection(conn)
	}
}

// refuse answers a connection accepted during shutdown and closes it.
func (s *Server) refuse(conn net.Conn) {
	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))
	_, _ = conn.Write([]byte(ErrShutdown(s.config.Hostname).Error() + "\r\n"))
	_ = conn.Close()
}

// Close stops accepting connections. Handlers notice the closed signal on
// their own, send the 421 shutdown reply and disconnect.
func (s *Server) Close() error {
	s.signal.Close()
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	return nil
}

// Shutdown closes the server and waits for all handlers to finish or for
// ctx to expire. Connections are never closed forcibly.
func (s *Server) Shutdown(ctx context.Context) error {
	_ = s.Close()

	done := make(chan struct{})
	go func() {
		s.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleConnection serves a single client connection until it quits,
// fails, times out or the server shuts down.
func (s *Server) handleConnection(netConn net.Conn) {
	defer s.shutdownWg.Done()

	s.connCount.Add(1)
	defer s.connCount.Add(-1)

	conn := NewConnection(s.ctx, netConn, s.config.MaxLineLength)
	conn.Trace.ID = utils.GenerateID()

	logger := s.config.Logger.With(
		slog.String("conn_id", conn.Trace.ID),
		slog.String("remote", conn.RemoteAddr().String()),
	)

	defer func() {
		s.endTransaction(conn)
		_ = conn.Close()

		if s.config.Callbacks != nil && s.config.Callbacks.OnDisconnect != nil {
			s.config.Callbacks.OnDisconnect(conn.Context(), conn)
		}

		logger.Info("client disconnected",
			slog.Int64("commands", conn.Trace.CommandCount),
			slog.Int("errors", conn.ErrorCount()),
			slog.Int64("transactions", conn.Trace.TransactionCount),
		)
	}()

	// Wake a blocked read as soon as the server shuts down.
	go func() {
		select {
		case <-s.signal.Done():
			_ = netConn.SetReadDeadline(time.Now())
		case <-conn.Done():
		}
	}()

	if s.config.Resolver != nil {
		s.lookupClient(conn, logger)
	}

	logger.Info("client connected",
		slog.String("reverse_dns", conn.Trace.ReverseDNS),
		slog.Bool("reverse_dns_authentic", conn.Trace.ReverseDNSAuthentic),
	)

	if s.config.Callbacks != nil && s.config.Callbacks.OnConnect != nil {
		s.config.Callbacks.OnConnect(conn.Context(), conn)
	}

	greeting := ResponseServiceReady(s.config.Hostname, "ESMTP "+s.config.Product)
	if err := s.writeResponse(conn, greeting); err != nil {
		logger.Warn("write error", slog.Any("error", err))
		return
	}

	s.commandLoop(conn, logger)
}

func (s *Server) lookupClient(conn *Connection, logger *slog.Logger) {
	name, authentic, err := dns.ReverseName(conn.Context(), s.config.Resolver, conn.RemoteAddr())
	if err != nil {
		logger.Debug("reverse lookup failed", slog.Any("error", err))
		return
	}
	conn.SetReverseDNS(name, authentic)
}
