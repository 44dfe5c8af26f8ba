package zephpost

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	zio "github.com/synqronlabs/zephpost/io"
)

// commandLoop reads, parses and answers client lines until the connection
// has to end.
func (s *Server) commandLoop(conn *Connection, logger *slog.Logger) {
	for {
		if s.signal.Closed() {
			s.writeShutdown(conn, logger)
			return
		}

		var deadline time.Time
		if s.config.ReadTimeout > 0 {
			deadline = time.Now().Add(s.config.ReadTimeout)
		}
		if err := conn.conn.SetReadDeadline(deadline); err != nil {
			logger.Warn("set read deadline", slog.Any("error", err))
			return
		}
		// The shutdown watcher may have fired before the deadline was reset.
		if s.signal.Closed() {
			s.writeShutdown(conn, logger)
			return
		}

		line, err := zio.ReadLine(conn.reader, s.config.MaxLineLength, s.config.StrictLineEndings)
		if err != nil {
			if errors.Is(err, zio.ErrLineTooLong) || errors.Is(err, zio.ErrBadLineEnding) {
				conn.UpdateActivity()
				conn.RecordError(err)
				logger.Info("malformed line", slog.Any("error", err))
				if werr := s.writeResponse(conn, ErrUnrecognizedCommand.Response()); werr != nil {
					logger.Warn("write error", slog.Any("error", werr))
					return
				}
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				if !s.signal.Closed() {
					logger.Info("idle timeout")
				}
				s.writeShutdown(conn, logger)
				return
			}
			logger.Warn("read error", slog.Any("error", err))
			return
		}

		conn.UpdateActivity()
		logger.Debug("line received", slog.String("line", line))

		cmd := s.parser.Parse(line)
		if inv, ok := cmd.(Invalid); ok {
			conn.RecordError(inv.Err)
			logger.Info("malformed line",
				slog.String("line", line),
				slog.String("error", inv.Err.Error()),
			)
		}

		if quit := s.handleCommand(conn, cmd, logger); quit {
			return
		}
	}
}

// handleCommand applies cmd to the session, fires hooks and writes the
// reply. It reports whether the connection must end.
func (s *Server) handleCommand(conn *Connection, cmd Command, logger *slog.Logger) bool {
	session := conn.Session()
	open := session.Sender != nil

	// Abandoned transactions are reported before the session forgets them.
	switch cmd.(type) {
	case Helo, Ehlo, Mail, Rset:
		if open {
			s.endTransaction(conn)
		}
	}

	tr := session.Apply(cmd, s.config.Hostname)

	switch c := cmd.(type) {
	case Helo:
		conn.SetClientHostname(c.Domain)
	case Ehlo:
		conn.SetClientHostname(c.Domain)
	case Mail:
		if tr.Response.IsSuccess() {
			conn.RecordTransaction()
		}
	}
	if tr.Response.Code == CodeBadSequence {
		conn.RecordError(ErrBadSequence)
		logger.Info("bad sequence", slog.String("cmd", cmd.Verb()), slog.String("state", session.State().String()))
	}

	if err := s.writeResponse(conn, tr.Response); err != nil {
		logger.Warn("write error", slog.Any("error", err))
		return true
	}
	return tr.Quit
}

// endTransaction reports the open transaction, if any, to OnTransactionEnd.
func (s *Server) endTransaction(conn *Connection) {
	if s.config.Callbacks == nil || s.config.Callbacks.OnTransactionEnd == nil {
		return
	}
	env, ok := conn.Session().Envelope()
	if !ok {
		return
	}
	env.ConnectionID = conn.Trace.ID
	s.config.Callbacks.OnTransactionEnd(conn.Context(), conn, env)
}

// writeShutdown sends the 421 shutdown notice. Failures are ignored since
// the connection is closing anyway.
func (s *Server) writeShutdown(conn *Connection, logger *slog.Logger) {
	if err := s.writeResponse(conn, ErrShutdown(s.config.Hostname).Response()); err != nil {
		logger.Debug("shutdown notice not delivered", slog.Any("error", err))
	}
}

// writeResponse sends a single reply line to the client.
func (s *Server) writeResponse(conn *Connection, resp Response) error {
	var deadline time.Time
	if s.config.WriteTimeout > 0 {
		deadline = time.Now().Add(s.config.WriteTimeout)
	}
	if err := conn.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	if _, err := conn.writer.WriteString(resp.String() + "\r\n"); err != nil {
		conn.RecordError(err)
		return err
	}
	if err := conn.writer.Flush(); err != nil {
		conn.RecordError(err)
		return err
	}
	return nil
}
