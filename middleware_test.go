package zephpost

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"testing"
)

func newPipeConnection(t *testing.T) *Connection {
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	conn := NewConnection(context.Background(), server, 512)
	conn.Trace.ID = "test-conn"
	return conn
}

func TestContext_Chain(t *testing.T) {
	conn := newPipeConnection(t)

	var order []string
	handlers := []HandlerFunc{
		func(c *Context) error {
			order = append(order, "first")
			c.Set("key", "value")
			return nil
		},
		func(c *Context) error {
			order = append(order, "second:"+c.GetString("key"))
			c.Abort()
			return nil
		},
		func(c *Context) error {
			order = append(order, "third")
			return nil
		},
	}

	if err := newContext(conn, handlers).Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := strings.Join(order, ","); got != "first,second:value" {
		t.Errorf("order = %s", got)
	}
}

func TestContext_ErrorStopsChain(t *testing.T) {
	conn := newPipeConnection(t)
	boom := errors.New("boom")

	called := false
	handlers := []HandlerFunc{
		func(c *Context) error { return boom },
		func(c *Context) error { called = true; return nil },
	}

	if err := newContext(conn, handlers).Next(); !errors.Is(err, boom) {
		t.Errorf("Next() = %v, want %v", err, boom)
	}
	if called {
		t.Error("handler after error was called")
	}
}

func TestContext_Keys(t *testing.T) {
	c := newContext(newPipeConnection(t), nil)
	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty context reported a value")
	}
	c.Set("n", 42)
	if c.GetString("n") != "" {
		t.Error("GetString returned a non-string value")
	}
	if c.MustGet("n") != 42 {
		t.Error("MustGet returned wrong value")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet on missing key did not panic")
		}
	}()
	c.MustGet("missing")
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Recovery(logger)(func(c *Context) error {
		panic("hook exploded")
	})

	c := newContext(newPipeConnection(t), []HandlerFunc{h})
	c.Set(eventKey, "connect")
	if err := c.Next(); err == nil {
		t.Fatal("expected error from recovered panic")
	}
	out := buf.String()
	if !strings.Contains(out, "panic recovered") || !strings.Contains(out, "event=connect") {
		t.Errorf("log output = %q", out)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	failing := Logger(logger)(func(c *Context) error {
		return errors.New("rejected")
	})
	ok := Logger(logger)(func(c *Context) error { return nil })

	conn := newPipeConnection(t)
	_ = newContext(conn, []HandlerFunc{ok}).Next()
	_ = newContext(conn, []HandlerFunc{failing}).Next()

	out := buf.String()
	if !strings.Contains(out, "handler completed") {
		t.Errorf("missing debug line in %q", out)
	}
	if !strings.Contains(out, "handler error") || !strings.Contains(out, "conn_id=test-conn") {
		t.Errorf("missing error line in %q", out)
	}
}
