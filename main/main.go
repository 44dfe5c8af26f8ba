package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synqronlabs/zephpost"
	"github.com/synqronlabs/zephpost/dns"
)

var version = "0.1.0"

func main() {
	var (
		hostname    = flag.String("hostname", zephpost.DefaultHostname, "server hostname used in replies")
		debug       = flag.Bool("debug", false, "enable debug logging")
		strict      = flag.Bool("strict", false, "reject lines not terminated by CRLF")
		reverseDNS  = flag.Bool("reverse-dns", false, "look up the PTR name of connecting clients")
		nameservers = flag.String("nameservers", "", "comma separated nameservers for reverse lookups")
		grace       = flag.Duration("shutdown-timeout", 30*time.Second, "time to wait for open sessions on shutdown")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	// The listen port comes from the build: 25, or 2525 with -tags debug.

	if *showVersion {
		fmt.Printf("%s %s\n", zephpost.DefaultProduct, version)
		return
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	builder := zephpost.New(*hostname).
		Logger(logger).
		Use(zephpost.DevelopmentDefaults(logger)...).
		OnTransactionEnd(func(c *zephpost.Context) error {
			logger.Info("transaction ended",
				slog.String("conn_id", c.Envelope.ConnectionID),
				slog.String("from", c.Envelope.From.String()),
				slog.Int("recipients", len(c.Envelope.To)),
			)
			return c.Next()
		})
	if *strict {
		builder.StrictLineEndings()
	}
	if *reverseDNS {
		var servers []string
		if *nameservers != "" {
			servers = strings.Split(*nameservers, ",")
		}
		builder.ReverseDNS(dns.NewResolver(dns.ResolverConfig{Nameservers: servers}))
	}

	server, err := builder.Build()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); !errors.Is(err, zephpost.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
