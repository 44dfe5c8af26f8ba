// Package zephpost implements the envelope negotiation front end of a
// minimal SMTP server (RFC 5321).
//
// A session walks through HELO/EHLO, MAIL FROM and RCPT TO; every client
// line is parsed into a Command, applied to the connection's Session and
// answered with exactly one reply. Message transfer (DATA), relaying,
// authentication and TLS are out of scope.
//
// # Quick Start
//
//	server, err := zephpost.New("mail.example.com").
//	    Addr(":2525").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.ListenAndServe(); err != zephpost.ErrServerClosed {
//	    log.Fatal(err)
//	}
//
// # Hooks
//
// Hooks observe the session; they never change replies:
//
//	zephpost.New("mail.example.com").
//	    Use(zephpost.Recovery(logger), zephpost.Logger(logger)).
//	    OnConnect(func(c *zephpost.Context) error {
//	        return c.Next()
//	    }).
//	    OnTransactionEnd(func(c *zephpost.Context) error {
//	        data, err := c.Envelope.ToMessagePack()
//	        ...
//	        return c.Next()
//	    })
//
// # Shutdown
//
// Close stops the accept loop. Each open session notices the shutdown on
// its own, answers
//
//	421 <hostname> Service not available, closing transmission channel
//
// and disconnects. Shutdown additionally waits for those sessions.
//
// # Parsing
//
// Parse can be used on its own:
//
//	switch cmd := zephpost.Parse("MAIL FROM:<alice@example.com>").(type) {
//	case zephpost.Mail:
//	    fmt.Println(cmd.From)
//	case zephpost.Invalid:
//	    fmt.Println(cmd.Err) // e.g. "501 SyntaxError: Wrong parameters or arguments"
//	}
package zephpost
