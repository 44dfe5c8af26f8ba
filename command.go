package zephpost

// Command is one parsed client line. The set of variants is closed:
// Helo, Ehlo, Mail, Rcpt, Rset, Noop, Quit and Invalid.
type Command interface {
	// Verb returns the canonical verb, or "" for Invalid.
	Verb() string
	command()
}

// Helo is "HELO <domain>". Domain is lower-cased.
type Helo struct {
	Domain string
}

// Ehlo is "EHLO <domain>". Domain is lower-cased.
type Ehlo struct {
	Domain string
}

// Mail is "MAIL FROM:<address>".
type Mail struct {
	From MailboxAddress
}

// Rcpt is "RCPT TO:<address>".
type Rcpt struct {
	To MailboxAddress
}

type Rset struct{}

type Noop struct{}

type Quit struct{}

// Invalid is a line that could not be parsed. Err is never nil.
type Invalid struct {
	Err *ProtocolError
}

func (Helo) Verb() string    { return "HELO" }
func (Ehlo) Verb() string    { return "EHLO" }
func (Mail) Verb() string    { return "MAIL" }
func (Rcpt) Verb() string    { return "RCPT" }
func (Rset) Verb() string    { return "RSET" }
func (Noop) Verb() string    { return "NOOP" }
func (Quit) Verb() string    { return "QUIT" }
func (Invalid) Verb() string { return "" }

func (Helo) command()    {}
func (Ehlo) command()    {}
func (Mail) command()    {}
func (Rcpt) command()    {}
func (Rset) command()    {}
func (Noop) command()    {}
func (Quit) command()    {}
func (Invalid) command() {}
