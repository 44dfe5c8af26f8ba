package zephpost

// SessionState is the protocol state of a Session, derived from its fields.
type SessionState int

const (
	// StateInitial is the state before HELO/EHLO.
	StateInitial SessionState = iota
	// StateGreeted indicates HELO/EHLO has been accepted.
	StateGreeted
	// StateSenderSet indicates MAIL FROM has been accepted.
	StateSenderSet
	// StateRecipientsSet indicates at least one RCPT TO has been accepted.
	StateRecipientsSet
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateGreeted:
		return "GREETED"
	case StateSenderSet:
		return "SENDER_SET"
	case StateRecipientsSet:
		return "RECIPIENTS_SET"
	default:
		return "UNKNOWN"
	}
}

// Session is the envelope negotiation state of one connection.
// It is owned by the connection's handler and is not safe for concurrent use.
type Session struct {
	Greeted    bool
	Sender     *MailboxAddress
	Recipients []MailboxAddress
	// Data is reserved for message content and stays empty.
	Data []byte

	// helo is the last domain given in HELO/EHLO.
	helo string
}

// Transition is the outcome of applying one command.
type Transition struct {
	Response Response
	// Quit is set when the connection must be closed after the reply.
	Quit bool
}

// State returns the current protocol state.
func (s *Session) State() SessionState {
	switch {
	case !s.Greeted:
		return StateInitial
	case s.Sender == nil:
		return StateGreeted
	case len(s.Recipients) == 0:
		return StateSenderSet
	default:
		return StateRecipientsSet
	}
}

// Helo returns the domain from the last accepted HELO/EHLO.
func (s *Session) Helo() string {
	return s.helo
}

// Reset clears the transaction but keeps the greeting.
func (s *Session) Reset() {
	s.Sender = nil
	s.Recipients = nil
	s.Data = nil
}

// Apply advances the session by one command and returns the reply to send.
// hostname is the server name used in the HELO/EHLO reply.
func (s *Session) Apply(cmd Command, hostname string) Transition {
	switch c := cmd.(type) {
	case Helo:
		return s.greet(c.Domain, hostname)
	case Ehlo:
		return s.greet(c.Domain, hostname)

	case Mail:
		if !s.Greeted {
			return rejected(ErrBadSequence)
		}
		if s.Sender != nil {
			s.Reset()
		}
		from := c.From
		s.Sender = &from
		return accepted()

	case Rcpt:
		if s.Sender == nil {
			return rejected(ErrBadSequence)
		}
		s.Recipients = append(s.Recipients, c.To)
		return accepted()

	case Rset:
		s.Reset()
		return accepted()

	case Noop:
		return accepted()

	case Quit:
		return Transition{Response: ResponseServiceClosing("Bye"), Quit: true}

	case Invalid:
		if c.Err == nil {
			return rejected(ErrUnrecognizedCommand)
		}
		return rejected(c.Err)
	}

	// Foreign Command implementations cannot exist outside this package.
	return rejected(ErrUnrecognizedCommand)
}

func (s *Session) greet(domain, hostname string) Transition {
	if s.Greeted {
		s.Reset()
	}
	s.Greeted = true
	s.helo = domain
	return Transition{Response: ResponseOK(hostname)}
}

// Envelope returns a snapshot of the open transaction, or false if no
// sender has been accepted.
func (s *Session) Envelope() (Envelope, bool) {
	if s.Sender == nil {
		return Envelope{}, false
	}
	to := make([]MailboxAddress, len(s.Recipients))
	copy(to, s.Recipients)
	return Envelope{Helo: s.helo, From: *s.Sender, To: to}, true
}

func accepted() Transition {
	return Transition{Response: ResponseOK("OK")}
}

func rejected(err *ProtocolError) Transition {
	return Transition{Response: err.Response()}
}
