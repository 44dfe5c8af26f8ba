package zephpost

import (
	"strings"

	"github.com/synqronlabs/zephpost/utils"
)

// Parser turns a single client line into a Command.
// Validate decides whether an extracted path is an acceptable mailbox;
// when nil, IsValidAddress is used.
type Parser struct {
	Validate func(string) bool
}

var defaultParser = Parser{Validate: IsValidAddress}

// Parse parses line using the default address validator.
func Parse(line string) Command {
	return defaultParser.Parse(line)
}

// Parse parses line into a Command. It never fails: anything that is not a
// well-formed command comes back as Invalid with the matching error kind.
// Trailing CR and LF are ignored.
func (p Parser) Parse(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	tokens := strings.Split(line, " ")
	verb := canonicalizeVerb(tokens[0])
	args := tokens[1:]

	switch verb {
	case "HELO", "EHLO":
		if len(args) != 1 || args[0] == "" {
			return Invalid{Err: ErrWrongArgument}
		}
		domain := strings.ToLower(args[0])
		if verb == "HELO" {
			return Helo{Domain: domain}
		}
		return Ehlo{Domain: domain}

	case "MAIL":
		if len(args) == 0 {
			return Invalid{Err: ErrWrongArgument}
		}
		addr, ok := p.mailbox(args[0], "FROM:")
		if !ok {
			return Invalid{Err: ErrWrongArgument}
		}
		if len(args) > 1 {
			return Invalid{Err: ErrUnrecognizedMailParameter}
		}
		return Mail{From: addr}

	case "RCPT":
		if len(args) != 1 {
			return Invalid{Err: ErrWrongArgument}
		}
		addr, ok := p.mailbox(args[0], "TO:")
		if !ok {
			return Invalid{Err: ErrWrongArgument}
		}
		return Rcpt{To: addr}

	case "RSET":
		if len(args) != 0 {
			return Invalid{Err: ErrWrongArgument}
		}
		return Rset{}

	case "NOOP":
		return Noop{}

	case "QUIT":
		return Quit{}
	}

	return Invalid{Err: ErrUnrecognizedCommand}
}

func (p Parser) mailbox(token, prefix string) (MailboxAddress, bool) {
	path, ok := extractPath(token, prefix)
	if !ok {
		return MailboxAddress{}, false
	}
	validate := p.Validate
	if validate == nil {
		validate = IsValidAddress
	}
	if !validate(path) {
		return MailboxAddress{}, false
	}
	// Paths without a domain part (postmaster, the null path) are kept
	// whole in LocalPart.
	local, domain, ok := utils.SplitAddress(path)
	if !ok {
		return MailboxAddress{LocalPart: path}, true
	}
	return MailboxAddress{LocalPart: local, Domain: domain}, true
}

// canonicalizeVerb upper-cases a known verb using ASCII case folding only.
// Unknown verbs come back as "".
func canonicalizeVerb(verb string) string {
	if len(verb) != 4 || utils.ContainsNonASCII(verb) {
		return ""
	}
	for _, known := range [...]string{"HELO", "EHLO", "MAIL", "RCPT", "RSET", "NOOP", "QUIT"} {
		if strings.EqualFold(verb, known) {
			return known
		}
	}
	return ""
}

// extractPath returns the text between the angle brackets of a
// "<prefix><path>" token. The prefix match ignores case.
func extractPath(token, prefix string) (string, bool) {
	n := len(prefix)
	if len(token) < n+2 {
		return "", false
	}
	if !strings.EqualFold(token[:n], prefix) {
		return "", false
	}
	if token[n] != '<' || token[len(token)-1] != '>' {
		return "", false
	}
	return token[n+1 : len(token)-1], true
}
