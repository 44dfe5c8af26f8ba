package zephpost

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"

	"github.com/synqronlabs/zephpost/utils"
)

// ErrInvalidAddress is returned by ParseAddress for syntactically invalid mailboxes.
var ErrInvalidAddress = errors.New("smtp: invalid address")

// Length limits from RFC 5321 Section 4.5.3.1.
const (
	maxLocalPartLength = 64
	maxDomainLength    = 255
	maxAddressLength   = 254
)

//go:generate msgp -file=address.go -o=address_gen.go -io=false -tests=false

// MailboxAddress represents an email address as per RFC 5321 Section 4.1.2.
type MailboxAddress struct {
	// LocalPart is the portion before the @ sign.
	LocalPart string `json:"local_part" msg:"local_part"`
	// Domain is the portion after the @ sign, or an address literal.
	// It is empty for paths accepted without one, such as "postmaster".
	Domain string `json:"domain" msg:"domain"`
}

// String returns the address in "local-part@domain" form, or the bare
// local part when there is no domain.
func (m MailboxAddress) String() string {
	if m.Domain == "" {
		return m.LocalPart
	}
	return m.LocalPart + "@" + m.Domain
}

// IsZero reports whether the address is empty.
func (m MailboxAddress) IsZero() bool {
	return m.LocalPart == "" && m.Domain == ""
}

// ParseAddress parses and validates a bare "local-part@domain" mailbox
// (no angle brackets). Only ASCII addresses are accepted since SMTPUTF8 is
// not offered.
func ParseAddress(s string) (MailboxAddress, error) {
	if s == "" {
		return MailboxAddress{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}
	if len(s) > maxAddressLength {
		return MailboxAddress{}, fmt.Errorf("%w: address too long", ErrInvalidAddress)
	}
	if utils.ContainsNonASCII(s) {
		return MailboxAddress{}, fmt.Errorf("%w: non-ASCII characters", ErrInvalidAddress)
	}

	local, domain, ok := utils.SplitAddress(s)
	if !ok {
		return MailboxAddress{}, fmt.Errorf("%w: expected local-part@domain", ErrInvalidAddress)
	}
	if err := validateLocalPart(local); err != nil {
		return MailboxAddress{}, err
	}
	if err := validateDomain(domain); err != nil {
		return MailboxAddress{}, err
	}

	return MailboxAddress{LocalPart: local, Domain: domain}, nil
}

// IsValidAddress is the default address predicate used by the command parser.
func IsValidAddress(s string) bool {
	_, err := ParseAddress(s)
	return err == nil
}

// validateLocalPart accepts the dot-atom and quoted-string forms.
func validateLocalPart(local string) error {
	if len(local) > maxLocalPartLength {
		return fmt.Errorf("%w: local-part too long", ErrInvalidAddress)
	}

	if len(local) >= 2 && local[0] == '"' && local[len(local)-1] == '"' {
		return validateQuotedString(local[1 : len(local)-1])
	}

	for atom := range strings.SplitSeq(local, ".") {
		if atom == "" {
			return fmt.Errorf("%w: empty atom in local-part", ErrInvalidAddress)
		}
		for i := 0; i < len(atom); i++ {
			if !isAtext(atom[i]) {
				return fmt.Errorf("%w: invalid character %q in local-part", ErrInvalidAddress, atom[i])
			}
		}
	}
	return nil
}

// validateQuotedString checks the content between the quotes (qtextSMTP / quoted-pairSMTP).
func validateQuotedString(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			i++
			if i >= len(s) || s[i] < 32 || s[i] > 126 {
				return fmt.Errorf("%w: bad quoted-pair", ErrInvalidAddress)
			}
		case c == '"':
			return fmt.Errorf("%w: unescaped quote", ErrInvalidAddress)
		case c < 32 || c > 126:
			return fmt.Errorf("%w: control character in quoted local-part", ErrInvalidAddress)
		}
	}
	return nil
}

// validateDomain accepts a hostname or an address literal.
func validateDomain(domain string) error {
	if len(domain) > maxDomainLength {
		return fmt.Errorf("%w: domain too long", ErrInvalidAddress)
	}

	if strings.HasPrefix(domain, "[") && strings.HasSuffix(domain, "]") {
		return validateAddressLiteral(domain[1 : len(domain)-1])
	}

	if strings.HasSuffix(domain, ".") {
		return fmt.Errorf("%w: trailing dot in domain", ErrInvalidAddress)
	}
	if _, err := idna.Lookup.ToASCII(domain); err != nil {
		return fmt.Errorf("%w: domain: %v", ErrInvalidAddress, err)
	}
	return nil
}

// validateAddressLiteral accepts "[192.0.2.1]" and "[IPv6:2001:db8::1]" contents.
func validateAddressLiteral(lit string) error {
	if v6, ok := strings.CutPrefix(lit, "IPv6:"); ok {
		ip := net.ParseIP(v6)
		if ip == nil || !strings.Contains(v6, ":") {
			return fmt.Errorf("%w: bad IPv6 literal", ErrInvalidAddress)
		}
		return nil
	}

	ip := net.ParseIP(lit)
	if ip == nil || ip.To4() == nil || strings.Contains(lit, ":") {
		return fmt.Errorf("%w: bad IPv4 literal", ErrInvalidAddress)
	}
	return nil
}

// isAtext reports whether c is an RFC 5322 atext character.
func isAtext(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$%&'*+-/=?^_`{|}~", c) >= 0
}
