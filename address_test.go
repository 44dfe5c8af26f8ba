package zephpost

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    MailboxAddress
		wantErr bool
	}{
		{"simple", "user@example.com", MailboxAddress{"user", "example.com"}, false},
		{"dots and plus", "first.last+tag@mail.example.com", MailboxAddress{"first.last+tag", "mail.example.com"}, false},
		{"single label domain", "postmaster@localhost", MailboxAddress{"postmaster", "localhost"}, false},
		{"quoted local part", `"odd@local"@example.com`, MailboxAddress{`"odd@local"`, "example.com"}, false},
		{"quoted pair", `"a\"b"@example.com`, MailboxAddress{`"a\"b"`, "example.com"}, false},
		{"ipv4 literal", "user@[192.0.2.1]", MailboxAddress{"user", "[192.0.2.1]"}, false},
		{"ipv6 literal", "user@[IPv6:2001:db8::1]", MailboxAddress{"user", "[IPv6:2001:db8::1]"}, false},

		{"empty", "", MailboxAddress{}, true},
		{"no at", "user", MailboxAddress{}, true},
		{"empty local part", "@example.com", MailboxAddress{}, true},
		{"empty domain", "user@", MailboxAddress{}, true},
		{"leading dot", ".user@example.com", MailboxAddress{}, true},
		{"double dot", "us..er@example.com", MailboxAddress{}, true},
		{"bad local char", "us(er@example.com", MailboxAddress{}, true},
		{"unescaped quote", `"a"b"@example.com`, MailboxAddress{}, true},
		{"non ascii", "üser@example.com", MailboxAddress{}, true},
		{"bad domain char", "user@bad!domain.com", MailboxAddress{}, true},
		{"trailing dot domain", "user@example.com.", MailboxAddress{}, true},
		{"bad ipv4 literal", "user@[300.1.1.1]", MailboxAddress{}, true},
		{"ipv6 without tag", "user@[2001:db8::1]", MailboxAddress{}, true},
		{"bad ipv6 literal", "user@[IPv6:192.0.2.1]", MailboxAddress{}, true},
		{"local part too long", strings.Repeat("a", 65) + "@example.com", MailboxAddress{}, true},
		{"address too long", "a@" + strings.Repeat("b", 253), MailboxAddress{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAddress(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAddress(%q) = %v, want error", tc.input, got)
				}
				if !errors.Is(err, ErrInvalidAddress) {
					t.Errorf("error %v does not wrap ErrInvalidAddress", err)
				}
				if IsValidAddress(tc.input) {
					t.Errorf("IsValidAddress(%q) = true", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAddress(%q) error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseAddress(%q) = %#v, want %#v", tc.input, got, tc.want)
			}
			if !IsValidAddress(tc.input) {
				t.Errorf("IsValidAddress(%q) = false", tc.input)
			}
		})
	}
}

func TestMailboxAddress_String(t *testing.T) {
	if got := (MailboxAddress{"user", "example.com"}).String(); got != "user@example.com" {
		t.Errorf("String() = %q", got)
	}
	if got := (MailboxAddress{LocalPart: "postmaster"}).String(); got != "postmaster" {
		t.Errorf("String() without domain = %q", got)
	}
	var zero MailboxAddress
	if zero.String() != "" || !zero.IsZero() {
		t.Errorf("zero address: String() = %q, IsZero() = %v", zero.String(), zero.IsZero())
	}
}
