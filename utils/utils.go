package utils

import (
	"fmt"
	"net"
	"strings"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
)

// GetIPFromAddr extracts the IP address from a net.Addr.
func GetIPFromAddr(addr net.Addr) (net.IP, error) {
	if addr == nil {
		return nil, fmt.Errorf("address is nil")
	}

	var ip net.IP
	switch a := addr.(type) {
	case *net.TCPAddr:
		ip = a.IP
	case *net.IPAddr:
		ip = a.IP
	default:
		// Fall back to the string form ("host:port" or a bare IP)
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			host = addr.String()
		}
		ip = net.ParseIP(host)
		if ip == nil {
			return nil, fmt.Errorf("unable to extract IP from address: %v", addr)
		}
	}
	return ip, nil
}

// ContainsNonASCII reports whether s contains any byte outside US-ASCII.
func ContainsNonASCII(s string) bool {
	for _, v := range s {
		if v >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

// SplitAddress splits "local@domain" at the last '@'.
// ok is false when there is no '@' or either side is empty.
func SplitAddress(s string) (local, domain string, ok bool) {
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return "", "", false
	}
	return s[:at], s[at+1:], true
}

// GenerateID returns a new lexicographically sortable identifier (ULID).
func GenerateID() string {
	return ulid.Make().String()
}
