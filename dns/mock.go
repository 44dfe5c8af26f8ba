package dns

import (
	"context"
	"net"
	"slices"
)

// MockResolver is a Resolver used for testing.
// PTR maps IP strings to PTR names (with trailing dot).
type MockResolver struct {
	PTR map[string][]string

	// Fail contains IPs whose lookup returns a temporary error (SERVFAIL).
	Fail []string

	// AllAuthentic sets Authentic on every response.
	AllAuthentic bool
}

var _ Resolver = MockResolver{}

// LookupAddr performs a reverse DNS lookup.
func (r MockResolver) LookupAddr(ctx context.Context, ip net.IP) (Result[string], error) {
	result := Result[string]{Authentic: r.AllAuthentic}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	ipStr := ip.String()
	if slices.Contains(r.Fail, ipStr) {
		return result, ErrDNSServFail
	}

	records, ok := r.PTR[ipStr]
	if !ok || len(records) == 0 {
		return result, ErrDNSNotFound
	}

	result.Records = records
	return result, nil
}
