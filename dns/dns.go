// Package dns provides the reverse lookups used to annotate connection traces.
package dns

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/synqronlabs/zephpost/utils"
)

// DNS errors.
var (
	ErrDNSNotFound = errors.New("dns: record not found")
	ErrDNSTimeout  = errors.New("dns: query timeout")
	ErrDNSServFail = errors.New("dns: server failure")
	ErrDNSRefused  = errors.New("dns: query refused")
)

// Result holds the records returned by a lookup.
type Result[T any] struct {
	Records []T
	// Authentic is set when the answer carried the AD bit.
	Authentic bool
}

// Resolver performs reverse DNS lookups.
type Resolver interface {
	LookupAddr(ctx context.Context, ip net.IP) (Result[string], error)
}

// IsNotFound reports whether err is ErrDNSNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDNSNotFound)
}

// IsTimeout reports whether err is ErrDNSTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrDNSTimeout)
}

// IsServFail reports whether err is ErrDNSServFail.
func IsServFail(err error) bool {
	return errors.Is(err, ErrDNSServFail)
}

// IsTemporary reports whether a retry might succeed.
func IsTemporary(err error) bool {
	return IsTimeout(err) || IsServFail(err)
}

// ReverseName returns the first PTR name for addr, without the trailing dot,
// and whether the answer was DNSSEC-authenticated.
func ReverseName(ctx context.Context, r Resolver, addr net.Addr) (name string, authentic bool, err error) {
	ip, err := utils.GetIPFromAddr(addr)
	if err != nil {
		return "", false, err
	}

	res, err := r.LookupAddr(ctx, ip)
	if err != nil {
		return "", false, err
	}
	if len(res.Records) == 0 {
		return "", false, ErrDNSNotFound
	}
	return strings.TrimSuffix(res.Records[0], "."), res.Authentic, nil
}
