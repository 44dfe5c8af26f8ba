package dns

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isNotFound bool
		isTimeout  bool
		isServFail bool
		isTemp     bool
	}{
		{
			name:       "not found error",
			err:        ErrDNSNotFound,
			isNotFound: true,
		},
		{
			name:      "timeout error",
			err:       ErrDNSTimeout,
			isTimeout: true,
			isTemp:    true,
		},
		{
			name:       "server failure",
			err:        ErrDNSServFail,
			isServFail: true,
			isTemp:     true,
		},
		{
			name:       "wrapped not found",
			err:        errors.Join(errors.New("wrapper"), ErrDNSNotFound),
			isNotFound: true,
		},
		{
			name: "refused is permanent",
			err:  ErrDNSRefused,
		},
		{
			name: "nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.isNotFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.isNotFound)
			}
			if got := IsTimeout(tt.err); got != tt.isTimeout {
				t.Errorf("IsTimeout() = %v, want %v", got, tt.isTimeout)
			}
			if got := IsServFail(tt.err); got != tt.isServFail {
				t.Errorf("IsServFail() = %v, want %v", got, tt.isServFail)
			}
			if got := IsTemporary(tt.err); got != tt.isTemp {
				t.Errorf("IsTemporary() = %v, want %v", got, tt.isTemp)
			}
		})
	}
}

func TestMockResolverLookupAddr(t *testing.T) {
	r := MockResolver{
		PTR: map[string][]string{
			"192.0.2.1": {"mail.example.com."},
		},
		Fail:         []string{"192.0.2.99"},
		AllAuthentic: true,
	}
	ctx := context.Background()

	res, err := r.LookupAddr(ctx, net.ParseIP("192.0.2.1"))
	if err != nil {
		t.Fatalf("LookupAddr() unexpected error: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0] != "mail.example.com." {
		t.Errorf("LookupAddr() records = %v", res.Records)
	}
	if !res.Authentic {
		t.Error("expected authentic result")
	}

	if _, err := r.LookupAddr(ctx, net.ParseIP("192.0.2.2")); !IsNotFound(err) {
		t.Errorf("LookupAddr() unknown IP error = %v, want not found", err)
	}
	if _, err := r.LookupAddr(ctx, net.ParseIP("192.0.2.99")); !IsServFail(err) {
		t.Errorf("LookupAddr() failing IP error = %v, want servfail", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.LookupAddr(cancelled, net.ParseIP("192.0.2.1")); !errors.Is(err, context.Canceled) {
		t.Errorf("LookupAddr() cancelled error = %v, want context.Canceled", err)
	}
}

func TestReverseName(t *testing.T) {
	r := MockResolver{
		PTR: map[string][]string{
			"198.51.100.7": {"client.example.net.", "alias.example.net."},
		},
	}

	tests := []struct {
		name     string
		resolver Resolver
		addr     net.Addr
		want     string
		wantAD   bool
		wantErr  bool
	}{
		{
			name:     "authenticated answer",
			resolver: MockResolver{PTR: r.PTR, AllAuthentic: true},
			addr:     &net.TCPAddr{IP: net.ParseIP("198.51.100.7"), Port: 40000},
			want:     "client.example.net",
			wantAD:   true,
		},
		{
			name: "first PTR without trailing dot",
			addr: &net.TCPAddr{IP: net.ParseIP("198.51.100.7"), Port: 40000},
			want: "client.example.net",
		},
		{
			name:    "no PTR",
			addr:    &net.TCPAddr{IP: net.ParseIP("198.51.100.8"), Port: 40000},
			wantErr: true,
		},
		{
			name:    "nil address",
			addr:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := tt.resolver
			if resolver == nil {
				resolver = r
			}
			got, ad, err := ReverseName(context.Background(), resolver, tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReverseName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ReverseName() = %q, want %q", got, tt.want)
			}
			if ad != tt.wantAD {
				t.Errorf("ReverseName() authentic = %v, want %v", ad, tt.wantAD)
			}
		})
	}
}

func TestNewResolverDefaults(t *testing.T) {
	r := NewResolver(ResolverConfig{Nameservers: []string{"127.0.0.1:53"}})
	cfg := r.Config()
	if cfg.Timeout == 0 {
		t.Error("expected default timeout")
	}
	if cfg.Retries != 2 {
		t.Errorf("Retries = %d, want 2", cfg.Retries)
	}
	if len(cfg.Nameservers) != 1 || cfg.Nameservers[0] != "127.0.0.1:53" {
		t.Errorf("Nameservers = %v", cfg.Nameservers)
	}
}

func TestLookupAddrInvalidIP(t *testing.T) {
	r := NewResolver(ResolverConfig{Nameservers: []string{"127.0.0.1:53"}})
	if _, err := r.LookupAddr(context.Background(), nil); err == nil {
		t.Error("expected error for nil IP")
	}
}
