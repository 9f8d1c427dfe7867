package clientip

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Common proxy headers, in the order they are usually trusted.
const (
	HeaderCloudflare   = "CF-Connecting-IP"
	HeaderDigitalOcean = "DO-Connecting-IP"
	HeaderForwardedFor = "X-Forwarded-For"
	HeaderRealIP       = "X-Real-IP"
)

// Resolver extracts the client address from a request.
// Only the configured headers are consulted; RemoteAddr is the fallback.
type Resolver struct {
	headers []string
}

// New returns a Resolver trusting headers in the given order. With no
// headers only the TCP peer address is used, which is the right choice
// when the service is not behind a proxy that overwrites them.
func New(headers ...string) *Resolver {
	trusted := make([]string, 0, len(headers))
	for _, h := range headers {
		if h = strings.TrimSpace(h); h != "" {
			trusted = append(trusted, http.CanonicalHeaderKey(h))
		}
	}
	return &Resolver{headers: trusted}
}

// IP returns the normalized client address, or "" if none is valid.
// A list valued header such as X-Forwarded-For yields its first valid entry.
func (res *Resolver) IP(r *http.Request) string {
	for _, h := range res.headers {
		for v := range strings.SplitSeq(r.Header.Get(h), ",") {
			if ip := parseIP(v); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// Middleware stores the resolved address in the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

// parseIP validates and normalizes an address. IPv4-mapped IPv6 addresses
// are reported in IPv4 form and zones are dropped.
func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}

type contextKey struct{}

func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the address stored by Middleware, or "".
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
