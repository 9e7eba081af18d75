package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// Resolver extracts the client address from a request.
type Resolver struct {
	trustProxy bool
}

// New returns a Resolver. With trustProxy set, X-Forwarded-For (leftmost valid
// entry) and X-Real-IP are honored; only enable it behind a proxy that
// overwrites those headers, otherwise clients can pick their own address.
func New(trustProxy bool) *Resolver {
	return &Resolver{trustProxy: trustProxy}
}

// IP returns the normalized client address, or "" when none is parseable.
func (res *Resolver) IP(r *http.Request) string {
	if res.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			for part := range strings.SplitSeq(fwd, ",") {
				if ip := parseIP(part); ip != "" {
					return ip
				}
			}
		}
		if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
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

func parseIP(s string) string {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return ""
	}
	return addr.Unmap().WithZone("").String()
}
