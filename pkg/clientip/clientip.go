package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Resolver picks the client IP for rate limiting and logging. Proxy headers
// are honored only when TrustProxy is set, since clients can forge them.
type Resolver struct {
	TrustProxy bool
}

// ClientIP returns the first X-Forwarded-For hop (or X-Real-IP) when
// proxies are trusted, else the connection's remote address.
func (res Resolver) ClientIP(r *http.Request) string {
	if res.TrustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first := strings.TrimSpace(strings.Split(fwd, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(real) != nil {
			return real
		}
	}
	return RealClientIP(r)
}

// RealClientIP returns the host part of r.RemoteAddr.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
