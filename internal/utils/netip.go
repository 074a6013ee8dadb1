package utils

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// forwardedHeaders are consulted in order when the origin sits behind a
// trusted proxy or tunnel (e.g., cloudflared on localhost).
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// ClientIP resolves the address used for rate limiting and CIDR allow-lists.
// Forwarding headers are honoured only when trustProxy is set, otherwise the
// socket peer is used.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, h := range forwardedHeaders {
			if ip := hostOnly(firstHop(r.Header.Get(h))); ip != "" {
				return ip
			}
		}
	}
	return hostOnly(r.RemoteAddr)
}

// firstHop keeps the left-most entry of a comma separated forwarding chain.
func firstHop(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

func hostOnly(s string) string {
	if h, _, err := net.SplitHostPort(s); err == nil {
		return h
	}
	return s
}

// IPMatcher matches client addresses against single IPs and CIDR prefixes.
type IPMatcher struct {
	prefixes []netip.Prefix
}

// NewIPMatcher compiles list into prefixes. A bare address becomes a
// full-length prefix. Entries that parse as neither are returned as rejected.
func NewIPMatcher(list []string) (m *IPMatcher, rejected []string) {
	m = &IPMatcher{}
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if p, err := netip.ParsePrefix(s); err == nil {
			m.prefixes = append(m.prefixes, p.Masked())
			continue
		}
		if addr, err := netip.ParseAddr(s); err == nil {
			addr = addr.Unmap()
			m.prefixes = append(m.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		rejected = append(rejected, s)
	}
	return m, rejected
}

func (m *IPMatcher) IsEmpty() bool { return len(m.prefixes) == 0 }

func (m *IPMatcher) Len() int { return len(m.prefixes) }

func (m *IPMatcher) Allow(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range m.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
