package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync/atomic"
)

// trusted holds the proxy ranges whose forwarding headers are believed.
// Empty means forwarding headers are ignored and the peer address is used.
var trusted atomic.Pointer[[]netip.Prefix]

// TrustProxies sets the proxy ranges (CIDRs or bare IPs) allowed to report
// the client address through X-Forwarded-For or X-Real-IP.
func TrustProxies(entries []string) error {
	out := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if p, err := netip.ParsePrefix(e); err == nil {
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return fmt.Errorf("trusted proxy %q: not an IP or CIDR", e)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	trusted.Store(&out)
	return nil
}

func isTrusted(a netip.Addr) bool {
	p := trusted.Load()
	if p == nil || !a.IsValid() {
		return false
	}
	a = a.Unmap()
	for _, pre := range *p {
		if pre.Contains(a) {
			return true
		}
	}
	return false
}

func peerAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// clientIP is the peer address unless the peer is a trusted proxy. Behind
// one, X-Forwarded-For is walked right to left and the first hop that is not
// itself trusted wins; X-Real-IP is the fallback.
func clientIP(r *http.Request) string {
	peer := peerAddr(r)
	addr, err := netip.ParseAddr(peer)
	if err != nil || !isTrusted(addr) {
		return peer
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				// garbage in the chain; stop at the last hop we could verify
				break
			}
			if !isTrusted(hop) {
				return hop.Unmap().String()
			}
		}
	}
	if xrip, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return xrip.Unmap().String()
	}
	return peer
}
