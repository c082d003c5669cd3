package httpapi

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// OriginGuard rejects requests whose source address is outside the mobile
// aggregator's published ranges. The first X-Forwarded-For hop is trusted
// because the gateway always sits behind the platform load balancer in prod;
// outside prod the check is disabled so local testing works.
type OriginGuard struct {
	networks []*net.IPNet
	enforce  bool
}

func NewOriginGuard(cidrs []string, enforce bool) (*OriginGuard, error) {
	g := &OriginGuard{enforce: enforce}
	for _, c := range cidrs {
		_, network, err := net.ParseCIDR(strings.TrimSpace(c))
		if err != nil {
			return nil, fmt.Errorf("parse allowed cidr %q: %w", c, err)
		}
		g.networks = append(g.networks, network)
	}
	return g, nil
}

// Allow reports whether the request origin is acceptable.
func (g *OriginGuard) Allow(r *http.Request) bool {
	if !g.enforce {
		return true
	}
	ip := clientIP(r)
	if ip == nil {
		return false
	}
	for _, network := range g.networks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func clientIP(r *http.Request) net.IP {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return net.ParseIP(r.RemoteAddr)
	}
	return net.ParseIP(host)
}
