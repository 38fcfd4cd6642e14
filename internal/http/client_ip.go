package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
)

const clientIPKey contextKey = "client_ip"

// TrustedProxies lists the peers whose X-Forwarded-For header is believed.
// A nil *TrustedProxies trusts nobody.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies accepts plain IPs and CIDR ranges.
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	p := &TrustedProxies{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.Contains(e, "/") {
			ip := net.ParseIP(e)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", e)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			p.nets = append(p.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(e)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", e, err)
		}
		p.nets = append(p.nets, n)
	}
	return p, nil
}

func (p *TrustedProxies) trusts(ip net.IP) bool {
	if p == nil || ip == nil {
		return false
	}
	for _, n := range p.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Resolve returns the caller address. X-Forwarded-For is walked from the
// right only while each hop is a trusted proxy; the first untrusted hop is
// the client.
func (p *TrustedProxies) Resolve(r *http.Request) string {
	peer := peerIP(r)
	if !p.trusts(net.ParseIP(peer)) {
		return peer
	}
	var hops []string
	for _, v := range r.Header.Values("X-Forwarded-For") {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hops = append(hops, h)
			}
		}
	}
	client := peer
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(hops[i])
		if ip == nil {
			break
		}
		client = ip.String()
		if !p.trusts(ip) {
			break
		}
	}
	return client
}

// RealIP stores the resolved caller address for handlers and the limiter.
func RealIP(p *TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientIPKey, p.Resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP is the address resolved by RealIP, or the direct peer when the
// request did not pass through it.
func clientIP(r *http.Request) string {
	if ip, ok := r.Context().Value(clientIPKey).(string); ok && ip != "" {
		return ip
	}
	return peerIP(r)
}

func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
