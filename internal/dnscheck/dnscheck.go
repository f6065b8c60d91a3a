// Package dnscheck resolves the A answers currently published for a
// hostname. It is diagnostic only: check mode uses it to show provider-side
// reality next to the probed local address.
package dnscheck

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/miekg/dns"
)

const resolvConfPath = "/etc/resolv.conf"

// LookupA queries the system's first configured nameserver (fallback
// 1.1.1.1) for the hostname's A records.
func LookupA(ctx context.Context, hostname string) ([]netip.Addr, error) {
	cfg, _ := dns.ClientConfigFromFile(resolvConfPath)
	if cfg == nil || len(cfg.Servers) == 0 {
		cfg = &dns.ClientConfig{Servers: []string{"1.1.1.1"}, Port: "53"}
	}
	server := net.JoinHostPort(cfg.Servers[0], cfg.Port)

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(hostname), dns.TypeA)

	c := new(dns.Client)
	resp, _, err := c.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, fmt.Errorf("dnscheck: querying %s: %w", server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("dnscheck: query for %s returned %s", hostname, dns.RcodeToString[resp.Rcode])
	}

	var out []netip.Addr
	for _, ans := range resp.Answer {
		a, ok := ans.(*dns.A)
		if !ok {
			continue
		}
		if addr, ok := netip.AddrFromSlice(a.A.To4()); ok {
			out = append(out, addr)
		}
	}
	return out, nil
}
