// Package netprobe discovers the machine's current local IPv4 address by
// inspecting the host's network interfaces and routing state.
package netprobe

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/go-logr/logr"
)

// ErrNoAddress is returned when no eligible interface carries an IPv4
// address. Long-running callers treat it as "no observation this cycle".
var ErrNoAddress = errors.New("netprobe: no eligible IPv4 address found")

// Iface is one enumerated network interface candidate.
type Iface struct {
	Name     string
	Up       bool
	Loopback bool
	Addrs    []netip.Addr
}

// InterfaceSource lists the host's network interfaces.
type InterfaceSource interface {
	Interfaces() ([]Iface, error)
}

// RouteSource reports the name of the default-route interface. An empty name
// with a nil error means the platform cannot determine it, in which case the
// prober falls back to the first eligible interface.
type RouteSource interface {
	DefaultInterfaceName() (string, error)
}

// Prober selects the IPv4 address of the default-route interface, skipping
// interfaces whose name contains any of the configured ignore terms.
type Prober struct {
	ifaces InterfaceSource
	routes RouteSource
	ignore []string
	log    logr.Logger
}

// New creates a Prober backed by the operating system's interface and route
// tables. Ignore terms are matched as case-sensitive substrings.
func New(log logr.Logger, ignore []string) *Prober {
	return NewWithSources(log, ignore, systemInterfaces{}, systemRoutes{})
}

// NewWithSources is like New but with injected sources, for tests.
func NewWithSources(log logr.Logger, ignore []string, ifaces InterfaceSource, routes RouteSource) *Prober {
	return &Prober{
		ifaces: ifaces,
		routes: routes,
		ignore: ignore,
		log:    log,
	}
}

// Probe returns the current local IPv4 address, or ErrNoAddress when no
// interface qualifies.
func (p *Prober) Probe() (netip.Addr, error) {
	defName, err := p.routes.DefaultInterfaceName()
	if err != nil {
		// Not fatal: fall back to scanning all eligible interfaces.
		p.log.V(1).Info("default route lookup failed", "reason", err.Error())
		defName = ""
	}

	ifaces, err := p.ifaces.Interfaces()
	if err != nil {
		return netip.Addr{}, fmt.Errorf("netprobe: listing interfaces: %w", err)
	}

	for _, it := range ifaces {
		if !it.Up || it.Loopback {
			continue
		}
		if p.ignored(it.Name) {
			p.log.V(1).Info("skipping ignored interface", "interface", it.Name)
			continue
		}
		if defName != "" && it.Name != defName {
			continue
		}
		for _, a := range it.Addrs {
			a = a.Unmap()
			if a.Is4() {
				p.log.V(1).Info("selected address", "interface", it.Name, "address", a.String())
				return a, nil
			}
		}
	}

	return netip.Addr{}, ErrNoAddress
}

func (p *Prober) ignored(name string) bool {
	for _, term := range p.ignore {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}
