package netprobe

import (
	"fmt"
	"net"
	"net/netip"
)

// systemInterfaces enumerates interfaces via the standard library.
type systemInterfaces struct{}

func (systemInterfaces) Interfaces() ([]Iface, error) {
	nis, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	out := make([]Iface, 0, len(nis))
	for _, ni := range nis {
		it := Iface{
			Name:     ni.Name,
			Up:       ni.Flags&net.FlagUp != 0,
			Loopback: ni.Flags&net.FlagLoopback != 0,
		}
		addrs, err := ni.Addrs()
		if err != nil {
			return nil, fmt.Errorf("addresses of %s: %w", ni.Name, err)
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if a, ok := netip.AddrFromSlice(ipNet.IP); ok {
				it.Addrs = append(it.Addrs, a.Unmap())
			}
		}
		out = append(out, it)
	}
	return out, nil
}
