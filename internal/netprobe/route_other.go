//go:build !linux

package netprobe

// systemRoutes is a no-op on platforms without a readable route table. The
// prober then falls back to the first up, non-loopback interface with an
// IPv4 address.
type systemRoutes struct{}

func (systemRoutes) DefaultInterfaceName() (string, error) {
	return "", nil
}
