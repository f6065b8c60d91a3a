//go:build linux

package netprobe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const routeTablePath = "/proc/net/route"

// systemRoutes reads the kernel's IPv4 routing table.
type systemRoutes struct{}

// DefaultInterfaceName returns the interface carrying the default route, i.e.
// the first entry whose destination is 0.0.0.0.
func (systemRoutes) DefaultInterfaceName() (string, error) {
	f, err := os.Open(routeTablePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", routeTablePath, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return "", fmt.Errorf("%s: empty route table", routeTablePath)
	}
	for sc.Scan() {
		// Columns: Iface Destination Gateway Flags ...
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		if fields[1] == "00000000" {
			return fields[0], nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading %s: %w", routeTablePath, err)
	}
	return "", fmt.Errorf("%s: no default route", routeTablePath)
}
