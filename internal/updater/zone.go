package updater

import (
	"context"
	"fmt"
	"strings"
)

// GuessZoneName derives the apex zone name from an FQDN by taking its last
// two dot-separated labels.
// e.g. "home.example.com" → "example.com"
// e.g. "example.com" → "example.com"
//
// Known limitation: multi-label public suffixes ("foo.co.uk" → "co.uk") are
// derived wrong. Set an explicit zone name or zone ID for those domains.
func GuessZoneName(hostname string) (string, error) {
	hostname = strings.TrimSuffix(hostname, ".")
	labels := strings.Split(hostname, ".")
	if len(labels) < 2 {
		return "", fmt.Errorf("updater: cannot derive zone name from %q: need at least two labels", hostname)
	}
	return strings.Join(labels[len(labels)-2:], "."), nil
}

// ResolveZoneID determines the zone identifier scoping all record
// operations. An explicit zone ID is returned as-is with no network call;
// otherwise the explicit zone name, or the name guessed from the hostname,
// is looked up via the provider. Resolution failure is fatal at startup.
func ResolveZoneID(ctx context.Context, api API, hostname, zoneID, zoneName string) (string, error) {
	if zoneID != "" {
		return zoneID, nil
	}

	name := zoneName
	if name == "" {
		guessed, err := GuessZoneName(hostname)
		if err != nil {
			return "", err
		}
		name = guessed
	}

	zones, err := api.ListZones(ctx, name)
	if err != nil {
		return "", fmt.Errorf("updater: resolving zone %q: %w", name, err)
	}
	if len(zones) == 0 {
		return "", fmt.Errorf("updater: no active zone found for %q", name)
	}
	return zones[0].ID, nil
}
