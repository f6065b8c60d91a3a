// Package updater keeps one DNS A record per hostname in sync with the
// machine's current local IPv4 address.
package updater

import (
	"context"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/cloudflare"
)

// API is the subset of the provider client the updater depends on.
type API interface {
	ListZones(ctx context.Context, name string) ([]cloudflare.Zone, error)
	ListRecords(ctx context.Context, zoneID, recordType, name string) ([]cloudflare.Record, error)
	CreateRecord(ctx context.Context, zoneID string, params cloudflare.RecordParams) (cloudflare.Record, error)
	UpdateRecord(ctx context.Context, zoneID, recordID string, params cloudflare.RecordParams) (cloudflare.Record, error)
}
