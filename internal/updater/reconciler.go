package updater

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/cloudflare"
)

// Reconciler keeps one A record in sync with an observed local address. It
// caches the provider-side record in memory for the lifetime of the process:
// Prime reads provider state exactly once, and each successful write
// replaces the cache with the record the provider returned. The cache is
// only ever touched from the owning polling loop, so no locking is needed.
type Reconciler struct {
	api      API
	log      logr.Logger
	zoneID   string
	hostname string
	ttl      int

	// cached provider-side record; hasRecord=false means none exists yet
	recordID  string
	content   string
	proxied   bool
	hasRecord bool
}

// NewReconciler creates a Reconciler for one hostname within a zone.
func NewReconciler(log logr.Logger, api API, zoneID, hostname string, ttl int) *Reconciler {
	return &Reconciler{
		api:      api,
		log:      log,
		zoneID:   zoneID,
		hostname: hostname,
		ttl:      ttl,
	}
}

// Prime performs the one-time startup read of the provider's current record.
func (r *Reconciler) Prime(ctx context.Context) error {
	records, err := r.api.ListRecords(ctx, r.zoneID, "A", r.hostname)
	if err != nil {
		return fmt.Errorf("updater: reading current record for %s: %w", r.hostname, err)
	}
	if len(records) == 0 {
		r.log.Info("no existing record", "hostname", r.hostname)
		return nil
	}

	rec := records[0]
	r.cache(rec)
	r.log.Info("found existing record",
		"hostname", r.hostname, "id", rec.ID, "content", rec.Content, "proxied", rec.Proxied)
	return nil
}

// Apply brings the provider record in line with the desired address. It
// issues no write when the cached content already matches, creates the
// record when none exists, and otherwise updates it in place — always
// echoing the cached proxied flag verbatim. On failure the cache is left
// unchanged so a later attempt retries the write.
func (r *Reconciler) Apply(ctx context.Context, addr netip.Addr) error {
	desired := addr.String()
	if r.hasRecord && r.content == desired {
		r.log.V(1).Info("record already up to date", "hostname", r.hostname, "content", desired)
		return nil
	}

	params := cloudflare.RecordParams{
		Type:    "A",
		Name:    r.hostname,
		Content: desired,
		TTL:     r.ttl,
		Proxied: r.proxied,
	}

	if !r.hasRecord {
		rec, err := r.api.CreateRecord(ctx, r.zoneID, params)
		if err != nil {
			return fmt.Errorf("updater: creating record for %s: %w", r.hostname, err)
		}
		r.cache(rec)
		r.log.Info("record created", "hostname", r.hostname, "id", rec.ID, "content", rec.Content)
		return nil
	}

	rec, err := r.api.UpdateRecord(ctx, r.zoneID, r.recordID, params)
	if err != nil {
		return fmt.Errorf("updater: updating record for %s: %w", r.hostname, err)
	}
	r.cache(rec)
	r.log.Info("record updated", "hostname", r.hostname, "id", rec.ID, "content", rec.Content)
	return nil
}

func (r *Reconciler) cache(rec cloudflare.Record) {
	r.recordID = rec.ID
	r.content = rec.Content
	r.proxied = rec.Proxied
	r.hasRecord = true
}
