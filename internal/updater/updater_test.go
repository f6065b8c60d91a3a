package updater

import (
	"context"
	"fmt"
	"net/netip"
	"sync"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/cloudflare"
)

// fakeAPI is an in-memory provider API recording calls for assertions.
type fakeAPI struct {
	mu sync.Mutex

	zones   []cloudflare.Zone
	records []cloudflare.Record

	zonesErr  error
	listErr   error
	createErr error
	updateErr error

	zoneCalls     int
	lastZoneName  string
	createdParams []cloudflare.RecordParams
	updatedIDs    []string
	updatedParams []cloudflare.RecordParams
	nextID        int
}

func (f *fakeAPI) ListZones(_ context.Context, name string) ([]cloudflare.Zone, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.zoneCalls++
	f.lastZoneName = name
	if f.zonesErr != nil {
		return nil, f.zonesErr
	}
	var out []cloudflare.Zone
	for _, z := range f.zones {
		if z.Name == name {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeAPI) ListRecords(_ context.Context, zoneID, recordType, name string) ([]cloudflare.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []cloudflare.Record
	for _, r := range f.records {
		if r.Type == recordType && r.Name == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateRecord(_ context.Context, zoneID string, params cloudflare.RecordParams) (cloudflare.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdParams = append(f.createdParams, params)
	if f.createErr != nil {
		return cloudflare.Record{}, f.createErr
	}
	f.nextID++
	rec := cloudflare.Record{
		ID:      fmt.Sprintf("r%d", f.nextID),
		Type:    params.Type,
		Name:    params.Name,
		Content: params.Content,
		TTL:     params.TTL,
		Proxied: params.Proxied,
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeAPI) UpdateRecord(_ context.Context, zoneID, recordID string, params cloudflare.RecordParams) (cloudflare.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedIDs = append(f.updatedIDs, recordID)
	f.updatedParams = append(f.updatedParams, params)
	if f.updateErr != nil {
		return cloudflare.Record{}, f.updateErr
	}
	for i, r := range f.records {
		if r.ID == recordID {
			f.records[i].Content = params.Content
			f.records[i].TTL = params.TTL
			f.records[i].Proxied = params.Proxied
			return f.records[i], nil
		}
	}
	return cloudflare.Record{}, fmt.Errorf("no record with id %s", recordID)
}

func (f *fakeAPI) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.createdParams) + len(f.updatedParams)
}

// scriptProber returns a scripted sequence of addresses, repeating the last
// one once the script is exhausted.
type scriptProber struct {
	mu    sync.Mutex
	addrs []netip.Addr
	err   error
	calls int
}

func (p *scriptProber) Probe() (netip.Addr, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return netip.Addr{}, p.err
	}
	i := p.calls - 1
	if i >= len(p.addrs) {
		i = len(p.addrs) - 1
	}
	return p.addrs[i], nil
}

func (p *scriptProber) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
