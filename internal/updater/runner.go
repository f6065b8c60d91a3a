package updater

import (
	"context"
	"net/netip"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"
)

// AddressProber yields the machine's current local IPv4 address.
type AddressProber interface {
	Probe() (netip.Addr, error)
}

// Runner drives one hostname's probe/reconcile loop at a fixed interval
// until its context is cancelled. It remembers only the last successfully
// probed address: the provider is contacted when that address changes, never
// merely because a previous write failed.
type Runner struct {
	prober   AddressProber
	rec      *Reconciler
	interval time.Duration
	clock    clock.WithTicker
	log      logr.Logger

	last netip.Addr
}

// NewRunner creates a Runner. A nil clk selects the real clock.
func NewRunner(log logr.Logger, prober AddressProber, rec *Reconciler, interval time.Duration, clk clock.WithTicker) *Runner {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Runner{
		prober:   prober,
		rec:      rec,
		interval: interval,
		clock:    clk,
		log:      log,
	}
}

// Run primes the reconciler, performs one immediate pass, then polls on a
// fixed ticker. Priming failure is fatal; everything after that is survived
// and retried on later ticks.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.rec.Prime(ctx); err != nil {
		return err
	}

	r.log.Info("starting", "interval", r.interval.String())
	r.tick(ctx)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("stopping")
			return nil
		case <-ticker.C():
			r.tick(ctx)
		}
	}
}

func (r *Runner) tick(ctx context.Context) {
	addr, err := r.prober.Probe()
	if err != nil {
		r.log.Error(err, "could not determine local address, skipping cycle")
		return
	}

	if r.last.IsValid() && addr == r.last {
		r.log.V(1).Info("local address unchanged", "address", addr.String())
		return
	}
	// Advance the marker before the write outcome is known: a flapping write
	// must not retry for an address that has not changed since.
	r.last = addr

	if err := r.rec.Apply(ctx, addr); err != nil {
		r.log.Error(err, "reconcile failed", "address", addr.String())
	}
}
