package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/cloudflare"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/dnscheck"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/netprobe"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/updater"
)

var Version = "dev"

func main() {
	var (
		check      = flag.Bool("check", false, "print the detected local IPv4 address and exit without contacting the provider")
		configPath = flag.String("config", "", "path to an optional YAML settings file")
		interval   = flag.Duration("interval", 0, "polling interval (overrides config)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if err := run(*check, *configPath, *interval, *verbose, flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(check bool, configPath string, interval time.Duration, verbose bool, hostname string) error {
	// A .env file is a convenience, never a requirement.
	_ = godotenv.Load()

	log, flush, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer flush()

	// With no hostname and no settings file there is nothing to sync;
	// behave like -check so a bare invocation stays a useful diagnostic.
	if hostname == "" && configPath == "" {
		check = true
	}
	if check {
		return runCheck(log, hostname)
	}

	cfg, err := config.Load(hostname, configPath)
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Interval = interval
	}

	api, err := cloudflare.New(log.WithName("cloudflare"), cfg.Token, "")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting yk-ddns", "version", Version, "hostnames", cfg.Hostnames, "interval", cfg.Interval.String())

	// One independent loop per hostname, each with its own record cache.
	g, ctx := errgroup.WithContext(ctx)
	for _, h := range cfg.Hostnames {
		h := h
		g.Go(func() error {
			zoneID, err := updater.ResolveZoneID(ctx, api, h, cfg.ZoneID, cfg.ZoneName)
			if err != nil {
				return err
			}

			ulog := log.WithName("updater").WithValues("hostname", h)
			prober := netprobe.New(log.WithName("netprobe"), cfg.IgnoreInterfaces)
			rec := updater.NewReconciler(ulog, api, zoneID, h, cfg.TTL)
			return updater.NewRunner(ulog, prober, rec, cfg.Interval, nil).Run(ctx)
		})
	}
	return g.Wait()
}

// runCheck prints the probed local IPv4 address and, when a hostname is
// given, the A answers it currently resolves to. The provider API is never
// contacted.
func runCheck(log logr.Logger, hostname string) error {
	ignore := config.SplitList(os.Getenv(config.EnvIgnoreInterfaces))
	prober := netprobe.New(log.WithName("netprobe"), ignore)

	addr, err := prober.Probe()
	if err != nil {
		return err
	}
	fmt.Println(addr)

	if hostname != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		answers, err := dnscheck.LookupA(ctx, hostname)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		case len(answers) == 0:
			fmt.Printf("%s has no published A record\n", hostname)
		default:
			strs := make([]string, 0, len(answers))
			for _, a := range answers {
				strs = append(strs, a.String())
			}
			fmt.Printf("%s currently resolves to %s\n", hostname, strings.Join(strs, ", "))
		}
	}
	return nil
}

func newLogger(verbose bool) (logr.Logger, func(), error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Encoding = "console"
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zl, err := zcfg.Build()
	if err != nil {
		return logr.Logger{}, nil, fmt.Errorf("building logger: %w", err)
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
