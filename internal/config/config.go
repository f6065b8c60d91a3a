package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Environment variables recognized at startup.
const (
	EnvAPIToken         = "CLOUDFLARE_API_TOKEN"
	EnvZoneID           = "CLOUDFLARE_ZONE_ID"
	EnvZoneName         = "CLOUDFLARE_ZONE_NAME"
	EnvIgnoreInterfaces = "DDNS_IGNORE_INTERFACES"
)

const (
	// DefaultInterval is the polling interval used when none is configured.
	DefaultInterval = 30 * time.Second

	// RecordTTL is sent on every create and update. 60 seconds is the
	// provider's practical minimum.
	RecordTTL = 60
)

// Config holds everything the sync loop needs, built once at startup and
// passed down explicitly. Core packages never read the environment.
type Config struct {
	Token            string
	ZoneID           string
	ZoneName         string
	Hostnames        []string
	Interval         time.Duration
	TTL              int
	IgnoreInterfaces []string
}

// file is the YAML shape of the optional settings file.
type file struct {
	Hostnames        []string `yaml:"hostnames"`
	Interval         string   `yaml:"interval"`
	ZoneID           string   `yaml:"zone_id"`
	ZoneName         string   `yaml:"zone_name"`
	IgnoreInterfaces []string `yaml:"ignore_interfaces"`
}

// Load builds the configuration from the optional YAML file at path plus the
// environment. Environment variables win over file values, and a hostname
// argument wins over the file's hostname list. The credential comes from the
// environment only.
func Load(hostname, path string) (*Config, error) {
	cfg := &Config{
		Interval: DefaultInterval,
		TTL:      RecordTTL,
	}

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv(EnvZoneID); v != "" {
		cfg.ZoneID = v
	}
	if v := os.Getenv(EnvZoneName); v != "" {
		cfg.ZoneName = v
	}
	if v := os.Getenv(EnvIgnoreInterfaces); v != "" {
		cfg.IgnoreInterfaces = SplitList(v)
	}
	if hostname != "" {
		cfg.Hostnames = []string{hostname}
	}

	cfg.Token = os.Getenv(EnvAPIToken)
	if cfg.Token == "" {
		return nil, fmt.Errorf("config: missing required environment variable %s", EnvAPIToken)
	}
	if len(cfg.Hostnames) == 0 {
		return nil, fmt.Errorf("config: no hostname given (pass one as an argument or list hostnames in the config file)")
	}
	for _, h := range cfg.Hostnames {
		if strings.TrimSpace(h) == "" {
			return nil, fmt.Errorf("config: empty hostname in configuration")
		}
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading settings file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("config: parsing settings file: %w", err)
	}

	// Expand ${ENV_VAR} references in string values.
	f.ZoneID = os.ExpandEnv(f.ZoneID)
	f.ZoneName = os.ExpandEnv(f.ZoneName)
	for i, h := range f.Hostnames {
		f.Hostnames[i] = os.ExpandEnv(h)
	}

	if f.Interval != "" {
		d, err := time.ParseDuration(f.Interval)
		if err != nil {
			return fmt.Errorf("config: invalid interval %q: %w", f.Interval, err)
		}
		c.Interval = d
	}
	if f.ZoneID != "" {
		c.ZoneID = f.ZoneID
	}
	if f.ZoneName != "" {
		c.ZoneName = f.ZoneName
	}
	if len(f.Hostnames) > 0 {
		c.Hostnames = f.Hostnames
	}
	if len(f.IgnoreInterfaces) > 0 {
		c.IgnoreInterfaces = f.IgnoreInterfaces
	}
	return nil
}

// SplitList splits a pipe- or comma-delimited list of interface-name
// substrings. Terms are matched case-sensitively by the prober.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
