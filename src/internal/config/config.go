package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"

	"bibdoi/src/internal/doi"
)

// DefaultFile is looked up in the XDG config directories when neither a
// path nor $BIBDOI_CONFIG is given.
const DefaultFile = "bibdoi/config.yaml"

// Environment variables consulted by Load.
const (
	EnvConfig     = "BIBDOI_CONFIG"
	EnvLogLevel   = "BIBDOI_LOG_LEVEL"
	EnvStore      = "BIBDOI_STORE"
	EnvMaxRetries = "BIBDOI_MAX_RETRIES"
)

// Config is the single-file configuration of bibdoi. Every field has a
// usable default, so an absent file is not an error.
type Config struct {
	Mirrors struct {
		// Families and TLDs are crossed: dx.doi × de = dx.doi.de.
		Families []string `yaml:"families"`
		TLDs     []string `yaml:"tlds"`
		// Hosts are added verbatim.
		Hosts []string `yaml:"hosts"`
		// Shortcut hosts resolve bare tokens, doi.org/gf4gqc = 10/gf4gqc.
		Shortcut []string `yaml:"shortcut"`
	} `yaml:"mirrors"`

	Store struct {
		Root string `yaml:"root"`
	} `yaml:"store"`

	Resolver struct {
		UserAgent  string        `yaml:"userAgent"`
		Timeout    time.Duration `yaml:"timeout"`
		MaxRetries int           `yaml:"maxRetries"`
	} `yaml:"resolver"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	c.Mirrors.Families = []string{"doi", "dx.doi", "doi.acm", "doi.ieeecomputersociety"}
	c.Mirrors.TLDs = []string{"org", "net", "com", "de"}
	c.Mirrors.Shortcut = []string{"doi.org"}
	c.Store.Root = "."
	c.Resolver.UserAgent = "bibdoi/1.0 (+https://doi.org)"
	c.Resolver.Timeout = 10 * time.Second
	c.Resolver.MaxRetries = 3
	c.Log.Level = "info"
	c.Log.Format = "console"
	return c
}

// Load reads path over the defaults and applies environment overrides.
// An empty path falls back to $BIBDOI_CONFIG, then to DefaultFile under
// the XDG config directories; only a missing explicit file is an error.
func Load(path string) (Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path, _ = xdg.SearchConfigFile(DefaultFile)
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return c, fmt.Errorf("read config: %w", err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return c, err
	}
	return c, c.Validate()
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStore)); v != "" {
		c.Store.Root = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxRetries)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxRetries, err)
		}
		c.Resolver.MaxRetries = n
	}
	return nil
}

// Validate checks that every mirror host is a valid DNS name and that the
// resolver settings make sense.
func (c Config) Validate() error {
	for _, h := range c.mirrorHosts() {
		if _, err := normalizeHost(h); err != nil {
			return err
		}
	}
	for _, h := range c.Mirrors.Shortcut {
		if _, err := normalizeHost(h); err != nil {
			return err
		}
	}
	if c.Resolver.Timeout < 0 {
		return fmt.Errorf("resolver.timeout must not be negative")
	}
	if c.Resolver.MaxRetries < 0 {
		return fmt.Errorf("resolver.maxRetries must not be negative")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	return nil
}

// Extractor builds the DOI extractor for the configured mirrors.
func (c Config) Extractor() (*doi.Extractor, error) {
	hosts, err := normalizeHosts(c.mirrorHosts())
	if err != nil {
		return nil, err
	}
	shortcut, err := normalizeHosts(c.Mirrors.Shortcut)
	if err != nil {
		return nil, err
	}
	return doi.NewExtractor(
		doi.WithMirrors(doi.NewMirrors(hosts...)),
		doi.WithShortcutHosts(doi.NewMirrors(shortcut...)),
	), nil
}

func (c Config) mirrorHosts() []string {
	hosts := doi.ExpandMirrors(c.Mirrors.Families, c.Mirrors.TLDs).Hosts()
	return append(hosts, c.Mirrors.Hosts...)
}

func normalizeHosts(hosts []string) ([]string, error) {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		n, err := normalizeHost(h)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// normalizeHost maps a host to its lower-case ASCII (punycode) form.
func normalizeHost(h string) (string, error) {
	h = strings.TrimSpace(h)
	if h == "" {
		return "", fmt.Errorf("mirror host must not be empty")
	}
	n, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return "", fmt.Errorf("mirror host %q: %w", h, err)
	}
	return n, nil
}
