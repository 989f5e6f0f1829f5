package probe

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/capprobe/internal/config"
)

var ErrUnknownProbe = errors.New("unknown probe")

// Catalog maps probe kinds to constructors bound to one configuration.
type Catalog struct {
	cfg   config.Config
	kinds map[string]func() Probe
}

func NewCatalog(cfg config.Config) *Catalog {
	pc := cfg.Probe
	dnsHost := pc.DNSHost
	if dnsHost == "" {
		dnsHost = pc.NetworkURL
	}

	c := &Catalog{cfg: cfg}
	c.kinds = map[string]func() Probe{
		"serialize": func() Probe { return &SerializeProbe{Format: pc.SerializeFormat} },
		"fakedata":  func() Probe { return &FakeDataProbe{Seed: pc.FakeDataSeed} },
		"image":     func() Probe { return &ImageProbe{Size: pc.ImageSize} },
		"database": func() Probe {
			return &DatabaseProbe{
				Host:     pc.DBHost,
				Port:     pc.DBPort,
				Database: pc.DBName,
				User:     pc.DBUser,
				Password: pc.DBPassword,
			}
		},
		"sqlite":      func() Probe { return &SQLiteProbe{DSN: pc.SQLiteDSN} },
		"validate":    func() Probe { return NewValidateProbe() },
		"hash":        func() Probe { return &HashProbe{Cost: pc.BcryptCost} },
		"token":       func() Probe { return &TokenProbe{Secret: pc.JWTSecret, TTL: pc.JWTTTL} },
		"encrypt":     func() Probe { return &EncryptProbe{} },
		"clock":       func() Probe { return &ClockProbe{} },
		"collections": func() Probe { return &CollectionsProbe{} },
		"jsonquery":   func() Probe { return &JSONQueryProbe{Query: pc.JQQuery} },
		"dns":         func() Probe { return NewDNSChecker(dnsHost) },
		"network":     func() Probe { return NewHTTPChecker(pc.NetworkURL, cfg.ProbeTimeout) },
	}
	return c
}

// Kinds lists every probe kind the catalog can build, sorted.
func (c *Catalog) Kinds() []string {
	out := make([]string, 0, len(c.kinds))
	for k := range c.kinds {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Build registers the named probes in order. All unknown and duplicate names
// are reported together; on any error the registry is unusable and nil is
// returned.
func (c *Catalog) Build(names []string) (*Registry, error) {
	reg := NewRegistry()
	var errs error
	for _, n := range names {
		mk, found := c.kinds[strings.ToLower(strings.TrimSpace(n))]
		if !found {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrUnknownProbe, n))
			continue
		}
		errs = multierr.Append(errs, reg.Register(mk()))
	}
	if errs != nil {
		return nil, errs
	}
	return reg, nil
}

// BuildConfigured builds the registry for cfg.Probes.
func (c *Catalog) BuildConfigured() (*Registry, error) {
	return c.Build(c.cfg.Probes)
}
