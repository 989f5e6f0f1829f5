// cmd/preflight/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/capprobe/internal/config"
	"github.com/hamed0406/capprobe/internal/probe"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (env overrides it)")
	flag.Parse()

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("config: " + err.Error())
	}
	ok("config loaded")

	reg, err := probe.NewCatalog(cfg).BuildConfigured()
	if err != nil {
		for _, e := range multierr.Errors(err) {
			if errors.Is(e, probe.ErrDuplicateProbeName) || errors.Is(e, probe.ErrUnknownProbe) {
				fmt.Fprintln(os.Stderr, "✖", e)
			}
		}
		fail("PROBES is not a valid registry")
	}
	if reg.Len() == 0 {
		warn("PROBES is empty; every run will pass with zero results.")
	} else {
		ok(fmt.Sprintf("%d probes: %s", reg.Len(), strings.Join(reg.Names(), ",")))
	}

	if cfg.ProbeTimeout <= 0 {
		warn("PROBE_TIMEOUT is not positive; the runner default of 5s will be used.")
	}
	if len(cfg.AdminAPIKeys) == 0 {
		warn("ADMIN_API_KEYS is empty; POST /run is open to anyone.")
	}
	if len(cfg.PublicAPIKeys) == 0 {
		warn("PUBLIC_API_KEYS is empty; GET /probes is open to anyone.")
	}
	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}
	if cfg.Probe.JWTSecret == "secret-key" {
		warn("JWT_SECRET is the sample default.")
	}
	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty; failed runs will not be announced.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	ok("preflight passed")
}
