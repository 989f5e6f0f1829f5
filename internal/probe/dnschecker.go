package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/hamed0406/capprobe/internal/domain"
)

// Resolution classes reported in DNS failure messages and success details.
const (
	dnsResolves    = "RESOLVES"
	dnsNXDomain    = "NXDOMAIN"
	dnsNoARecord   = "NO_A_RECORD"
	dnsUnreachable = "SERVFAIL_or_TIMEOUT"
	dnsInvalidName = "INVALID_NAME"
)

// resolver is the part of *net.Resolver the dns probe needs.
type resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

// DNSChecker resolves a host name with the OS resolver.
type DNSChecker struct {
	Host     string
	Resolver resolver
}

func NewDNSChecker(target string) *DNSChecker {
	return &DNSChecker{Host: extractHost(target), Resolver: &net.Resolver{}}
}

func (d *DNSChecker) Name() string { return "dns" }

// Execute looks up addresses first. A name without addresses but with
// nameservers is NO_A_RECORD; anything else that fails is a DNS failure
// carrying the class, or Timeout/Canceled when ctx ended the lookup.
func (d *DNSChecker) Execute(ctx context.Context) (domain.Outcome, error) {
	host := strings.TrimSpace(d.Host)
	if host == "" || strings.Contains(host, "://") {
		return domain.Failure("DNS", dnsInvalidName), nil
	}
	r := d.Resolver
	if r == nil {
		r = &net.Resolver{}
	}

	ips, ipErr := r.LookupIP(ctx, "ip", host)
	if err := ctx.Err(); err != nil {
		return contextFailure(err), nil
	}
	nameservers := lookupNS(ctx, r, host)

	if ipErr != nil || len(ips) == 0 {
		class := dnsNXDomain
		var de *net.DNSError
		switch {
		case len(nameservers) > 0:
			class = dnsNoARecord
		case errors.As(ipErr, &de) && (de.IsTemporary || de.Timeout()):
			class = dnsUnreachable
		case ipErr != nil && !errors.As(ipErr, &de):
			class = dnsUnreachable
		}
		msg := class
		if ipErr != nil {
			msg += ": " + ipErr.Error()
		}
		return domain.Failure("DNS", msg), nil
	}

	details := map[string]string{
		"host":  host,
		"class": dnsResolves,
		"ips":   strconv.Itoa(len(ips)),
	}
	if cname, err := r.LookupCNAME(ctx, host); err == nil && !strings.EqualFold(cname, host+".") {
		details["cname"] = strings.TrimSuffix(cname, ".")
	}
	if len(nameservers) > 0 {
		details["nameservers"] = strings.Join(nameservers, ",")
	}
	return ok(details)
}

func lookupNS(ctx context.Context, r resolver, host string) []string {
	ns, err := r.LookupNS(ctx, host)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, strings.TrimSuffix(n.Host, "."))
	}
	return out
}

// contextFailure maps a finished context to Canceled or Timeout.
func contextFailure(err error) domain.Outcome {
	if errors.Is(err, context.Canceled) {
		return domain.Failure(domain.ErrorKindCanceled, err.Error())
	}
	return domain.Failure(domain.ErrorKindTimeout, err.Error())
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
