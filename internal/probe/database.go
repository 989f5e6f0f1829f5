package probe

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/capprobe/internal/domain"
)

// DatabaseProbe builds a PostgreSQL connection string and has the driver
// parse it. It never opens a connection.
type DatabaseProbe struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

func (p *DatabaseProbe) Name() string { return "database" }

// DSN renders the connection string the probe hands to the driver.
func (p *DatabaseProbe) DSN() string {
	port := p.Port
	if port == 0 {
		port = 5432
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(port)),
		Path:     "/" + p.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (p *DatabaseProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	dsn := p.DSN()
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return fail("ConnString", err)
	}

	cc := cfg.ConnConfig
	if cc.Host != p.Host || cc.Database != p.Database || cc.User != p.User {
		return domain.Failure("ConnString", fmt.Sprintf("parsed descriptor mismatch: host=%q db=%q user=%q", cc.Host, cc.Database, cc.User)), nil
	}

	return ok(map[string]string{
		"host":       cc.Host,
		"port":       strconv.Itoa(int(cc.Port)),
		"database":   cc.Database,
		"dsn_length": strconv.Itoa(len(dsn)),
		"max_conns":  strconv.Itoa(int(cfg.MaxConns)),
	})
}
