package probe

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/hamed0406/capprobe/internal/domain"
)

// SQLiteProbe opens an embedded database and runs a trivial query.
type SQLiteProbe struct {
	DSN string // ":memory:" by default
}

func (p *SQLiteProbe) Name() string { return "sqlite" }

func (p *SQLiteProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	dsn := p.DSN
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fail("SQL", err)
	}
	defer db.Close()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1 AS test").Scan(&one); err != nil {
		return fail("SQL", err)
	}
	if one != 1 {
		return domain.Failure("SQL", fmt.Sprintf("SELECT 1 returned %d", one)), nil
	}

	var version string
	_ = db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version)

	return ok(map[string]string{
		"result":  strconv.Itoa(one),
		"version": version,
	})
}
