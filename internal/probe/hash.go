package probe

import (
	"context"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/hamed0406/capprobe/internal/domain"
)

// HashProbe hashes a password with bcrypt and verifies it.
type HashProbe struct {
	Cost     int
	Password string
}

func (p *HashProbe) Name() string { return "hash" }

func (p *HashProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	cost := p.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	pw := p.Password
	if pw == "" {
		pw = "testpassword"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return fail("Hash", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(pw)); err != nil {
		return fail("Hash", err)
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(pw+"x")) == nil {
		return domain.Failure("Hash", "hash matched a wrong password"), nil
	}

	// bcrypt raises costs below MinCost to DefaultCost; report what was used.
	used, err := bcrypt.Cost(hash)
	if err != nil {
		return fail("Hash", err)
	}
	return ok(map[string]string{
		"cost":   strconv.Itoa(used),
		"prefix": string(hash[:7]) + "...",
	})
}
