package probe

import (
	"context"
	"errors"
	"net/mail"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hamed0406/capprobe/internal/domain"
)

// FakeDataProbe generates a fake user and checks the fields are usable.
type FakeDataProbe struct {
	Seed uint64 // 0 picks a random seed
}

func (p *FakeDataProbe) Name() string { return "fakedata" }

func (p *FakeDataProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	f := gofakeit.New(p.Seed)

	name := f.Name()
	email := f.Email()
	addr := f.Address()
	if name == "" || addr == nil || addr.Address == "" {
		return fail("FakeData", errors.New("generator returned empty fields"))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fail("FakeData", err)
	}

	return ok(map[string]string{
		"name":    name,
		"email":   email,
		"address": addr.Address,
	})
}
