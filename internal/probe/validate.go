package probe

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hamed0406/capprobe/internal/domain"
)

type userInput struct {
	Name  string `validate:"required,min=3,max=30"`
	Email string `validate:"required,email"`
}

// ValidateProbe checks that the validator accepts a well-formed user and
// rejects a malformed one.
type ValidateProbe struct {
	validate *validator.Validate
}

func NewValidateProbe() *ValidateProbe {
	return &ValidateProbe{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (p *ValidateProbe) Name() string { return "validate" }

func (p *ValidateProbe) Execute(ctx context.Context) (domain.Outcome, error) {
	if p.validate == nil {
		p.validate = validator.New(validator.WithRequiredStructEnabled())
	}

	good := userInput{Name: "Test User", Email: "test@example.com"}
	if err := p.validate.StructCtx(ctx, good); err != nil {
		return fail("Validation", err)
	}

	bad := userInput{Name: "Al", Email: "not-an-email"}
	err := p.validate.StructCtx(ctx, bad)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Failure("Validation", "malformed input was accepted"), nil
	}

	rejected := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rejected = append(rejected, fe.Field()+":"+fe.Tag())
	}
	return ok(map[string]string{
		"valid":    "passed",
		"rejected": strings.Join(rejected, ","),
	})
}
