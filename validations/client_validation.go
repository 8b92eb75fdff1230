package validations

import (
	"context"
	"regexp"

	"github.com/AzielCF/az-gym/clients/domain"
	pkgError "github.com/AzielCF/az-gym/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// cédulas con o sin puntos y guion verificador
var ciPattern = regexp.MustCompile(`^[0-9][0-9.\-]{0,14}$`)

func ValidateCreateClient(ctx context.Context, request domain.CreateClientRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.CI, validation.Required, validation.Match(ciPattern)),
		validation.Field(&request.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&request.Email, is.EmailFormat),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
