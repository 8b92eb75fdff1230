package validations

import (
	"context"

	"github.com/AzielCF/az-gym/gymaccess/domain"
	pkgError "github.com/AzielCF/az-gym/pkg/error"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateAccessRequest solo exige la cédula; una cédula desconocida se resuelve como denegación
func ValidateAccessRequest(ctx context.Context, request domain.AccessRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Cedula, validation.Required, validation.Length(1, 32)),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

// ValidateHistoryFilter controla paginado y rango de fechas del historial
func ValidateHistoryFilter(ctx context.Context, filter domain.HistoryFilter) error {
	err := validation.ValidateStructWithContext(ctx, &filter,
		validation.Field(&filter.Page, validation.Min(0)),
		validation.Field(&filter.Limit, validation.Min(0)),
		validation.Field(&filter.StartDate, validation.Date("2006-01-02")),
		validation.Field(&filter.EndDate, validation.Date("2006-01-02")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}

func ValidateStatsFilter(ctx context.Context, filter domain.StatsFilter) error {
	err := validation.ValidateStructWithContext(ctx, &filter,
		validation.Field(&filter.StartDate, validation.Date("2006-01-02")),
		validation.Field(&filter.EndDate, validation.Date("2006-01-02")),
	)
	if err != nil {
		return pkgError.ValidationError(err.Error())
	}
	return nil
}
