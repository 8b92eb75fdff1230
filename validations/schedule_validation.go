package validations

import (
	"context"

	pkgError "github.com/AzielCF/az-gym/pkg/error"
	"github.com/AzielCF/az-gym/pkg/timeutils"
	"github.com/AzielCF/az-gym/schedules/domain"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func ValidateCreateSlot(ctx context.Context, request domain.CreateSlotRequest) error {
	days := make([]any, 0, 7)
	for _, d := range timeutils.DayNames() {
		days = append(days, d)
	}

	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Day, validation.Required, validation.In(days...)),
		validation.Field(&request.StartTime, validation.Required, validation.By(validTime)),
		validation.Field(&request.EndTime, validation.Required, validation.By(validTime)),
		validation.Field(&request.MaxCount, validation.Min(0)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func validTime(value any) error {
	s, _ := value.(string)
	if _, err := timeutils.MinutesOfDay(s); err != nil {
		return validation.NewError("validation_time", "must be an hour (19) or HH:MM")
	}
	return nil
}
