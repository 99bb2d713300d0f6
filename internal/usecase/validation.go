package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var inputValidator = validator.New(validator.WithRequiredStructEnabled())

func validateInput(ctx context.Context, payload any) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.validateInput")
	defer span.End()

	if err := inputValidator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", ErrInvalidInput, err)
	}

	return nil
}
