package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a validator with the custom tags used by request DTOs:
// motivo accepts the cancellation reasons 01 to 04.
func New() *validatorv10.Validate {
	v := validatorv10.New(validatorv10.WithRequiredStructEnabled())

	_ = v.RegisterValidation("motivo", func(fl validatorv10.FieldLevel) bool {
		switch fl.Field().String() {
		case "01", "02", "03", "04":
			return true
		}

		return false
	})

	// notblank rejects strings made only of whitespace.
	_ = v.RegisterValidation("notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// DecodeJSON decodes the request body into out and validates it.
func DecodeJSON(r *http.Request, out any, v *validatorv10.Validate) error {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := v.Struct(out); err != nil {
		return fmt.Errorf("validation failed: %s", fieldErrors(err))
	}

	return nil
}

func fieldErrors(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}

	return strings.Join(fields, ", ")
}
