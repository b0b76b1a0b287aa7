package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateSDRRequest checks an inbound pipeline request against its
// struct tags. The pipeline refuses to start on a malformed request;
// this is the only pre-step failure the service reports.
func ValidateSDRRequest(req *SDRRequest) error {
	if req == nil {
		return fmt.Errorf("request is nil")
	}
	if err := validate.Struct(req); err != nil {
		var errs validator.ValidationErrors
		if ok := asValidationErrors(err, &errs); ok && len(errs) > 0 {
			f := errs[0]
			return fmt.Errorf("invalid request: field %q failed %q validation", f.Field(), f.Tag())
		}
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	e, ok := err.(validator.ValidationErrors)
	if ok {
		*target = e
	}
	return ok
}
