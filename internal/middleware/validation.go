package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/rapaugustino/global-internet-usage/internal/errors"
)

// validate is the shared validator instance. validator caches struct
// metadata, so a single instance is the cheapest option.
var validate = validator.New()

// ValidateStruct validates a decoded request or query struct and converts
// validator failures into a field-level APIError.
func ValidateStruct(s interface{}) *apierrors.APIError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.New(http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	}

	fields := make([]apierrors.ValidationError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
		})
	}
	return apierrors.NewValidationErrors(fields)
}

// QueryInt parses an optional integer query parameter, returning def when the
// parameter is absent.
func QueryInt(values url.Values, key string, def int) (int, *apierrors.APIError) {
	raw := values.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(key, "must be an integer")
	}
	return n, nil
}

// QueryYearRange parses optional from/to year parameters and checks ordering.
// 0 on either side means "use the configured bound"; the service layer
// resolves the sentinel, so ordering is only checked when both ends are set.
func QueryYearRange(values url.Values, defFrom, defTo int) (from, to int, apiErr *apierrors.APIError) {
	from, apiErr = QueryInt(values, "from", defFrom)
	if apiErr != nil {
		return 0, 0, apiErr
	}
	to, apiErr = QueryInt(values, "to", defTo)
	if apiErr != nil {
		return 0, 0, apiErr
	}
	if from != 0 && to != 0 && from > to {
		return 0, 0, apierrors.ErrValidation("from", "must not be greater than to")
	}
	return from, to, nil
}
