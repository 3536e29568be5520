package http

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"wishlist-service/pkg/errors"
)

var (
	customerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,50}$`)
	productIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)
)

var validate = newPathValidator()

func newPathValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report path parameter names instead of Go field names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("param"); name != "" {
			return name
		}
		return field.Name
	})

	mustRegister(v, "customer_id", customerIDPattern)
	mustRegister(v, "product_id", productIDPattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

type customerParams struct {
	CustomerID string `param:"customerId" validate:"customer_id"`
}

type customerProductParams struct {
	CustomerID string `param:"customerId" validate:"customer_id"`
	ProductID  string `param:"productId" validate:"product_id"`
}

// pathParam returns the named chi URL parameter decoded exactly once.
// chi routes on RawPath when the request carries one, so its params are
// still escaped; otherwise they come from the already decoded Path.
func pathParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return raw, nil
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.NewInvalidParameterTypeError(name, "string")
	}
	return decoded, nil
}

// validateParams runs the struct rules and renders failures as VALIDATION_ERROR.
func validateParams(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError("Invalid input parameters")
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fe.Field(), ruleFor(fe.Tag())))
	}
	return errors.NewValidationError("Invalid input parameters: " + strings.Join(msgs, "; "))
}

func ruleFor(tag string) string {
	switch tag {
	case "customer_id":
		return "must match " + customerIDPattern.String()
	case "product_id":
		return "must match " + productIDPattern.String()
	default:
		return fmt.Sprintf("failed on '%s' validation", tag)
	}
}
