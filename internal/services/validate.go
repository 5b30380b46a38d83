package services

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"site-intel-service/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors match request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs tag validation and returns the first failure as a
// *domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	fe := verrs[0]
	return &domain.ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag() + " check"
}

func requireFinite(field string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &domain.ValidationError{Field: field, Reason: "must be a finite number"}
		}
	}
	return nil
}

// floorInt floors a non-negative estimate into an int, rejecting values an
// int cannot hold.
func floorInt(field string, v float64) (int, error) {
	f := math.Floor(v)
	if math.IsNaN(f) || f < 0 || f >= math.MaxInt {
		return 0, &domain.ValidationError{Field: field, Reason: "is too large to estimate"}
	}
	return int(f), nil
}

// requireFiniteResult rejects an estimate whose derived figures overflowed.
func requireFiniteResult(field string, vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &domain.ValidationError{Field: field, Reason: "is too large to estimate"}
		}
	}
	return nil
}
