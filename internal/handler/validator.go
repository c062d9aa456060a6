package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo.Validator.  Field
// errors report the JSON field name.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator returns a validator for request DTOs.
func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// validationFailure answers 422 with one entry per invalid field.  Errors that
// are not field validation errors are treated as a malformed body.
func validationFailure(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": "invalid body"})
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, typ := "invalid value", "value_error"
		if fe.Tag() == "required" {
			msg, typ = "field required", "missing"
		}
		out = append(out, fieldError{Loc: []string{"body", fe.Field()}, Msg: msg, Type: typ})
	}
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": out})
}
