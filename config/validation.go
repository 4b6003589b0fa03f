package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/gaborage/requestkit/codec"
	"github.com/gaborage/requestkit/request"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks field constraints, then the values that must parse into
// request and retry types. It returns the first problem as a *ConfigError.
func Validate(cfg *Config) error {
	if err := structValidator().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}

	if _, err := request.ParseMethod(cfg.Request.Method); err != nil {
		return NewInvalidFieldError("request.method", err.Error(), nil)
	}
	if _, err := codec.ParseContentType(cfg.Request.ContentType); err != nil {
		return NewInvalidFieldError("request.contenttype", err.Error(),
			[]string{string(codec.JSON), string(codec.JPEG), string(codec.PNG)})
	}
	if _, err := request.ParseCachePolicy(cfg.Request.CachePolicy); err != nil {
		return NewInvalidFieldError("request.cachepolicy", err.Error(), nil)
	}
	if _, err := cfg.Retry.Build(); err != nil {
		return NewInvalidFieldError("retry", err.Error(), nil)
	}
	return nil
}

func fieldError(fe validator.FieldError) *ConfigError {
	// Namespace is "Config.retry.maxattempts"; drop the root type name.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required", "required_if":
		return NewMissingFieldError(field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())),
			strings.Fields(fe.Param()))
	case "gte":
		return NewInvalidFieldError(field, fmt.Sprintf("must be at least %s", fe.Param()), nil)
	default:
		return NewInvalidFieldError(field, fmt.Sprintf("failed %s validation", fe.Tag()), nil)
	}
}
