package validators

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appt "github.com/BruksfildServices01/vetclinic-api/internal/domain/appointment"
)

// RegisterBindingRules adds the project rules to gin's validator:
//
//	notblank   non-empty after trimming spaces
//	isodate    YYYY-MM-DD calendar date
//	timeofday  HH:MM or HH:MM:SS
func RegisterBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		"isodate": func(fl validator.FieldLevel) bool {
			_, ok := appt.ParseDate(fl.Field().String())
			return ok
		},
		"timeofday": func(fl validator.FieldLevel) bool {
			_, ok := appt.ParseTimeOfDay(fl.Field().String())
			return ok
		},
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("registering %s: %w", tag, err)
		}
	}
	return nil
}
