package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/surveypool/search-api/internal/model"
)

// RegisterValidators installs domain validators on gin's binding engine.
// Call once at startup before routes are served.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("timerange", validTimeRange); err != nil {
		return err
	}

	// Report field names as their json tags so validation errors match the
	// wire format clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return fld.Name
		}
		return name
	})

	return nil
}

func validTimeRange(fl validator.FieldLevel) bool {
	return model.TimeRange(fl.Field().String()).Valid()
}
