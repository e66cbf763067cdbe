package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/fhuszti/athlete-portfolio-go/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// error maps are keyed by JSON names, the Go name is the fallback
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister("category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	mustRegister("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(model.DateLayout, fl.Field().String())
		return err == nil
	})
	mustRegister("filename", func(fl validator.FieldLevel) bool {
		return validFilename(fl.Field().String())
	})
}

// validFilename accepts a bare file name: no directory part, no control characters,
// and something other than dots and spaces.
func validFilename(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return false
	}
	meaningful := false
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
		if r != '.' && !unicode.IsSpace(r) {
			meaningful = true
		}
	}
	return meaningful
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ErrorsToJson renders validation errors as a {"field":"tag"} JSON object.
func ErrorsToJson(validationErrs error) (string, error) {
	var verrs validator.ValidationErrors
	if !errors.As(validationErrs, &verrs) {
		return "", validationErrs
	}

	errsMap := make(map[string]string)
	for _, fieldErr := range verrs {
		errsMap[fieldErr.Field()] = fieldErr.Tag()
	}

	errsJson, err := json.Marshal(errsMap)
	if err != nil {
		return "", err
	}
	return string(errsJson), nil
}
