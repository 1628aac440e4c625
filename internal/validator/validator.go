package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	idlocale "github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	idtranslations "github.com/go-playground/validator/v10/translations/id"
)

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// First returns the first message, used for the operator notification.
func (ve ValidationErrors) First() string {
	if len(ve) == 0 {
		return ""
	}
	return ve[0].Message
}

// IsValidationError reports whether err carries field validation failures.
func IsValidationError(err error) bool {
	var ve ValidationErrors
	return errors.As(err, &ve)
}

// FromDecodeError turns a request body that could not be decoded into a single
// field error, so it is reported like any other rejected form.
func FromDecodeError(err error) ValidationErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		message := fmt.Sprintf("%s tidak valid", typeErr.Field)
		switch typeErr.Type.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64, reflect.Float64:
			message = fmt.Sprintf("%s harus berupa angka", typeErr.Field)
		case reflect.String:
			message = fmt.Sprintf("%s harus berupa teks", typeErr.Field)
		}
		return ValidationErrors{{Field: typeErr.Field, Message: message, Value: typeErr.Value, Rule: "type"}}
	}
	return ValidationErrors{{Message: "format data tidak valid", Rule: "payload"}}
}

// Validator validates request structs and reports messages in Indonesian.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
	business *BusinessValidator
}

func New() *Validator {
	validate := validator.New()

	locale := idlocale.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("id")
	_ = idtranslations.RegisterDefaultTranslations(validate, trans)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v := &Validator{validate: validate, trans: trans}
	v.business = newBusinessValidator(v)
	v.business.registerBusinessRules()
	return v
}

// Validate runs struct validation. It returns nil when s is valid.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	return v.toValidationErrors(err)
}

func (v *Validator) GetBusinessValidator() *BusinessValidator {
	return v.business
}

func (v *Validator) toValidationErrors(err error) ValidationErrors {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error(), Rule: "invalid"}}
	}

	res := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		res = append(res, ValidationError{
			Field:   fe.Field(),
			Message: fe.Translate(v.trans),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return res
}

// registerTranslation registers an Indonesian message for a custom tag.
func (v *Validator) registerTranslation(tag, text string) {
	_ = v.validate.RegisterTranslation(
		tag, v.trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
