package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes a strict JSON body into dest and runs its validate tags.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return invalidBody(err)
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// DecodeJSON decodes a form submission into dest. Forms validate themselves before saving,
// so no tags are checked here and unknown fields are ignored.
func DecodeJSON(r *http.Request, dest any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return invalidBody(err)
	}
	return nil
}

func invalidBody(err error) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Geçersiz istek gövdesi.").WithDetails(map[string]any{"error": err.Error()})
}

func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := pkgerrors.FieldErrors{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = []string{validationMessage(fieldErr)}
		}
		return pkgerrors.Validation("Lütfen formdaki hataları düzeltin.", details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Lütfen formdaki hataları düzeltin.")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Bu alan zorunludur."
	case "min":
		return fmt.Sprintf("En az %s olmalıdır.", fe.Param())
	case "max":
		return fmt.Sprintf("En fazla %s olmalıdır.", fe.Param())
	case "email":
		return "Geçerli bir e-posta adresi giriniz."
	}
	return "Geçersiz değer."
}
