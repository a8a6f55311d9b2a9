package form

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Messages maps "field" or "field.tag" to the message shown for a failed rule.
type Messages map[string]string

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return f.Name
			}
			return tag
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// Validate runs the struct's validate tags and returns messages keyed by json field name.
func Validate(v any, messages Messages) Errors {
	errs := Errors{}
	err := validatorInstance().Struct(v)
	if err == nil {
		return errs
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Set("form", err.Error())
		return errs
	}
	for _, fe := range verrs {
		field := fe.Field()
		if _, exists := errs[field]; exists {
			continue
		}
		errs.Set(field, messageFor(fe, messages))
	}
	return errs
}

func messageFor(fe validator.FieldError, messages Messages) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required", "notblank":
		return "Bu alan zorunludur."
	case "min", "gte":
		return fmt.Sprintf("En az %s olmalıdır.", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("En fazla %s olmalıdır.", fe.Param())
	case "gt":
		return fmt.Sprintf("%s değerinden büyük olmalıdır.", fe.Param())
	case "email":
		return "Geçerli bir e-posta adresi giriniz."
	case "url":
		return "Geçerli bir adres giriniz."
	case "oneof":
		return "Geçersiz seçim."
	}
	return "Geçersiz değer."
}
