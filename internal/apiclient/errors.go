package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
)

// GenericErrorMessage is shown when the API gives no usable message.
const GenericErrorMessage = "Bir hata oluştu! Lütfen tekrar deneyin."

const validationFallbackMessage = "Lütfen formdaki hataları düzeltin."

// LoginRequiredMessage is used for 401 responses without a message of their own.
const LoginRequiredMessage = "oturum açmanız gerekiyor"

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func errorFromResponse(status int, body []byte) *pkgerrors.Error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	message := strings.TrimSpace(parsed.Message)
	if message == "" {
		message = strings.TrimSpace(parsed.Error)
	}
	cause := fmt.Errorf("api status %d", status)

	var out *pkgerrors.Error
	switch status {
	case http.StatusUnprocessableEntity:
		if message == "" {
			message = validationFallbackMessage
		}
		fields := pkgerrors.FieldErrors{}
		for field, msgs := range parsed.Errors {
			fields[field] = append([]string(nil), msgs...)
		}
		out = pkgerrors.Wrap(pkgerrors.CodeValidation, cause, message).WithDetails(fields)
	case http.StatusUnauthorized:
		out = pkgerrors.Wrap(pkgerrors.CodeUnauthorized, ErrLoginRequired, orDefault(message, LoginRequiredMessage))
	case http.StatusForbidden:
		out = pkgerrors.Wrap(pkgerrors.CodeForbidden, cause, orDefault(message, GenericErrorMessage))
	case http.StatusNotFound:
		out = pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, orDefault(message, "Kayıt bulunamadı."))
	case http.StatusTooManyRequests:
		out = pkgerrors.Wrap(pkgerrors.CodeRateLimit, cause, orDefault(message, GenericErrorMessage))
	default:
		out = pkgerrors.Wrap(pkgerrors.CodeUpstream, cause, orDefault(message, GenericErrorMessage))
	}
	return out.WithUpstreamStatus(status)
}

// MessageOf extracts the best user-facing message from err, falling back to GenericErrorMessage.
func MessageOf(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		if msg := strings.TrimSpace(typed.Message()); msg != "" {
			return msg
		}
	}
	return GenericErrorMessage
}

// FieldErrorsOf returns the 422 field map carried by err, nil for other failures.
func FieldErrorsOf(err error) pkgerrors.FieldErrors {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return nil
	}
	return typed.FieldErrors()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
