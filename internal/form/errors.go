package form

import (
	"sort"
	"strings"

	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
)

// Errors holds the per-field messages of one form screen.
type Errors map[string][]string

// Set replaces the messages of field.
func (e Errors) Set(field string, messages ...string) {
	if len(messages) == 0 {
		e.Clear(field)
		return
	}
	e[field] = append([]string(nil), messages...)
}

// MergeFields sets exactly the fields present in fields and leaves every other slot alone.
func (e Errors) MergeFields(fields pkgerrors.FieldErrors) {
	for field, messages := range fields {
		e.Set(field, messages...)
	}
}

// Merge applies the field map of a validation error. It reports false for any other error.
func (e Errors) Merge(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return false
	}
	e.MergeFields(typed.FieldErrors())
	return true
}

// Clear empties the slot of a field the user just edited.
func (e Errors) Clear(field string) {
	delete(e, field)
}

// First returns the first message of field.
func (e Errors) First(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the fields with messages, sorted.
func (e Errors) Fields() []string {
	fields := make([]string, 0, len(e))
	for field, msgs := range e {
		if len(msgs) > 0 {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// Empty reports whether no field has a message.
func (e Errors) Empty() bool {
	return len(e.Fields()) == 0
}

// Summary joins the first message of every field, one per line, for the blocking dialog.
func (e Errors) Summary() string {
	lines := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		lines = append(lines, e[field][0])
	}
	return strings.Join(lines, "\n")
}

// AsError wraps the messages as a validation error, nil when empty. The message is
// SummaryTitle followed by the summary lines.
func (e Errors) AsError() error {
	if e.Empty() {
		return nil
	}
	fields := pkgerrors.FieldErrors{}
	for _, field := range e.Fields() {
		fields[field] = append([]string(nil), e[field]...)
	}
	return pkgerrors.Validation(SummaryTitle+"\n"+e.Summary(), fields)
}

// Reported folds a validation error into a fresh field map and rewraps it so its message
// carries the summary. Other errors are returned unchanged.
func Reported(err error) error {
	errs := Errors{}
	if !errs.Merge(err) {
		return err
	}
	if out := errs.AsError(); out != nil {
		return out
	}
	return err
}

// SummaryTitle heads the validation dialog.
const SummaryTitle = "Lütfen aşağıdaki hataları düzeltiniz:"
