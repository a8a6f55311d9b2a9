package multipart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Kind tells the encoder how a value travels in the body.
type Kind int

const (
	// Scalar values are written as a single text part.
	Scalar Kind = iota
	// JSON values are marshalled and written as one text part.
	JSON
	// List values are written as repeated name[] text parts.
	List
	// File values are a single binary part.
	File
	// Files values are repeated name[] binary parts.
	Files
)

// MethodField is the Laravel method-override field.
const MethodField = "_method"

// Schema maps field names to their Kind. Unlisted fields are Scalar.
type Schema map[string]Kind

// Upload is one binary part.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Body is an encoded multipart payload.
type Body struct {
	Buf         *bytes.Buffer
	ContentType string
}

// Encode writes values into a multipart body. Nil values and nil pointers are skipped.
// Field order is sorted by name so bodies are reproducible.
func Encode(schema Schema, values map[string]any) (*Body, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		value, ok := deref(values[name])
		if !ok {
			continue
		}
		errs = multierr.Append(errs, writeField(w, name, schema[name], value))
	}
	errs = multierr.Append(errs, w.Close())
	if errs != nil {
		return nil, errs
	}
	return &Body{Buf: buf, ContentType: w.FormDataContentType()}, nil
}

func writeField(w *multipart.Writer, name string, kind Kind, value any) error {
	switch kind {
	case JSON:
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("field %s: marshal json: %w", name, err)
		}
		return w.WriteField(name, string(raw))
	case List:
		items, err := asSlice(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		var errs error
		for _, item := range items {
			text, err := formatScalar(item)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("field %s: %w", name, err))
				continue
			}
			errs = multierr.Append(errs, w.WriteField(name+"[]", text))
		}
		return errs
	case File:
		upload, err := asUpload(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		return writeUpload(w, name, upload)
	case Files:
		uploads, err := asUploads(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		var errs error
		for _, upload := range uploads {
			errs = multierr.Append(errs, writeUpload(w, name+"[]", upload))
		}
		return errs
	default:
		text, err := formatScalar(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		return w.WriteField(name, text)
	}
}

func writeUpload(w *multipart.Writer, name string, upload Upload) error {
	filename := upload.Filename
	if filename == "" {
		filename = "upload"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(name), escapeQuotes(filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("field %s: create part: %w", name, err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return fmt.Errorf("field %s: write part: %w", name, err)
	}
	return nil
}

func formatScalar(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case interface{ FormValue() string }:
		return v.FormValue(), nil
	case fmt.Stringer:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("unsupported scalar type %T", value)
}

func asSlice(value any) ([]any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice, got %T", value)
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out, nil
}

func asUpload(value any) (Upload, error) {
	switch v := value.(type) {
	case Upload:
		return v, nil
	case *Upload:
		return *v, nil
	}
	return Upload{}, fmt.Errorf("expected Upload, got %T", value)
}

func asUploads(value any) ([]Upload, error) {
	switch v := value.(type) {
	case []Upload:
		return v, nil
	case []*Upload:
		out := make([]Upload, 0, len(v))
		for _, u := range v {
			if u != nil {
				out = append(out, *u)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected []Upload, got %T", value)
}

// deref unwraps pointers and reports false for nil values.
func deref(value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		if rv.Type().Elem() == reflect.TypeOf(Upload{}) {
			return value, true
		}
		rv = rv.Elem()
		value = rv.Interface()
	}
	return value, true
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
