package validators

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/kermes/kermes-panel/internal/form"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
)

// PayloadField carries the JSON form state in multipart submissions.
const PayloadField = "payload"

const defaultMultipartMemory = 32 << 20

// Submission is a decoded form post: the JSON state plus any uploaded files by field.
type Submission struct {
	Files map[string][]form.File
}

// First returns the first file uploaded under field.
func (s Submission) First(field string) (form.File, bool) {
	files := s.Files[field]
	if len(files) == 0 {
		return form.File{}, false
	}
	return files[0], true
}

// DecodeSubmission reads either a JSON body or a multipart body whose payload field holds
// the JSON state. maxBytes caps the whole request; <= 0 uses 32MB.
func DecodeSubmission(w http.ResponseWriter, r *http.Request, dest any, maxBytes int64) (Submission, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return Submission{}, DecodeJSON(r, dest)
	}
	if maxBytes <= 0 {
		maxBytes = defaultMultipartMemory
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(defaultMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Submission{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Yüklenen dosyalar çok büyük.")
		}
		return Submission{}, invalidBody(err)
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	if raw := strings.TrimSpace(r.FormValue(PayloadField)); raw != "" {
		if err := json.Unmarshal([]byte(raw), dest); err != nil {
			return Submission{}, invalidBody(err)
		}
	}

	sub := Submission{Files: map[string][]form.File{}}
	for field, headers := range r.MultipartForm.File {
		name := strings.TrimSuffix(field, "[]")
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				return Submission{}, invalidBody(err)
			}
			data, err := io.ReadAll(file)
			_ = file.Close()
			if err != nil {
				return Submission{}, invalidBody(err)
			}
			sub.Files[name] = append(sub.Files[name], form.File{Name: header.Filename, Data: data})
		}
	}
	return sub, nil
}
