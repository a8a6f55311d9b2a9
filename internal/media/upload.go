package media

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/multipart"
)

// DefaultMaxBytes is the per-file cap used when none is configured.
const DefaultMaxBytes int64 = 2 * 1024 * 1024

// Policy accepts or rejects uploaded files for one slot.
type Policy struct {
	Kind     Kind
	MaxBytes int64
}

// NewPolicy builds a policy; maxBytes <= 0 falls back to DefaultMaxBytes.
func NewPolicy(kind Kind, maxBytes int64) Policy {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return Policy{Kind: kind, MaxBytes: maxBytes}
}

// Accept sniffs data and returns it as an upload part, or a validation error
// naming the accepted types or the size cap.
func (p Policy) Accept(filename string, data []byte) (multipart.Upload, error) {
	if len(data) == 0 {
		return multipart.Upload{}, pkgerrors.New(pkgerrors.CodeValidation, "Boş dosya yüklenemez.")
	}
	limit := p.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	if int64(len(data)) > limit {
		return multipart.Upload{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("Dosya boyutu en fazla %s olabilir.", humanSize(limit))).
			WithDetails(map[string]any{"size": len(data), "max": limit})
	}

	detected := mimetype.Detect(data)
	contentType := ""
	for _, allowed := range mimeTypesByKind[p.Kind] {
		if detected.Is(allowed) {
			contentType = allowed
			break
		}
	}
	if contentType == "" {
		return multipart.Upload{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("Yalnızca %s dosyaları yüklenebilir.", allowedMimeDescription(p.Kind))).
			WithDetails(map[string]any{"detected": detected.String()})
	}

	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "upload" + detected.Extension()
	}
	return multipart.Upload{Filename: name, ContentType: contentType, Data: data}, nil
}

func humanSize(n int64) string {
	const mb = 1024 * 1024
	if n%mb == 0 {
		return fmt.Sprintf("%d MB", n/mb)
	}
	return fmt.Sprintf("%d KB", n/1024)
}
