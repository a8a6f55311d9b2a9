// Package resourcetest provides an in-memory stand-in for the REST API used by service tests.
package resourcetest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	stdmultipart "mime/multipart"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/pkg/multipart"
)

// API answers requests keyed by "METHOD path" and records every request it sees.
type API struct {
	mu        sync.Mutex
	responses map[string]string
	errs      map[string]error
	requests  []apiclient.Request
}

func New() *API {
	return &API{responses: map[string]string{}, errs: map[string]error{}}
}

// Respond registers a JSON body for method and path.
func (a *API) Respond(method, path, body string) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[key(method, path)] = body
	return a
}

// Fail registers an error for method and path.
func (a *API) Fail(method, path string, err error) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs[key(method, path)] = err
	return a
}

func (a *API) Do(_ context.Context, req apiclient.Request, out any) error {
	a.mu.Lock()
	a.requests = append(a.requests, req)
	k := key(req.Method, req.Path)
	err, failing := a.errs[k]
	body, ok := a.responses[k]
	a.mu.Unlock()

	if failing {
		return err
	}
	if !ok {
		return fmt.Errorf("resourcetest: no response for %s", k)
	}
	if out == nil || body == "" {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

// Requests returns a copy of the recorded requests.
func (a *API) Requests() []apiclient.Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]apiclient.Request(nil), a.requests...)
}

// Last returns the most recent request, failing the test when there is none.
func (a *API) Last(t *testing.T) apiclient.Request {
	t.Helper()
	reqs := a.Requests()
	if len(reqs) == 0 {
		t.Fatalf("expected at least one request")
	}
	return reqs[len(reqs)-1]
}

// Query returns the query of req, never nil.
func Query(req apiclient.Request) url.Values {
	if req.Query == nil {
		return url.Values{}
	}
	return req.Query
}

// Form decodes a multipart request body.
func Form(t *testing.T, req apiclient.Request) *stdmultipart.Form {
	t.Helper()
	body, ok := req.Body.(*multipart.Body)
	if !ok {
		t.Fatalf("expected multipart body, got %T", req.Body)
	}
	_, params, err := mime.ParseMediaType(body.ContentType)
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	reader := stdmultipart.NewReader(bytes.NewReader(body.Buf.Bytes()), params["boundary"])
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read multipart form: %v", err)
	}
	return form
}

// FileBytes reads the first file part stored under field.
func FileBytes(t *testing.T, form *stdmultipart.Form, field string) []byte {
	t.Helper()
	headers := form.File[field]
	if len(headers) == 0 {
		t.Fatalf("expected file under %q", field)
	}
	f, err := headers[0].Open()
	if err != nil {
		t.Fatalf("open %q: %v", field, err)
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read %q: %v", field, err)
	}
	return data
}

func key(method, path string) string {
	return strings.ToUpper(method) + " " + strings.Trim(path, "/")
}
