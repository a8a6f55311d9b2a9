package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kermes/kermes-panel/internal/apiclient"
	"github.com/kermes/kermes-panel/pkg/logger"
	"github.com/kermes/kermes-panel/pkg/multipart"
	"github.com/kermes/kermes-panel/pkg/types"
)

// API is the transport surface a resource service needs.
type API interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

// Record is an entity row that list screens can patch in place.
type Record[T any] interface {
	RecordID() int64
	WithActive(active types.Flag) T
}

// Multiparter is implemented by payloads that carry files.
type Multiparter interface {
	MultipartSchema() multipart.Schema
	MultipartValues() map[string]any
}

// StatusResult is the outcome of a status toggle.
type StatusResult[T any] struct {
	Record   T          `json:"record"`
	IsActive types.Flag `json:"is_active"`
	// Message is an advisory the caller must show, e.g. side effects on overlapping discounts.
	Message string `json:"message,omitempty"`
}

// Service maps CRUD intents on one entity to its fixed REST routes.
type Service[T any] struct {
	api  API
	base string
	logg *logger.Logger
}

// New builds a service rooted at base (e.g. "admin/product").
func New[T any](api API, base string, logg *logger.Logger) *Service[T] {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service[T]{api: api, base: strings.Trim(base, "/"), logg: logg}
}

// Base returns the REST path the service is rooted at.
func (s *Service[T]) Base() string {
	return s.base
}

// Path joins segments under the service base.
func (s *Service[T]) Path(segments ...string) string {
	parts := append([]string{s.base}, segments...)
	return strings.Join(parts, "/")
}

// List loads one page and unwraps the {data: {data, total}} envelope.
func (s *Service[T]) List(ctx context.Context, params ListParams) (types.Page[T], error) {
	var raw json.RawMessage
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: s.base, Query: params.Query()}, &raw); err != nil {
		return types.Page[T]{}, s.fail(ctx, "list", err)
	}
	page, err := apiclient.DecodeList[T](raw)
	if err != nil {
		return types.Page[T]{}, s.fail(ctx, "list", err)
	}
	return page, nil
}

// FetchByID loads one record, unwrapping an optional {data} envelope.
func (s *Service[T]) FetchByID(ctx context.Context, id int64) (T, error) {
	var zero T
	var raw json.RawMessage
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: s.idPath(id)}, &raw); err != nil {
		return zero, s.fail(ctx, "fetch", err)
	}
	record, err := apiclient.DecodeRecord[T](raw)
	if err != nil {
		return zero, s.fail(ctx, "fetch", err)
	}
	return record, nil
}

// Add creates a record. Multiparter payloads are sent as multipart, everything else as JSON.
func (s *Service[T]) Add(ctx context.Context, payload any) (T, error) {
	var zero T
	body, err := encodeBody(payload, "")
	if err != nil {
		return zero, s.fail(ctx, "add", err)
	}
	var raw json.RawMessage
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: s.base, Body: body}, &raw); err != nil {
		return zero, s.fail(ctx, "add", err)
	}
	return s.decodeOptional(ctx, "add", raw)
}

// Update replaces a record. Multipart updates are POSTed with _method=PUT.
func (s *Service[T]) Update(ctx context.Context, id int64, payload any) (T, error) {
	var zero T
	method := http.MethodPut
	if _, ok := payload.(Multiparter); ok {
		method = http.MethodPost
	}
	body, err := encodeBody(payload, http.MethodPut)
	if err != nil {
		return zero, s.fail(ctx, "update", err)
	}
	var raw json.RawMessage
	if err := s.api.Do(ctx, apiclient.Request{Method: method, Path: s.idPath(id), Body: body}, &raw); err != nil {
		return zero, s.fail(ctx, "update", err)
	}
	return s.decodeOptional(ctx, "update", raw)
}

// Delete removes a record.
func (s *Service[T]) Delete(ctx context.Context, id int64) error {
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: s.idPath(id)}, nil); err != nil {
		return s.fail(ctx, "delete", err)
	}
	return nil
}

// ChangeStatus toggles is_active on the server and returns the new flag plus any advisory message.
func (s *Service[T]) ChangeStatus(ctx context.Context, id int64) (StatusResult[T], error) {
	var raw json.RawMessage
	path := s.Path(fmt.Sprint(id), "change-status")
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: path}, &raw); err != nil {
		return StatusResult[T]{}, s.fail(ctx, "change_status", err)
	}
	result, err := decodeStatus[T](raw)
	if err != nil {
		return StatusResult[T]{}, s.fail(ctx, "change_status", err)
	}
	return result, nil
}

// Fetch GETs an auxiliary endpoint under the service base (e.g. "create") into out.
func (s *Service[T]) Fetch(ctx context.Context, suffix string, query url.Values, out any) error {
	var raw json.RawMessage
	if err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: s.Path(strings.Trim(suffix, "/")), Query: query}, &raw); err != nil {
		return s.fail(ctx, suffix, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return s.fail(ctx, suffix, fmt.Errorf("decode %s response: %w", suffix, err))
	}
	return nil
}

func (s *Service[T]) idPath(id int64) string {
	return s.Path(fmt.Sprint(id))
}

func (s *Service[T]) decodeOptional(ctx context.Context, op string, raw json.RawMessage) (T, error) {
	var zero T
	if len(raw) == 0 {
		return zero, nil
	}
	record, err := apiclient.DecodeRecord[T](raw)
	if err != nil {
		return zero, s.fail(ctx, op, err)
	}
	return record, nil
}

// fail logs err with the operation and resource, then hands it back unchanged.
func (s *Service[T]) fail(ctx context.Context, op string, err error) error {
	ctx = s.logg.WithFields(s.logg.WithResource(ctx, s.base), logger.Fields{
		"op":    op,
		"error": err.Error(),
	})
	s.logg.Warn(ctx, "resource.request.failed")
	return err
}

func encodeBody(payload any, override string) (any, error) {
	m, ok := payload.(Multiparter)
	if !ok {
		return payload, nil
	}
	values := m.MultipartValues()
	if values == nil {
		values = map[string]any{}
	}
	if override != "" {
		values[multipart.MethodField] = override
	}
	return multipart.Encode(m.MultipartSchema(), values)
}

func decodeStatus[T any](raw json.RawMessage) (StatusResult[T], error) {
	if len(raw) == 0 {
		return StatusResult[T]{}, fmt.Errorf("empty status response")
	}
	var envelope struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return StatusResult[T]{}, fmt.Errorf("decode status response: %w", err)
	}

	body := raw
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		body = envelope.Data
	}

	var result StatusResult[T]
	var inner struct {
		IsActive types.Flag `json:"is_active"`
		Message  string     `json:"message"`
	}
	if err := json.Unmarshal(body, &inner); err != nil {
		return StatusResult[T]{}, fmt.Errorf("decode status flag: %w", err)
	}
	if err := json.Unmarshal(body, &result.Record); err != nil {
		return StatusResult[T]{}, fmt.Errorf("decode status record: %w", err)
	}
	result.IsActive = inner.IsActive
	result.Message = strings.TrimSpace(envelope.Message)
	if result.Message == "" {
		result.Message = strings.TrimSpace(inner.Message)
	}
	return result, nil
}
