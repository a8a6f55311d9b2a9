package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/kermes/kermes-panel/pkg/errors"
	"github.com/kermes/kermes-panel/pkg/types"
)

// DecodeRecord unwraps an optional {"data": ...} envelope around a single record.
func DecodeRecord[T any](raw json.RawMessage) (T, error) {
	var zero T
	inner, err := unwrapData(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(inner, &out); err != nil {
		return zero, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode record")
	}
	return out, nil
}

// DecodeList reads the {"data": {"data": [...], "total": n}} list convention.
// A flat {"data": [...], "total": n} body is accepted too.
func DecodeList[T any](raw json.RawMessage) (types.Page[T], error) {
	var outer struct {
		Data  json.RawMessage `json:"data"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(raw, &outer); err != nil {
		return types.Page[T]{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode list envelope")
	}

	trimmed := bytes.TrimSpace(outer.Data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []T
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return types.Page[T]{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode list rows")
		}
		return types.Page[T]{Data: nonNil(rows), Total: outer.Total}, nil
	}

	var page types.Page[T]
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return types.Page[T]{Data: []T{}}, nil
	}
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return types.Page[T]{}, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode list page")
	}
	page.Data = nonNil(page.Data)
	return page, nil
}

func unwrapData(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if len(trimmed) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeUpstream, "empty api response")
		}
		return trimmed, nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, fmt.Sprintf("decode envelope (%d bytes)", len(trimmed)))
	}
	if data, ok := top["data"]; ok {
		return data, nil
	}
	return trimmed, nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
