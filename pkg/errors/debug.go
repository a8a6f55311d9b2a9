package errors

import (
	"errors"
	"fmt"
	"sort"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int      `json:"upstream_status,omitempty"`
	Fields         []string `json:"fields,omitempty"`
}

// Dump flattens err into log-friendly fields.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
		d.UpstreamStatus = te.UpstreamStatus()
		for field := range te.FieldErrors() {
			d.Fields = append(d.Fields, field)
		}
		sort.Strings(d.Fields)
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	return d
}
