package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Flag is a boolean that tolerates the 0/1, "0"/"1" and true/false encodings
// the REST API uses for is_active.
type Flag bool

// Int returns 1 or 0.
func (f Flag) Int() int {
	if f {
		return 1
	}
	return 0
}

// FormValue returns the "1"/"0" encoding used in multipart bodies.
func (f Flag) FormValue() string {
	if f {
		return "1"
	}
	return "0"
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("true"), nil
	}
	return []byte("false"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		*f = false
		return nil
	}
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(strings.TrimSpace(s))
	}
	switch strings.ToLower(string(raw)) {
	case "1", "true":
		*f = true
	case "0", "false", "":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}
