package output

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSONFormatter renders values as JSON with sorted object keys and a
// four-space indent, so output is stable across runs.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, v any) error {
	normalized, err := normalize(v)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(normalized)
}

// normalize round-trips v through encoding/json so that structs become maps
// and every object is emitted with sorted keys. Numbers keep their original
// text.
func normalize(v any) (any, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
