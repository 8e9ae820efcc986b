package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// fencePattern matches the first triple-backtick block, optionally tagged json
var fencePattern = regexp.MustCompile("(?s)```(?:json)?(.*?)```")

// Object is a weakly typed JSON object as decoded from a response
type Object = map[string]any

// ParseObject decodes raw response text into a JSON object. A direct parse is tried
// first, then the interior of the first fenced code block. Anything else, including a
// JSON value that is not an object, is a MalformedResponseError.
func ParseObject(raw string) (Object, error) {
	obj, err := decodeObject(raw)
	if err == nil {
		return obj, nil
	}

	if m := fencePattern.FindStringSubmatch(raw); m != nil && strings.TrimSpace(m[1]) != "" {
		fenced, fencedErr := decodeObject(m[1])
		if fencedErr == nil {
			return fenced, nil
		}
		err = fencedErr
	}

	return nil, &MalformedResponseError{Raw: raw, Cause: err}
}

func decodeObject(text string) (Object, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(text)))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected content after JSON value")
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", kindOf(value))
	}
	return obj, nil
}

// Marshal encodes v for an outbound prompt without HTML escaping
func Marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
