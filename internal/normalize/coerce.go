package normalize

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// listSeparators splits a delimited string into list entries: newline, comma,
// semicolon and the common CJK and bullet punctuation marks
var listSeparators = regexp.MustCompile(`[\n,;，、。；！？•·●◦]+`)

// textKeys are tried in order when a list element is an object
var textKeys = []string{"text", "content", "value", "highlight", "point", "bullet", "desc", "description", "summary"}

// SplitList splits s on the list separators, trimming entries and dropping empties
func SplitList(s string) []string {
	parts := listSeparators.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Text extracts a single string from an arbitrary JSON value. Strings are trimmed,
// numbers and booleans are formatted, and objects yield the first non-empty string
// under one of the known text keys, then any non-empty string property in key order.
// Everything else yields "".
func Text(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return formatNumber(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case map[string]any:
		for _, key := range textKeys {
			if s, ok := val[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := val[k].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// StringList coerces a JSON value into a flat list of non-empty strings.
// It never fails; an unusable value yields an empty list.
func StringList(v any) []string {
	switch val := v.(type) {
	case []any:
		return textsOf(val)
	case string:
		return SplitList(val)
	case map[string]any:
		if items, ok := val["items"].([]any); ok {
			return textsOf(items)
		}
		if single := Text(val); single != "" {
			return []string{single}
		}
	}
	return []string{}
}

// Skills coerces the skills field and drops entries that repeat the previous one
func Skills(v any) []string {
	list := StringList(v)
	out := make([]string, 0, len(list))
	for _, s := range list {
		if len(out) > 0 && out[len(out)-1] == s {
			continue
		}
		out = append(out, s)
	}
	return out
}

func textsOf(items []any) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := Text(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// objects coerces a section value into a list of objects: an array keeps its object
// elements, an object with an items array is unwrapped, and a lone object is a
// one-element list
func objects(v any) []Object {
	switch val := v.(type) {
	case []any:
		out := make([]Object, 0, len(val))
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out
	case map[string]any:
		if items, ok := val["items"].([]any); ok {
			return objects(items)
		}
		return []Object{val}
	}
	return nil
}

// formatNumber writes n in its shortest plain form: "1e3" becomes "1000" and
// "2.50" becomes "2.5". Integers keep full precision.
func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}
