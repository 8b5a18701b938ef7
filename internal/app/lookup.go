package app

import (
	"strconv"
	"strings"
)

/********** tiny payload helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// lookupSlice returns the []map at path, dropping non-object elements.
func lookupSlice(m map[string]any, path string) []map[string]any {
	raw, ok := lookupAny(m, path).([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, it := range raw {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

// asFloat coerces a JSON number-ish value (float64/int/string) to float64.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(t, ",", "."))
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// lookupFloat returns the first numeric value among paths, or 0,false.
func lookupFloat(m map[string]any, paths ...string) (float64, bool) {
	for _, p := range paths {
		if f, ok := asFloat(lookupAny(m, p)); ok {
			return f, true
		}
	}
	return 0, false
}

// lookupInt returns the first integral value among paths as *int.
func lookupInt(m map[string]any, paths ...string) *int {
	if f, ok := lookupFloat(m, paths...); ok {
		n := int(f)
		return &n
	}
	return nil
}

// amountValue unwraps a price/credit that may be a bare number or a
// {"parsedValue": n} envelope.
func amountValue(v any) (float64, bool) {
	if obj, ok := v.(map[string]any); ok {
		return asFloat(obj["parsedValue"])
	}
	return asFloat(v)
}
