package internal

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// htmlEscaper applies the fixed escaping table. strings.Replacer replaces in a single
// pass, so "&" is never re-escaped in the output of the other entries.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// EscapeHTML escapes &, <, >, " and ' for safe inclusion in HTML.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Stringify converts any value to its template string form.
//   - nil -> ""
//   - bool -> "true"/"false"
//   - sequence -> elements joined by ", "
//   - dictionary -> {k1=v1, k2=v2} with keys sorted
func Stringify(v any) string {
	if v == nil {
		return StringValueEmpty
	}
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return StringValueTrue
		}
		return StringValueFalse
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, IntBase10)
	case float64:
		return strconv.FormatFloat(val, FloatFormatFlag, FloatPrecisionAll, FloatBitSize64)
	case float32:
		return strconv.FormatFloat(float64(val), FloatFormatFlag, FloatPrecisionAll, 32)
	case []any:
		return joinStrings(val)
	case map[string]any:
		return stringifyDict(val)
	case fmt.Stringer:
		return val.String()
	}

	if seq, ok := AsSequence(v); ok {
		return joinStrings(seq)
	}
	if dict, ok := AsDictionary(v); ok {
		return stringifyDict(dict)
	}
	return fmt.Sprintf("%v", v)
}

func joinStrings(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = Stringify(item)
	}
	return strings.Join(parts, SequenceJoiner)
}

func stringifyDict(dict map[string]any) string {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(DictOpen)
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(SequenceJoiner)
		}
		sb.WriteString(k)
		sb.WriteString(DictKeyValueSep)
		sb.WriteString(Stringify(dict[k]))
	}
	sb.WriteString(DictClose)
	return sb.String()
}

// AsSequence returns v as a []any when it is a slice or array. Strings are not sequences.
func AsSequence(v any) ([]any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case []any:
		return val, true
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return []any{}, true
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// AsDictionary returns v as a map[string]any when it is a map with string keys.
func AsDictionary(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return val, true
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, s := range val {
			out[k] = s
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// WalkPath resolves a dotted path against a dictionary. Whitespace around segments is
// ignored. It reports false when a segment is missing or an intermediate value is not a
// dictionary.
func WalkPath(root map[string]any, path string) (any, bool) {
	if root == nil || strings.TrimSpace(path) == StringValueEmpty {
		return nil, false
	}

	var current any = root
	for _, segment := range strings.Split(path, StrPathSeparator) {
		dict, ok := AsDictionary(current)
		if !ok {
			return nil, false
		}
		val, ok := dict[strings.TrimSpace(segment)]
		if !ok {
			return nil, false
		}
		current = val
	}
	return current, true
}

// IsTruthy determines the truthiness of a value
// Truthiness rules:
// - nil -> false
// - bool -> value
// - string -> len(s) > 0
// - number -> n != 0
// - slice/map -> len(x) > 0
// - anything else -> true
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}

	if n, ok := ToNumber(v); ok {
		return n != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}

// ToNumber converts any numeric type to float64.
func ToNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// CoerceNumber converts v for ordered comparison. Numeric strings are parsed;
// everything else that is not a number becomes 0.
func CoerceNumber(v any) float64 {
	if n, ok := ToNumber(v); ok {
		return n
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), FloatBitSize64); err == nil {
			return n
		}
	}
	return 0
}

// CompareEqual implements value equality between two resolved operands.
func CompareEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}

	aNum, aIsNum := ToNumber(a)
	bNum, bIsNum := ToNumber(b)
	if aIsNum && bIsNum {
		return aNum == bNum
	}

	aBool, aIsBool := a.(bool)
	bBool, bIsBool := b.(bool)
	if aIsBool && bIsBool {
		return aBool == bBool
	}

	return Stringify(a) == Stringify(b)
}

// CopyDict returns a shallow copy of m; nil yields an empty map.
func CopyDict(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
