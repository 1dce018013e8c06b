package comments

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"unicode/utf8"
)

// Param is one query parameter. Order is preserved on encoding.
type Param struct {
	Key   string
	Value any
}

// componentUnescaper undoes the escapes QueryEscape applies to characters
// browsers leave alone in URI components.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Query encodes params as key=value pairs joined with "&". Zero values
// (nil, "", 0, false) are dropped entirely rather than sent empty.
func Query(params ...Param) string {
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		v, ok := truthy(p.Value)
		if !ok {
			continue
		}
		pairs = append(pairs, p.Key+"="+escapeComponent(fmt.Sprint(v)))
	}
	return strings.Join(pairs, "&")
}

// escapeComponent percent-encodes s as a URI component. Invalid UTF-8 runs are
// sent as U+FFFD instead of as raw bytes.
func escapeComponent(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// truthy dereferences pointers and reports whether the value is worth sending.
func truthy(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if rv.IsZero() {
		return nil, false
	}
	return rv.Interface(), true
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
