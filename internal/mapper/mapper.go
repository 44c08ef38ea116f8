// Package mapper translates extractor output into the canonical entity
// schema: renames, unit conversion, date parsing and enum coercion.
//
// Mappers never fetch anything. Field mappings are copied before they are
// modified, so an extractor result can be mapped more than once.
package mapper

import (
	"maps"
	"strconv"
	"strings"

	"github.com/lildude/stravaweb/internal/extract"
	"github.com/lildude/stravaweb/internal/model"
)

// Rename moves the value at from to to, passing it through fn when fn is not
// nil. Nothing is set when from is absent or fn returns nil. With FillMissing
// a truthy value already at to is kept and from is left in place.
func Rename(d extract.Fields, from, to string, p model.Policy, fn func(any) any) {
	if p == model.FillMissing && truthy(d[to]) {
		return
	}
	v, ok := d[from]
	delete(d, from)
	if !ok || v == nil {
		return
	}
	if fn != nil {
		if v = fn(v); v == nil {
			return
		}
	}
	d[to] = v
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case extract.Fields:
		return len(t) > 0
	}
	return true
}

func clone(d extract.Fields) extract.Fields {
	if d == nil {
		return extract.Fields{}
	}
	return maps.Clone(d)
}

// asFields accepts both decoded JSON objects and extractor-built maps.
func asFields(v any) (extract.Fields, bool) {
	switch t := v.(type) {
	case extract.Fields:
		return t, true
	case map[string]any:
		return extract.Fields(t), true
	}
	return nil, false
}

func str(d extract.Fields, k string) string {
	switch t := d[k].(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

func number(d extract.Fields, k string) float64 {
	switch t := d[k].(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(strings.ReplaceAll(t, ",", ""), 64)
		return f
	}
	return 0
}

func integer(d extract.Fields, k string) int64 {
	switch t := d[k].(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		i, _ := strconv.ParseInt(t, 10, 64)
		return i
	}
	return int64(number(d, k))
}

func boolean(d extract.Fields, k string) bool {
	switch t := d[k].(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	}
	return false
}

// idString formats a JSON number id without a fractional part.
func idString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case string:
		return t
	}
	return ""
}

func prefixed(prefix string) func(any) any {
	return func(v any) any {
		id := idString(v)
		if id == "" {
			return nil
		}
		return prefix + id
	}
}

func location(d extract.Fields, k string) *model.LatLng {
	pair, ok := d[k].([]any)
	if !ok || len(pair) != 2 {
		return nil
	}
	lat, ok1 := pair[0].(float64)
	lng, ok2 := pair[1].(float64)
	if !ok1 || !ok2 {
		return nil
	}
	return &model.LatLng{Lat: lat, Lng: lng}
}
