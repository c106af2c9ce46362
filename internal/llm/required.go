package llm

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// missingFields lists the required keys absent from tree, the generic
// decoding of a JSON document into T. A struct field is required unless it
// is a pointer or tagged omitempty, so zero values the model left out are
// never mistaken for answers. Paths read like "weeks[2].volume".
func missingFields[T any](tree any) []string {
	var missing []string
	collectMissing(reflect.TypeFor[T](), tree, "", &missing)
	return missing
}

func collectMissing(t reflect.Type, v any, path string, missing *[]string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if v == nil || decodesItself(t) {
		return
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return
		}
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, optional, skip := jsonField(f)
			if skip {
				continue
			}
			if f.Anonymous && name == "" {
				collectMissing(f.Type, obj, path, missing)
				continue
			}
			val, present := lookupKey(obj, name)
			if !present {
				if !optional && f.Type.Kind() != reflect.Pointer {
					*missing = append(*missing, joinPath(path, name))
				}
				continue
			}
			collectMissing(f.Type, val, joinPath(path, name), missing)
		}
	case reflect.Slice, reflect.Array:
		items, ok := v.([]any)
		if !ok {
			return
		}
		for i, item := range items {
			collectMissing(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i), missing)
		}
	}
}

// jsonField reports the key for f. An untagged embedded struct yields an
// empty name so its fields are promoted.
func jsonField(f reflect.StructField) (name string, optional, skip bool) {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	optional = strings.Contains(","+opts+",", ",omitempty,") || strings.Contains(","+opts+",", ",omitzero,")
	if name == "" && !f.Anonymous {
		name = f.Name
	}
	return name, optional, false
}

// lookupKey matches keys the way encoding/json does: exact first, then
// case-insensitive.
func lookupKey(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

func decodesItself(t reflect.Type) bool {
	pt := reflect.PointerTo(t)
	return pt.Implements(jsonUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
