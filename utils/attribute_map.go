package utils

import (
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// AttributeMap is a loosely typed configuration record, as produced by decoding a JSON or YAML
// document into a map.
type AttributeMap map[string]interface{}

// Has returns whether the given key is present.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// String returns the string stored at name, or "" when absent. It panics on a non-string value.
func (am AttributeMap) String(name string) string {
	x := am[name]
	if x == nil {
		return ""
	}
	if s, ok := x.(string); ok {
		return s
	}
	panic(errors.Errorf("wanted a string for (%s) but got (%v) %T", name, x, x))
}

// StringSlice returns the list of strings stored at name. It panics when any element is not a
// string.
func (am AttributeMap) StringSlice(name string) []string {
	x := am[name]
	if x == nil {
		return nil
	}
	switch v := x.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, elem := range v {
			s, ok := elem.(string)
			if !ok {
				panic(errors.Errorf("values in (%s) need to be strings but got %T", name, elem))
			}
			out = append(out, s)
		}
		return out
	}
	panic(errors.Errorf("wanted a []string for (%s) but got (%v) %T", name, x, x))
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format.
// Fields are matched on their `json` tag.
func TransformAttributeMap[T any](attributes AttributeMap) (T, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT == nil {
		// nothing to transform
		return out, nil
	}
	if toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           forResult,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.DecodeHookFuncType(wholeNumberHook),
		),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(map[string]interface{}(attributes)); err != nil {
		return out, err
	}
	return out, nil
}

// wholeNumberHook refuses to truncate a fractional number into an integer field. JSON numbers
// always arrive as float64.
func wholeNumberHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if f := reflect.ValueOf(data).Float(); f != math.Trunc(f) {
		return nil, errors.Errorf("%v is not a whole number", f)
	}
	return data, nil
}
