package execute

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// fieldSet marshals fields as JSON object in the order of the selection set.
// Go maps don't keep insertion order.
type fieldSet struct {
	fields []graphql.CollectedField
	values []graphql.Marshaler
}

func (s *fieldSet) MarshalGQL(w io.Writer) {
	_, _ = io.WriteString(w, "{")
	for i, field := range s.fields {
		if i != 0 {
			_, _ = io.WriteString(w, ",")
		}
		graphql.MarshalString(field.Alias).MarshalGQL(w)
		_, _ = io.WriteString(w, ":")
		value := s.values[i]
		if value == nil {
			value = graphql.Null
		}
		value.MarshalGQL(w)
	}
	_, _ = io.WriteString(w, "}")
}

// Complete a Scalar or Enum by serializing to a valid value.
func completeLeafValue(def *ast.Definition, result interface{}) (graphql.Marshaler, error) {
	if m, ok := result.(graphql.Marshaler); ok {
		return m, nil
	}

	if def.Kind == ast.Enum {
		s, ok := toString(result)
		if !ok || def.EnumValues.ForName(s) == nil {
			return graphql.Null, gqlerror.Errorf(`Enum "%s" cannot represent value: %v`, def.Name, result)
		}
		return graphql.MarshalString(s), nil
	}

	switch def.Name {
	case "String":
		s, ok := toString(result)
		if !ok {
			return graphql.Null, gqlerror.Errorf("String cannot represent value: %v", result)
		}
		return graphql.MarshalString(s), nil

	case "ID":
		if s, ok := toString(result); ok {
			return graphql.MarshalString(s), nil
		}
		if i, ok := toInt64(result); ok {
			return graphql.MarshalString(strconv.FormatInt(i, 10)), nil
		}
		return graphql.Null, gqlerror.Errorf("ID cannot represent value: %v", result)

	case "Int":
		i, ok := toInt64(result)
		if !ok || i > math.MaxInt32 || i < math.MinInt32 {
			return graphql.Null, gqlerror.Errorf("Int cannot represent value: %v", result)
		}
		return graphql.MarshalInt64(i), nil

	case "Float":
		f, ok := toFloat64(result)
		if !ok {
			return graphql.Null, gqlerror.Errorf("Float cannot represent value: %v", result)
		}
		return graphql.MarshalFloat(f), nil

	case "Boolean":
		b, ok := result.(bool)
		if !ok {
			return graphql.Null, gqlerror.Errorf("Boolean cannot represent value: %v", result)
		}
		return graphql.MarshalBoolean(b), nil
	}

	// custom scalars
	switch result := result.(type) {
	case time.Time:
		return graphql.MarshalTime(result), nil
	case string:
		return graphql.MarshalString(result), nil
	case bool:
		return graphql.MarshalBoolean(result), nil
	case json.Number:
		return graphql.MarshalAny(result), nil
	}
	if i, ok := toInt64(result); ok {
		return graphql.MarshalInt64(i), nil
	}
	if f, ok := toFloat64(result); ok {
		return graphql.MarshalFloat(f), nil
	}
	return graphql.MarshalAny(result), nil
}

func toString(v interface{}) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func toInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case float32:
		if float64(v) != math.Trunc(float64(v)) {
			return 0, false
		}
		return int64(v), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toSlice(v interface{}) ([]interface{}, bool) {
	if list, ok := v.([]interface{}); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	list := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		list[i] = rv.Index(i).Interface()
	}
	return list, true
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// DefaultFieldResolver takes the property of source named as the field.
// source may be a map with string keys, a struct (json tag or field name) or a value with a method
// named as the field that takes no argument and returns a value and optionally an error.
func DefaultFieldResolver(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	fc := graphql.GetFieldContext(ctx)
	if fc == nil {
		panic("ctx doesn't have FieldContext")
	}
	name := fc.Field.Name

	if isNil(source) {
		return nil, nil
	}
	if source, ok := source.(map[string]interface{}); ok {
		return source[name], nil
	}

	rv := reflect.ValueOf(source)
	if v, ok, err := callMethod(rv, name); ok {
		return v, err
	}

	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, nil
		}
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil

	case reflect.Struct:
		if v, ok := structField(rv, name); ok {
			return v.Interface(), nil
		}
	}

	return nil, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callMethod(rv reflect.Value, name string) (interface{}, bool, error) {
	typ := rv.Type()
	for i := 0; i < typ.NumMethod(); i++ {
		method := typ.Method(i)
		if !strings.EqualFold(method.Name, name) {
			continue
		}
		// receiver is the first argument
		if method.Type.NumIn() != 1 {
			continue
		}

		out := rv.Method(i).Call(nil)
		switch len(out) {
		case 1:
			return out[0].Interface(), true, nil
		case 2:
			if !out[1].Type().Implements(errorType) {
				return nil, false, nil
			}
			if err, _ := out[1].Interface().(error); err != nil {
				return nil, true, err
			}
			return out[0].Interface(), true, nil
		}
	}
	return nil, false, nil
}

func structField(rv reflect.Value, name string) (reflect.Value, bool) {
	typ := rv.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			// unexported
			continue
		}
		tagName := strings.Split(field.Tag.Get("json"), ",")[0]
		if tagName == "-" {
			continue
		}
		if tagName == name || (tagName == "" && strings.EqualFold(field.Name, name)) {
			return rv.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// DefaultTypeResolver uses `__typename` of a map value, or the Go type name of a struct value.
func DefaultTypeResolver(ctx context.Context, value interface{}, abstractType *ast.Definition) (string, error) {
	if value, ok := value.(map[string]interface{}); ok {
		typename, _ := value["__typename"].(string)
		return typename, nil
	}

	typ := reflect.TypeOf(value)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ != nil && typ.Kind() == reflect.Struct {
		return typ.Name(), nil
	}

	return "", nil
}
