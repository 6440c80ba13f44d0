package recovery

import "fmt"

// Kind describes the expected shape of a schema field value.
type Kind int

const (
	// KindString expects a single string value.
	KindString Kind = iota + 1
	// KindStringList expects an array of strings.
	KindStringList
	// KindObjectList expects an array of objects with fixed string keys.
	KindObjectList
)

// Field declares one expected key of a recovered document.
type Field struct {
	Name string
	Kind Kind
	Keys []string // required string keys of each item, KindObjectList only
}

// Schema declares the shape a recovered document must satisfy.
// Keys not declared here are ignored rather than rejected.
type Schema struct {
	Fields []Field
}

// apply validates a parsed JSON value against the schema and coerces it into
// a map of typed values. Two lenient coercions are allowed because models
// produce them constantly: a bare top-level array stands in for a document
// with a single list field, and a lone string stands in for a one-element
// list. Values of the wrong underlying type are always rejected.
func (s *Schema) apply(value any) (map[string]any, error) {
	// Bare array responses bind to the schema's only list field
	if list, ok := value.([]any); ok {
		if field, ok := s.soleListField(); ok {
			value = map[string]any{field.Name: list}
		}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, not an object", ErrSchemaMismatch, value)
	}

	result := make(map[string]any, len(s.Fields))
	for _, field := range s.Fields {
		raw, ok := obj[field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrSchemaMismatch, field.Name)
		}

		coerced, err := coerceField(field, raw)
		if err != nil {
			return nil, err
		}
		result[field.Name] = coerced
	}
	return result, nil
}

func (s *Schema) soleListField() (Field, bool) {
	var found Field
	count := 0
	for _, field := range s.Fields {
		if field.Kind == KindStringList || field.Kind == KindObjectList {
			found = field
			count++
		}
	}
	return found, count == 1 && len(s.Fields) == 1
}

func coerceField(field Field, raw any) (any, error) {
	switch field.Kind {
	case KindString:
		return coerceString(field.Name, raw)
	case KindStringList:
		return coerceStringList(field.Name, raw)
	case KindObjectList:
		return coerceObjectList(field, raw)
	}
	return nil, fmt.Errorf("%w: field %q has unknown kind", ErrSchemaMismatch, field.Name)
}

func coerceString(name string, raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []any:
		if len(v) == 1 {
			if s, ok := v[0].(string); ok {
				return s, nil
			}
		}
	}
	return "", fmt.Errorf("%w: key %q is %T, not a string", ErrSchemaMismatch, name, raw)
}

func coerceStringList(name string, raw any) ([]string, error) {
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %q contains %T, not a string", ErrSchemaMismatch, name, item)
			}
			items = append(items, s)
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: key %q is %T, not a string list", ErrSchemaMismatch, name, raw)
}

func coerceObjectList(field Field, raw any) ([]map[string]string, error) {
	var list []any
	switch v := raw.(type) {
	case map[string]any:
		list = []any{v}
	case []any:
		list = v
	default:
		return nil, fmt.Errorf("%w: key %q is %T, not an object list", ErrSchemaMismatch, field.Name, raw)
	}

	items := make([]map[string]string, 0, len(list))
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: key %q contains %T, not an object", ErrSchemaMismatch, field.Name, entry)
		}
		item := make(map[string]string, len(field.Keys))
		for _, key := range field.Keys {
			value, ok := obj[key].(string)
			if !ok {
				return nil, fmt.Errorf("%w: key %q item lacks string %q", ErrSchemaMismatch, field.Name, key)
			}
			item[key] = value
		}
		items = append(items, item)
	}
	return items, nil
}
