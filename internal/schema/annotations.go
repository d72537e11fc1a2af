package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// annotationList decodes an annotations object while keeping key order,
// which encoding/json maps would lose.
type annotationList []Annotation

func (l *annotationList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*l = nil
		return nil
	}
	var out annotationList
	err := eachMember(b, func(name string, raw json.RawMessage) error {
		a := Annotation{Name: name}
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			props, err := decodeProps(raw)
			if err != nil {
				return fmt.Errorf("annotation %s: %w", name, err)
			}
			a.Props = props
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return err
	}
	*l = out
	return nil
}

func decodeProps(raw json.RawMessage) ([]Property, error) {
	props := []Property{}
	err := eachMember(raw, func(key string, v json.RawMessage) error {
		val, err := decodeValue(v)
		if err != nil {
			return fmt.Errorf("property %s: %w", key, err)
		}
		props = append(props, Property{Key: key, Value: val})
		return nil
	})
	return props, err
}

func decodeValue(raw json.RawMessage) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Value{}, err
	}
	return toValue(v)
}

func toValue(v any) (Value, error) {
	switch x := v.(type) {
	case string:
		return Str(x), nil
	case json.Number:
		return Num(x.String()), nil
	case bool:
		return Bool(x), nil
	case []any:
		list := make([]Value, 0, len(x))
		for _, item := range x {
			iv, err := toValue(item)
			if err != nil {
				return Value{}, err
			}
			list = append(list, iv)
		}
		return List(list...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value %v, want string, number, boolean or array", v)
	}
}

// eachMember walks the members of a JSON object in source order.
func eachMember(b []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("expected an object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
