package session

import (
	"encoding"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"unicode/utf8"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "invalid"
	}
}

// Value is a session field value. It is a closed union of the types every
// Codec can round-trip: strings, 64-bit integers, booleans, and lists or
// string-keyed maps of those.
type Value struct {
	kind Kind
	str  string
	num  int64
	flag bool
	list []Value
	dict map[string]Value
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer Value.
func Int(n int64) Value { return Value{kind: KindInt, num: n} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List returns a list Value. The slice is copied.
func List(items ...Value) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Map returns a map Value. The map is copied.
func Map(m map[string]Value) Value {
	dict := make(map[string]Value, len(m))
	maps.Copy(dict, m)
	return Value{kind: KindMap, dict: dict}
}

// ValueOf converts a Go value into a Value.
// Supported inputs are string, bool, all signed and unsigned integer types
// (unsigned values must fit into int64), encoding.TextMarshaler (stored as
// string), Value, []Value, []string, []any, map[string]any, map[string]string
// and map[string]Value, recursively. Anything else, including floats and
// strings that are not valid UTF-8, fails with ErrUnsupportedValue.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, x.validate()
	case string:
		if !utf8.ValidString(x) {
			return Value{}, fmt.Errorf("%w: string is not valid UTF-8", ErrUnsupportedValue)
		}
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case []Value:
		for _, item := range x {
			if err := item.validate(); err != nil {
				return Value{}, err
			}
		}
		return List(x...), nil
	case []string:
		items := make([]Value, 0, len(x))
		for _, s := range x {
			item, err := ValueOf(s)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindList, list: items}, nil
	case []any:
		items := make([]Value, 0, len(x))
		for i, elem := range x {
			item, err := ValueOf(elem)
			if err != nil {
				return Value{}, fmt.Errorf("list index %d: %w", i, err)
			}
			items = append(items, item)
		}
		return Value{kind: KindList, list: items}, nil
	case map[string]Value:
		for k, item := range x {
			if !utf8.ValidString(k) {
				return Value{}, fmt.Errorf("%w: map key is not valid UTF-8", ErrUnsupportedValue)
			}
			if err := item.validate(); err != nil {
				return Value{}, err
			}
		}
		return Map(x), nil
	case map[string]string:
		dict := make(map[string]Value, len(x))
		for k, s := range x {
			item, err := ValueOf(s)
			if err != nil {
				return Value{}, err
			}
			if !utf8.ValidString(k) {
				return Value{}, fmt.Errorf("%w: map key is not valid UTF-8", ErrUnsupportedValue)
			}
			dict[k] = item
		}
		return Value{kind: KindMap, dict: dict}, nil
	case map[string]any:
		dict := make(map[string]Value, len(x))
		for k, elem := range x {
			if !utf8.ValidString(k) {
				return Value{}, fmt.Errorf("%w: map key is not valid UTF-8", ErrUnsupportedValue)
			}
			item, err := ValueOf(elem)
			if err != nil {
				return Value{}, fmt.Errorf("map key %q: %w", k, err)
			}
			dict[k] = item
		}
		return Value{kind: KindMap, dict: dict}, nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return Value{}, errors.Join(ErrUnsupportedValue, err)
		}
		return ValueOf(string(text))
	case nil:
		return Value{}, fmt.Errorf("%w: nil", ErrUnsupportedValue)
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: integer %d overflows int64", ErrUnsupportedValue, u)
	}
	return Int(int64(u)), nil
}

// validate rejects zero Values and invalid UTF-8 anywhere in the tree.
func (v Value) validate() error {
	switch v.kind {
	case KindString:
		if !utf8.ValidString(v.str) {
			return fmt.Errorf("%w: string is not valid UTF-8", ErrUnsupportedValue)
		}
	case KindInt, KindBool:
	case KindList:
		for _, item := range v.list {
			if err := item.validate(); err != nil {
				return err
			}
		}
	case KindMap:
		for k, item := range v.dict {
			if !utf8.ValidString(k) {
				return fmt.Errorf("%w: map key is not valid UTF-8", ErrUnsupportedValue)
			}
			if err := item.validate(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: zero value", ErrUnsupportedValue)
	}
	return nil
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) { return v.num, v.kind == KindInt }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) { return v.flag, v.kind == KindBool }

// List returns a copy of the list held by v.
func (v Value) List() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Map returns a copy of the map held by v.
func (v Value) Map() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	dict := make(map[string]Value, len(v.dict))
	maps.Copy(dict, v.dict)
	return dict, true
}

// Interface converts v back into plain Go values:
// string, int64, bool, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindBool:
		return v.flag
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.dict))
		for k, item := range v.dict {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports whether v and other hold the same variant and contents.
// Empty and nil lists or maps are equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindInt:
		return v.num == other.num
	case KindBool:
		return v.flag == other.flag
	case KindList:
		return slices.EqualFunc(v.list, other.list, Value.Equal)
	case KindMap:
		return maps.EqualFunc(v.dict, other.dict, Value.Equal)
	default:
		return true
	}
}
