package session

import (
	"errors"
	"fmt"
	"time"
)

// Codec turns a session into the bytes kept in a Store and back.
//
// Decode must fail with an error wrapping ErrDecode on malformed input and
// must never panic. The manager treats a decode failure as a missing
// session.
type Codec interface {
	Encode(s *Session) ([]byte, error)
	Decode(data []byte) (*Session, error)
}

const recordVersion = 1

const (
	wireString = "s"
	wireInt    = "i"
	wireBool   = "b"
	wireList   = "l"
	wireMap    = "m"
)

// wireRecord is the persisted shape shared by the built-in codecs.
type wireRecord struct {
	Version    int                  `json:"v"`
	Revision   uint64               `json:"rev"`
	CreatedAt  int64                `json:"created"`
	AccessedAt int64                `json:"accessed"`
	Fields     map[string]wireValue `json:"fields,omitempty"`
}

type wireValue struct {
	Kind string               `json:"k"`
	Str  string               `json:"s,omitempty"`
	Int  int64                `json:"i,omitempty"`
	Bool bool                 `json:"b,omitempty"`
	List []wireValue          `json:"l,omitempty"`
	Map  map[string]wireValue `json:"m,omitempty"`
}

func toWire(s *Session) wireRecord {
	rec := wireRecord{
		Version:    recordVersion,
		Revision:   s.revision,
		CreatedAt:  s.createdAt.UnixNano(),
		AccessedAt: s.accessedAt.UnixNano(),
	}
	if len(s.fields) > 0 {
		rec.Fields = make(map[string]wireValue, len(s.fields))
		for k, v := range s.fields {
			rec.Fields[k] = toWireValue(v)
		}
	}
	return rec
}

func toWireValue(v Value) wireValue {
	switch v.kind {
	case KindString:
		return wireValue{Kind: wireString, Str: v.str}
	case KindInt:
		return wireValue{Kind: wireInt, Int: v.num}
	case KindBool:
		return wireValue{Kind: wireBool, Bool: v.flag}
	case KindList:
		items := make([]wireValue, len(v.list))
		for i, item := range v.list {
			items[i] = toWireValue(item)
		}
		return wireValue{Kind: wireList, List: items}
	case KindMap:
		dict := make(map[string]wireValue, len(v.dict))
		for k, item := range v.dict {
			dict[k] = toWireValue(item)
		}
		return wireValue{Kind: wireMap, Map: dict}
	default:
		return wireValue{}
	}
}

func fromWire(rec wireRecord) (*Session, error) {
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("%w: unknown record version %d", ErrDecode, rec.Version)
	}
	s := &Session{
		fields:     make(map[string]Value, len(rec.Fields)),
		createdAt:  time.Unix(0, rec.CreatedAt),
		accessedAt: time.Unix(0, rec.AccessedAt),
		revision:   rec.Revision,
	}
	for k, wv := range rec.Fields {
		v, err := fromWireValue(wv)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		s.fields[k] = v
	}
	return s, nil
}

func fromWireValue(wv wireValue) (Value, error) {
	switch wv.Kind {
	case wireString:
		return String(wv.Str), nil
	case wireInt:
		return Int(wv.Int), nil
	case wireBool:
		return Bool(wv.Bool), nil
	case wireList:
		items := make([]Value, len(wv.List))
		for i, item := range wv.List {
			v, err := fromWireValue(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return Value{kind: KindList, list: items}, nil
	case wireMap:
		dict := make(map[string]Value, len(wv.Map))
		for k, item := range wv.Map {
			v, err := fromWireValue(item)
			if err != nil {
				return Value{}, err
			}
			dict[k] = v
		}
		return Value{kind: KindMap, dict: dict}, nil
	default:
		return Value{}, fmt.Errorf("%w: unknown value kind %q", ErrDecode, wv.Kind)
	}
}

// decodeGuard converts a panic inside a third-party decoder into ErrDecode.
func decodeGuard(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: decoder panic: %v", ErrDecode, r)
	}
}

func wrapDecode(err error) error {
	if errors.Is(err, ErrDecode) {
		return err
	}
	return errors.Join(ErrDecode, err)
}
