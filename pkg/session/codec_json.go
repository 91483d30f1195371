package session

import (
	"encoding/json"
)

// JSONCodec stores sessions as JSON. It is the default codec.
type JSONCodec struct{}

func (JSONCodec) Encode(s *Session) ([]byte, error) {
	return json.Marshal(toWire(s))
}

func (JSONCodec) Decode(data []byte) (s *Session, err error) {
	defer decodeGuard(&err)

	var rec wireRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, wrapDecode(err)
	}
	s, err = fromWire(rec)
	if err != nil {
		return nil, wrapDecode(err)
	}
	return s, nil
}
