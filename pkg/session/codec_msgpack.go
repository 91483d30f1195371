package session

import (
	"github.com/ugorji/go/codec"
)

// MsgPackCodec stores sessions as MessagePack, which is noticeably smaller
// than JSON for integer-heavy sessions.
type MsgPackCodec struct{}

func msgpackHandle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.WriteExt = true
	h.RawToString = true
	h.ErrorIfNoField = false
	return h
}

func (MsgPackCodec) Encode(s *Session) (out []byte, err error) {
	rec := toWire(s)
	err = codec.NewEncoderBytes(&out, msgpackHandle()).Encode(&rec)
	return out, err
}

func (MsgPackCodec) Decode(data []byte) (s *Session, err error) {
	defer decodeGuard(&err)

	var rec wireRecord
	if err := codec.NewDecoderBytes(data, msgpackHandle()).Decode(&rec); err != nil {
		return nil, wrapDecode(err)
	}
	s, err = fromWire(rec)
	if err != nil {
		return nil, wrapDecode(err)
	}
	return s, nil
}
