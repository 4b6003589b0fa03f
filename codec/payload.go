package codec

import "bytes"

// Payload is a request body before encoding. It is a closed set:
// only JSONPayload and BinaryPayload implement it.
type Payload interface {
	payload()
}

// JSONPayload holds any JSON-representable value.
type JSONPayload struct {
	Value any
}

// BinaryPayload holds already-encoded bytes (images, pre-serialized JSON).
type BinaryPayload struct {
	data []byte
}

func (JSONPayload) payload()   {}
func (BinaryPayload) payload() {}

// FromJSON wraps a value for JSON encoding.
func FromJSON(v any) Payload {
	return JSONPayload{Value: v}
}

// FromBytes wraps raw bytes. The slice is copied.
func FromBytes(b []byte) Payload {
	return BinaryPayload{data: bytes.Clone(b)}
}

// Bytes returns a copy of the raw bytes.
func (p BinaryPayload) Bytes() []byte {
	return bytes.Clone(p.data)
}

// Len returns the number of raw bytes.
func (p BinaryPayload) Len() int {
	return len(p.data)
}

// ClonePayload returns a payload that shares no mutable storage with p.
// JSON values are treated as read-only and are not deep-copied.
func ClonePayload(p Payload) Payload {
	if b, ok := p.(BinaryPayload); ok {
		return FromBytes(b.data)
	}
	return p
}
