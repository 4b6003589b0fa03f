package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encoded is the result of encoding a payload.
type Encoded struct {
	Bytes []byte
	// Empty is true when the bytes carry no content: a missing payload, a
	// zero-length binary payload, or an empty JSON structure.
	Empty bool
}

// Codec turns a payload into body bytes for a single content type.
type Codec interface {
	ContentType() ContentType
	Encode(p Payload) (Encoded, error)
}

var emptyJSONObject = []byte("{}")

// For returns the codec registered for a content type.
func For(ct ContentType) (Codec, error) {
	switch ct {
	case JSON:
		return jsonCodec{}, nil
	case JPEG, PNG:
		return binaryCodec{contentType: ct}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, string(ct))
	}
}

type jsonCodec struct{}

func (jsonCodec) ContentType() ContentType { return JSON }

func (jsonCodec) Encode(p Payload) (Encoded, error) {
	switch v := p.(type) {
	case nil:
		return Encoded{Bytes: bytes.Clone(emptyJSONObject), Empty: true}, nil
	case JSONPayload:
		b, err := json.Marshal(v.Value)
		if err != nil {
			return Encoded{}, &EncodeError{ContentType: JSON, Err: err}
		}
		return Encoded{Bytes: b, Empty: isEmptyJSON(b)}, nil
	case BinaryPayload:
		if !json.Valid(v.data) {
			return Encoded{}, &EncodeError{ContentType: JSON, Err: errInvalidRawJSON}
		}
		b := v.Bytes()
		return Encoded{Bytes: b, Empty: isEmptyJSON(b)}, nil
	default:
		return Encoded{}, &PayloadMismatchError{ContentType: JSON, Payload: p}
	}
}

type binaryCodec struct {
	contentType ContentType
}

func (c binaryCodec) ContentType() ContentType { return c.contentType }

func (c binaryCodec) Encode(p Payload) (Encoded, error) {
	switch v := p.(type) {
	case nil:
		return Encoded{Empty: true}, nil
	case BinaryPayload:
		if v.Len() == 0 {
			return Encoded{Empty: true}, nil
		}
		return Encoded{Bytes: v.Bytes()}, nil
	default:
		return Encoded{}, &PayloadMismatchError{ContentType: c.contentType, Payload: p}
	}
}

// isEmptyJSON reports whether b is an empty object, empty array or null.
func isEmptyJSON(b []byte) bool {
	var compact bytes.Buffer
	if err := json.Compact(&compact, b); err != nil {
		return false
	}
	switch compact.String() {
	case "{}", "[]", "null":
		return true
	default:
		return false
	}
}
