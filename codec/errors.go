package codec

import (
	"errors"
	"fmt"
)

var errInvalidRawJSON = errors.New("raw bytes are not valid JSON")

// EncodeError reports a payload that could not be serialized.
type EncodeError struct {
	ContentType ContentType
	Err         error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding %s body: %v", e.ContentType, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// PayloadMismatchError reports a payload variant the declared content type
// cannot carry, such as a JSON value declared as image/png. It is a caller
// contract violation rather than a runtime condition.
type PayloadMismatchError struct {
	ContentType ContentType
	Payload     Payload
}

func (e *PayloadMismatchError) Error() string {
	return fmt.Sprintf("payload %T cannot be sent as %s", e.Payload, e.ContentType)
}
