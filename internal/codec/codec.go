package codec

import (
	"encoding/json"
	"fmt"
)

// maxRawInError bounds how much of a corrupted value is echoed in error text.
const maxRawInError = 64

// DecodeError reports a persisted value that could not be parsed.
type DecodeError struct {
	// Raw is the value that failed to decode.
	Raw string

	// Err is the underlying parse error.
	Err error
}

func (e *DecodeError) Error() string {
	raw := e.Raw
	if len(raw) > maxRawInError {
		raw = raw[:maxRawInError] + "..."
	}
	return fmt.Sprintf("decode %q: %v", raw, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Encode serializes v to its stored string form.
//
// Encode panics if v cannot be marshalled. Every value the state layer
// persists is marshallable, so a panic here is a programming error.
func Encode[T any](v T) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("codec: encode %T: %v", v, err))
	}
	return string(data)
}

// Decode parses raw into a new value of type T.
func Decode[T any](raw string) (T, error) {
	var v T
	if err := DecodeInto(raw, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// DecodeInto parses raw into v, which must be a non-nil pointer.
//
// Types with a custom UnmarshalJSON see the existing value of *v, so DecodeInto
// can overlay persisted fields onto defaults.
func DecodeInto(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &DecodeError{Raw: raw, Err: err}
	}
	return nil
}
