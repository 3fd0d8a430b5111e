package message

import (
	"reflect"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"
)

var jsonHandle = NewJSONHandle()

// NewJSONHandle returns the ugorji JSON handle used for everything that goes
// on the wire or to disk. Maps are encoded with sorted keys, integers decode
// as int64 and JSON objects decode into map[string]interface{}.
func NewJSONHandle() *codec.JsonHandle {
	jh := new(codec.JsonHandle)
	jh.Canonical = true
	jh.SignedInteger = true
	jh.HTMLCharsAsIs = true
	jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	return jh
}

// Handle returns the shared JSON handle.
func Handle() *codec.JsonHandle {
	return jsonHandle
}

// Marshal encodes v with the shared handle.
func Marshal(v interface{}) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, jsonHandle).Encode(v); err != nil {
		return nil, err
	}
	return b, nil
}

// Unmarshal decodes data into v with the shared handle.
func Unmarshal(data []byte, v interface{}) error {
	return codec.NewDecoderBytes(data, jsonHandle).Decode(v)
}

type rawEnvelope struct {
	Src  string    `codec:"src"`
	Dest string    `codec:"dest"`
	Body codec.Raw `codec:"body"`
}

// Encode returns the single-line JSON representation of env, without a
// trailing newline.
func Encode(env Envelope) ([]byte, error) {
	if env.Body == nil {
		return nil, errors.Errorf("envelope %s -> %s has no body", env.Src, env.Dest)
	}
	return Marshal(env)
}

// Decode parses a line into an Envelope whose body is the variant registered
// under the body's "type" in reg. Any failure is reported as a *DecodeError.
func Decode(line []byte, reg Registry) (Envelope, error) {
	fail := func(err error) (Envelope, error) {
		return Envelope{}, &DecodeError{Line: string(line), Err: err}
	}

	var raw rawEnvelope
	if err := Unmarshal(line, &raw); err != nil {
		return fail(errors.Wrap(err, "envelope"))
	}

	if len(raw.Body) == 0 {
		return fail(errors.New("missing body"))
	}

	var tag Tag
	if err := Unmarshal(raw.Body, &tag); err != nil {
		return fail(errors.Wrap(err, "body"))
	}

	if tag.Type == "" {
		return fail(errors.New("missing body type"))
	}

	ptr, ok := reg.instantiate(tag.Type)
	if !ok {
		return fail(errors.Errorf("unknown body type %q", tag.Type))
	}

	if err := Unmarshal(raw.Body, ptr.Interface()); err != nil {
		return fail(errors.Wrapf(err, "%s body", tag.Type))
	}

	return Envelope{
		Src:  raw.Src,
		Dest: raw.Dest,
		Body: ptr.Elem().Interface().(Body),
	}, nil
}
