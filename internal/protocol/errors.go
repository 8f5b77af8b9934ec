package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedPacket      = errors.New("protocol: malformed packet")
	ErrUnknownTag           = errors.New("protocol: unknown argument tag")
	ErrArgumentTypeMismatch = errors.New("protocol: argument type mismatch")
	ErrArgumentIndex        = errors.New("protocol: argument index out of range")
	ErrBundleTooDeep        = errors.New("protocol: bundle nesting too deep")

	ErrAddressOverflow = errors.New("protocol: address missing or does not fit")
	ErrTagOverflow     = errors.New("protocol: type tag string does not fit")
	ErrPayloadOverflow = errors.New("protocol: argument payload does not fit")
	ErrUnsupportedKind = errors.New("protocol: unsupported argument kind")
)

// EncodeCode is the integer failure class of an encode call.
type EncodeCode int

const (
	CodeAddressOverflow EncodeCode = -1
	CodeTagOverflow     EncodeCode = -2
	CodePayloadOverflow EncodeCode = -3
	CodeUnsupportedKind EncodeCode = -4
)

func (c EncodeCode) sentinel() error {
	switch c {
	case CodeAddressOverflow:
		return ErrAddressOverflow
	case CodeTagOverflow:
		return ErrTagOverflow
	case CodePayloadOverflow:
		return ErrPayloadOverflow
	default:
		return ErrUnsupportedKind
	}
}

// EncodeError reports why EncodeTo stopped. Index is the argument being
// written for payload and kind failures, -1 otherwise.
type EncodeError struct {
	Code  EncodeCode
	Index int
}

func newEncodeError(code EncodeCode, index int) *EncodeError {
	return &EncodeError{Code: code, Index: index}
}

func (e *EncodeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v (code=%d)", e.Code.sentinel(), e.Code)
	}
	return fmt.Sprintf("%v (code=%d arg=%d)", e.Code.sentinel(), e.Code, e.Index)
}

func (e *EncodeError) Unwrap() error {
	return e.Code.sentinel()
}

// UnknownTagError identifies the offending type tag during decode.
type UnknownTagError struct {
	Tag   byte
	Index int
}

func (e UnknownTagError) Error() string {
	return fmt.Sprintf("protocol: unknown argument tag %q at index %d", e.Tag, e.Index)
}

func (e UnknownTagError) Unwrap() error {
	return ErrUnknownTag
}
