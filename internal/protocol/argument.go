package protocol

import (
	"bytes"
	"math"

	"github.com/danmuck/oscwire/internal/protocol/frame"
)

// Kind identifies the payload carried by an Argument.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBlob
	KindFloat32
	KindFloat64
	KindInt32
	KindInt64
	KindString
	KindMidi
	KindTimetag
	KindBool
	KindNil
	KindInfinitum
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindBlob:      "blob",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindString:    "string",
	KindMidi:      "midi",
	KindTimetag:   "timetag",
	KindBool:      "bool",
	KindNil:       "nil",
	KindInfinitum: "infinitum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Tag returns the wire tag for k. Bool reports 'T'; use Argument.Tag for
// the value-dependent tag. Unknown kinds return 0.
func (k Kind) Tag() byte {
	switch k {
	case KindBlob:
		return 'b'
	case KindFloat32:
		return 'f'
	case KindFloat64:
		return 'd'
	case KindInt32:
		return 'i'
	case KindInt64:
		return 'h'
	case KindString:
		return 's'
	case KindMidi:
		return 'm'
	case KindTimetag:
		return 't'
	case KindBool:
		return 'T'
	case KindNil:
		return 'N'
	case KindInfinitum:
		return 'I'
	default:
		return 0
	}
}

// Midi is a 4-byte MIDI message carried verbatim on the wire.
type Midi struct {
	Port   byte
	Status byte
	Data1  byte
	Data2  byte
}

func (m Midi) bytes() [4]byte {
	return [4]byte{m.Port, m.Status, m.Data1, m.Data2}
}

// Argument is one typed message argument. The zero value is KindInvalid.
type Argument struct {
	kind Kind
	bits uint64
	str  string
	blob []byte
	midi Midi
}

// NewBlob copies b into a new blob argument.
func NewBlob(b []byte) Argument {
	buf := make([]byte, len(b))
	copy(buf, b)
	return Argument{kind: KindBlob, blob: buf}
}

// NewFloat32 creates a float32 argument.
func NewFloat32(v float32) Argument {
	return Argument{kind: KindFloat32, bits: uint64(math.Float32bits(v))}
}

// NewFloat64 creates a float64 argument.
func NewFloat64(v float64) Argument {
	return Argument{kind: KindFloat64, bits: math.Float64bits(v)}
}

// NewInt32 creates an int32 argument.
func NewInt32(v int32) Argument {
	return Argument{kind: KindInt32, bits: uint64(uint32(v))}
}

// NewInt64 creates an int64 argument.
func NewInt64(v int64) Argument {
	return Argument{kind: KindInt64, bits: uint64(v)}
}

// NewString creates a string argument. Strings must not contain NUL.
func NewString(v string) Argument {
	return Argument{kind: KindString, str: v}
}

// NewMidi creates a MIDI argument.
func NewMidi(m Midi) Argument {
	return Argument{kind: KindMidi, midi: m}
}

// NewTimetag creates a timetag argument.
func NewTimetag(t Timetag) Argument {
	return Argument{kind: KindTimetag, bits: uint64(t)}
}

// NewBool creates a T or F argument.
func NewBool(v bool) Argument {
	a := Argument{kind: KindBool}
	if v {
		a.bits = 1
	}
	return a
}

// NewNil creates a zero-payload nil argument.
func NewNil() Argument {
	return Argument{kind: KindNil}
}

// NewInfinitum creates a zero-payload infinitum argument.
func NewInfinitum() Argument {
	return Argument{kind: KindInfinitum}
}

// Kind returns the argument kind.
func (a Argument) Kind() Kind { return a.kind }

// Tag returns the wire tag character for the argument.
func (a Argument) Tag() byte {
	if a.kind == KindBool && a.bits == 0 {
		return 'F'
	}
	return a.kind.Tag()
}

// Blob returns a copy of the blob bytes. Every accessor returns
// ErrArgumentTypeMismatch when the kind does not match.
func (a Argument) Blob() ([]byte, error) {
	if a.kind != KindBlob {
		return nil, ErrArgumentTypeMismatch
	}
	buf := make([]byte, len(a.blob))
	copy(buf, a.blob)
	return buf, nil
}

// Float32 returns the float32 payload.
func (a Argument) Float32() (float32, error) {
	if a.kind != KindFloat32 {
		return 0, ErrArgumentTypeMismatch
	}
	return math.Float32frombits(uint32(a.bits)), nil
}

// Float64 returns the float64 payload.
func (a Argument) Float64() (float64, error) {
	if a.kind != KindFloat64 {
		return 0, ErrArgumentTypeMismatch
	}
	return math.Float64frombits(a.bits), nil
}

// Int32 returns the int32 payload.
func (a Argument) Int32() (int32, error) {
	if a.kind != KindInt32 {
		return 0, ErrArgumentTypeMismatch
	}
	return int32(uint32(a.bits)), nil
}

// Int64 returns the int64 payload.
func (a Argument) Int64() (int64, error) {
	if a.kind != KindInt64 {
		return 0, ErrArgumentTypeMismatch
	}
	return int64(a.bits), nil
}

// String returns the string payload.
func (a Argument) String() (string, error) {
	if a.kind != KindString {
		return "", ErrArgumentTypeMismatch
	}
	return a.str, nil
}

// Midi returns the MIDI payload.
func (a Argument) Midi() (Midi, error) {
	if a.kind != KindMidi {
		return Midi{}, ErrArgumentTypeMismatch
	}
	return a.midi, nil
}

// Timetag returns the timetag payload.
func (a Argument) Timetag() (Timetag, error) {
	if a.kind != KindTimetag {
		return 0, ErrArgumentTypeMismatch
	}
	return Timetag(a.bits), nil
}

// Bool returns the boolean value of a T or F argument.
func (a Argument) Bool() (bool, error) {
	if a.kind != KindBool {
		return false, ErrArgumentTypeMismatch
	}
	return a.bits != 0, nil
}

// Equal compares kind and payload. Floats compare by bit pattern so NaN
// payloads survive a round trip check.
func (a Argument) Equal(b Argument) bool {
	if a.kind != b.kind || a.bits != b.bits {
		return false
	}
	switch a.kind {
	case KindBlob:
		return bytes.Equal(a.blob, b.blob)
	case KindString:
		return a.str == b.str
	case KindMidi:
		return a.midi == b.midi
	default:
		return true
	}
}

// size returns the padded wire size of the payload.
func (a Argument) size() int {
	switch a.kind {
	case KindBlob:
		return 4 + frame.Align4(len(a.blob))
	case KindFloat32, KindInt32, KindMidi:
		return 4
	case KindFloat64, KindInt64, KindTimetag:
		return 8
	case KindString:
		return frame.Align4(len(a.str) + 1)
	default:
		return 0
	}
}
