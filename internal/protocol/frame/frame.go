package frame

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

const (
	// BundleHeaderLen covers the "#bundle\0" marker plus the 8-byte timetag.
	BundleHeaderLen = 16
	// ElementSizeLen is the int32 length prefix in front of every bundle element.
	ElementSizeLen = 4
	// MidiLen is the fixed size of a MIDI argument.
	MidiLen = 4
)

var bundleMarker = []byte("#bundle\x00")

var (
	ErrShortPacket    = errors.New("frame: short packet")
	ErrPacketTooLarge = errors.New("frame: packet too large")
	ErrUnaligned      = errors.New("frame: packet length not a multiple of 4")
	ErrBadAddress     = errors.New("frame: invalid address pattern")
	ErrBadTypeTags    = errors.New("frame: invalid type tag string")
	ErrShortArgument  = errors.New("frame: argument exceeds packet")
	ErrNotBundle      = errors.New("frame: missing bundle marker")
	ErrBadElementSize = errors.New("frame: invalid bundle element size")
)

// Limits constrains what the tokenizer accepts.
type Limits struct {
	MaxPacketBytes int
	MaxBundleDepth int
}

func DefaultLimits() Limits {
	return Limits{
		MaxPacketBytes: 64 * 1024,
		MaxBundleDepth: 8,
	}
}

// Align4 returns the smallest multiple of 4 that is >= n.
func Align4(n int) int {
	return (n + 3) &^ 3
}

// IsBundle reports whether buf starts with the bundle marker.
func IsBundle(buf []byte) bool {
	return bytes.HasPrefix(buf, bundleMarker)
}

// Message is one tokenized message: address, type tags and a cursor over
// the argument bytes. It aliases the parsed buffer.
type Message struct {
	address string
	tags    string
	body    []byte
	off     int
}

// ParseMessage splits buf into address, type tags and argument section.
func ParseMessage(buf []byte, limits Limits) (*Message, error) {
	if len(buf) < 4 {
		return nil, ErrShortPacket
	}
	if limits.MaxPacketBytes > 0 && len(buf) > limits.MaxPacketBytes {
		return nil, ErrPacketTooLarge
	}
	if len(buf)%4 != 0 {
		return nil, ErrUnaligned
	}

	addrEnd := bytes.IndexByte(buf, 0)
	if addrEnd <= 0 || buf[0] != '/' {
		return nil, ErrBadAddress
	}

	tagStart := Align4(addrEnd + 1)
	if tagStart >= len(buf) || buf[tagStart] != ',' {
		return nil, ErrBadTypeTags
	}
	tagEnd := bytes.IndexByte(buf[tagStart:], 0)
	if tagEnd < 0 {
		return nil, ErrBadTypeTags
	}
	tagEnd += tagStart

	bodyStart := Align4(tagEnd + 1)
	if bodyStart > len(buf) {
		return nil, ErrBadTypeTags
	}

	return &Message{
		address: string(buf[:addrEnd]),
		tags:    string(buf[tagStart+1 : tagEnd]),
		body:    buf[bodyStart:],
	}, nil
}

// Address returns the message address pattern.
func (m *Message) Address() string { return m.address }

// TypeTags returns the type tag characters without the leading comma.
func (m *Message) TypeTags() string { return m.tags }

// Remaining returns the number of unread argument bytes.
func (m *Message) Remaining() int { return len(m.body) - m.off }

func (m *Message) take(n int) ([]byte, error) {
	if n < 0 || m.Remaining() < n {
		return nil, ErrShortArgument
	}
	b := m.body[m.off : m.off+n]
	m.off += n
	return b, nil
}

func (m *Message) NextInt32() (int32, error) {
	b, err := m.take(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func (m *Message) NextInt64() (int64, error) {
	b, err := m.take(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func (m *Message) NextFloat32() (float32, error) {
	b, err := m.take(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func (m *Message) NextFloat64() (float64, error) {
	b, err := m.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func (m *Message) NextTimetag() (uint64, error) {
	b, err := m.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// NextMidi returns the 4 MIDI bytes verbatim.
func (m *Message) NextMidi() ([MidiLen]byte, error) {
	var out [MidiLen]byte
	b, err := m.take(MidiLen)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// NextString reads a NUL-terminated string and skips its padding.
func (m *Message) NextString() (string, error) {
	rest := m.body[m.off:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", ErrShortArgument
	}
	s := string(rest[:end])
	if _, err := m.take(Align4(end + 1)); err != nil {
		return "", err
	}
	return s, nil
}

// NextBlob reads a length-prefixed blob and returns a copy of its bytes.
func (m *Message) NextBlob() ([]byte, error) {
	n, err := m.NextInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrShortArgument
	}
	b, err := m.take(Align4(int(n)))
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b[:n])
	return out, nil
}
