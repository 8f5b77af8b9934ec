package protocol

import (
	"encoding/binary"
	"strings"

	"github.com/danmuck/oscwire/internal/protocol/frame"
)

// Encode returns msg in wire form, sized exactly with msg.Size.
func Encode(msg *Message) ([]byte, error) {
	if msg == nil {
		return nil, newEncodeError(CodeAddressOverflow, -1)
	}
	buf := make([]byte, msg.Size())
	n, err := EncodeTo(msg, buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// EncodeTo writes msg into dst and returns the number of bytes written.
// The capacity is len(dst). On failure the returned error is an
// *EncodeError and dst holds at most a partial prefix that must not be used.
func EncodeTo(msg *Message, dst []byte) (int, error) {
	clear(dst)
	size := len(dst)

	if msg == nil || !validAddress(msg.address) || len(msg.address) >= size {
		return 0, newEncodeError(CodeAddressOverflow, -1)
	}
	copy(dst, msg.address)

	i := frame.Align4(len(msg.address) + 1)
	tags := msg.TypeTags()
	// comma + tags + NUL, then padding, must stay inside dst
	if i+1+len(tags) >= size || frame.Align4(i+len(tags)+2) > size {
		return 0, newEncodeError(CodeTagOverflow, -1)
	}
	dst[i] = ','
	copy(dst[i+1:], tags)
	i = frame.Align4(i + len(tags) + 2)

	for j, a := range msg.args {
		if a.kind == KindInvalid || a.kind.Tag() == 0 {
			return i, newEncodeError(CodeUnsupportedKind, j)
		}
		// a NUL inside a string would end it early on the wire
		if a.kind == KindString && strings.IndexByte(a.str, 0) >= 0 {
			return i, newEncodeError(CodeUnsupportedKind, j)
		}
		if i+a.size() > size {
			return i, newEncodeError(CodePayloadOverflow, j)
		}
		i = putArgument(dst, i, a)
	}
	return i, nil
}

// putArgument writes a's payload at off and returns the aligned cursor.
// The caller has already checked capacity.
func putArgument(dst []byte, off int, a Argument) int {
	switch a.kind {
	case KindBlob:
		binary.BigEndian.PutUint32(dst[off:off+4], uint32(len(a.blob)))
		copy(dst[off+4:], a.blob)
	case KindFloat32, KindInt32:
		binary.BigEndian.PutUint32(dst[off:off+4], uint32(a.bits))
	case KindFloat64, KindInt64, KindTimetag:
		binary.BigEndian.PutUint64(dst[off:off+8], a.bits)
	case KindString:
		copy(dst[off:], a.str)
	case KindMidi:
		b := a.midi.bytes()
		copy(dst[off:off+frame.MidiLen], b[:])
	}
	return off + a.size()
}

func validAddress(address string) bool {
	return strings.HasPrefix(address, "/") && strings.IndexByte(address, 0) < 0
}
