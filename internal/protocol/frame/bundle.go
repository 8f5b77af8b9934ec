package frame

import (
	"encoding/binary"
)

// Bundle walks the size-prefixed elements of a bundle packet.
type Bundle struct {
	timetag uint64
	buf     []byte
	off     int
}

// ParseBundle validates the bundle header and positions the element cursor.
func ParseBundle(buf []byte, limits Limits) (*Bundle, error) {
	if len(buf) < BundleHeaderLen {
		return nil, ErrShortPacket
	}
	if limits.MaxPacketBytes > 0 && len(buf) > limits.MaxPacketBytes {
		return nil, ErrPacketTooLarge
	}
	if !IsBundle(buf) {
		return nil, ErrNotBundle
	}
	if len(buf)%4 != 0 {
		return nil, ErrUnaligned
	}
	return &Bundle{
		timetag: binary.BigEndian.Uint64(buf[8:16]),
		buf:     buf,
		off:     BundleHeaderLen,
	}, nil
}

// Timetag returns the bundle-level timetag.
func (b *Bundle) Timetag() uint64 { return b.timetag }

// NextElement returns the next element's bytes. ok is false once every
// element has been consumed.
func (b *Bundle) NextElement() (elem []byte, ok bool, err error) {
	rest := len(b.buf) - b.off
	if rest == 0 {
		return nil, false, nil
	}
	if rest < ElementSizeLen {
		return nil, false, ErrBadElementSize
	}
	size := int32(binary.BigEndian.Uint32(b.buf[b.off : b.off+ElementSizeLen]))
	start := b.off + ElementSizeLen
	if size <= 0 || size%4 != 0 || int(size) > len(b.buf)-start {
		return nil, false, ErrBadElementSize
	}
	end := start + int(size)
	b.off = end
	return b.buf[start:end], true, nil
}

// BundleWriter builds bundle framing around already encoded elements.
type BundleWriter struct {
	buf []byte
}

func NewBundleWriter(timetag uint64) *BundleWriter {
	buf := make([]byte, BundleHeaderLen, 64)
	copy(buf, bundleMarker)
	binary.BigEndian.PutUint64(buf[8:16], timetag)
	return &BundleWriter{buf: buf}
}

// AppendElement adds one encoded message or bundle.
func (w *BundleWriter) AppendElement(elem []byte) error {
	if len(elem) == 0 || len(elem)%4 != 0 || len(elem) > int(^uint32(0)>>1) {
		return ErrBadElementSize
	}
	var size [ElementSizeLen]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(elem)))
	w.buf = append(w.buf, size[:]...)
	w.buf = append(w.buf, elem...)
	return nil
}

// Bytes returns the bundle written so far.
func (w *BundleWriter) Bytes() []byte {
	return w.buf
}
