package protocol

import (
	"github.com/danmuck/oscwire/internal/protocol/frame"
)

// Bundle groups messages and nested bundles under one timetag.
type Bundle struct {
	Timetag  Timetag
	Messages []*Message
	Bundles  []*Bundle
}

// EncodeBundle encodes msgs as a single bundle stamped with timetag.
func EncodeBundle(timetag Timetag, msgs ...*Message) ([]byte, error) {
	b := &Bundle{Timetag: timetag, Messages: msgs}
	return b.Encode()
}

// Encode writes the messages first, then nested bundles.
func (b *Bundle) Encode() ([]byte, error) {
	w := frame.NewBundleWriter(uint64(b.Timetag))
	for _, msg := range b.Messages {
		elem, err := Encode(msg)
		if err != nil {
			return nil, err
		}
		if err := w.AppendElement(elem); err != nil {
			return nil, err
		}
	}
	for _, nested := range b.Bundles {
		elem, err := nested.Encode()
		if err != nil {
			return nil, err
		}
		if err := w.AppendElement(elem); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}
