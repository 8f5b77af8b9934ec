package protocol

import (
	"fmt"

	"github.com/danmuck/oscwire/internal/protocol/frame"
)

// Decode parses a single message packet with default limits.
func Decode(buf []byte) (*Message, error) {
	return defaultCodec.Decode(buf)
}

// Decode parses buf as a single message. Bundles are rejected; use Resolve.
func (c *Codec) Decode(buf []byte) (*Message, error) {
	msg, err := c.decodeMessage(buf)
	if err != nil {
		c.observer().ObservePacket(PacketMessage, 0, err)
		return nil, err
	}
	c.observer().ObservePacket(PacketMessage, 1, nil)
	return msg, nil
}

func (c *Codec) decodeMessage(buf []byte) (*Message, error) {
	fm, err := frame.ParseMessage(buf, c.Limits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
	}
	return decodeFrame(fm)
}

// decodeFrame materialises one argument per type tag, in order.
func decodeFrame(fm *frame.Message) (*Message, error) {
	tags := fm.TypeTags()
	msg := &Message{
		address: fm.Address(),
		args:    make([]Argument, 0, len(tags)),
	}
	for i := 0; i < len(tags); i++ {
		arg, err := readArgument(fm, tags[i])
		if err != nil {
			if _, ok := err.(UnknownTagError); ok {
				return nil, UnknownTagError{Tag: tags[i], Index: i}
			}
			return nil, fmt.Errorf("%w: argument %d (%q): %w", ErrMalformedPacket, i, tags[i], err)
		}
		msg.args = append(msg.args, arg)
	}
	return msg, nil
}

func readArgument(fm *frame.Message, tag byte) (Argument, error) {
	switch tag {
	case 'b':
		b, err := fm.NextBlob()
		if err != nil {
			return Argument{}, err
		}
		return Argument{kind: KindBlob, blob: b}, nil
	case 'f':
		v, err := fm.NextFloat32()
		return NewFloat32(v), err
	case 'd':
		v, err := fm.NextFloat64()
		return NewFloat64(v), err
	case 'i':
		v, err := fm.NextInt32()
		return NewInt32(v), err
	case 'h':
		v, err := fm.NextInt64()
		return NewInt64(v), err
	case 't':
		v, err := fm.NextTimetag()
		return NewTimetag(Timetag(v)), err
	case 's':
		v, err := fm.NextString()
		return NewString(v), err
	case 'm':
		v, err := fm.NextMidi()
		return NewMidi(Midi{Port: v[0], Status: v[1], Data1: v[2], Data2: v[3]}), err
	case 'T':
		return NewBool(true), nil
	case 'F':
		return NewBool(false), nil
	case 'N':
		return NewNil(), nil
	case 'I':
		return NewInfinitum(), nil
	default:
		return Argument{}, UnknownTagError{Tag: tag}
	}
}
