package protocol

import (
	"fmt"

	"github.com/danmuck/oscwire/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

// ResolvePacket decodes buf with default limits. See Codec.ResolvePacket.
func ResolvePacket(buf []byte) []*Message {
	return defaultCodec.ResolvePacket(buf)
}

// Resolve decodes buf with default limits. See Codec.Resolve.
func Resolve(buf []byte) ([]*Message, error) {
	return defaultCodec.Resolve(buf)
}

// ResolvePacket returns every message in buf, or an empty slice when buf
// cannot be decoded. The failure is logged, not returned.
func (c *Codec) ResolvePacket(buf []byte) []*Message {
	msgs, err := c.Resolve(buf)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(buf)).Msg("protocol.ResolvePacket dropped packet")
		return []*Message{}
	}
	return msgs
}

// Resolve returns the single message in buf, or every message of a bundle
// in wire order with the timetag of its innermost bundle attached. A bundle
// element that fails to decode is skipped; a framing error in any bundle
// discards the whole packet.
func (c *Codec) Resolve(buf []byte) ([]*Message, error) {
	kind := PacketMessage
	var (
		msgs []*Message
		err  error
	)
	if frame.IsBundle(buf) {
		kind = PacketBundle
		msgs, err = c.resolveBundle(buf, 1, []*Message{})
	} else {
		var msg *Message
		msg, err = c.decodeMessage(buf)
		if err == nil {
			msgs = []*Message{msg}
		}
	}
	if err != nil {
		c.observer().ObservePacket(kind, 0, err)
		return nil, err
	}
	c.observer().ObservePacket(kind, len(msgs), nil)
	return msgs, nil
}

func (c *Codec) resolveBundle(buf []byte, depth int, out []*Message) ([]*Message, error) {
	if c.Limits.MaxBundleDepth > 0 && depth > c.Limits.MaxBundleDepth {
		return nil, ErrBundleTooDeep
	}
	b, err := frame.ParseBundle(buf, c.Limits)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
	}
	timetag := Timetag(b.Timetag())
	for {
		elem, ok, err := b.NextElement()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedPacket, err)
		}
		if !ok {
			return out, nil
		}
		if frame.IsBundle(elem) {
			out, err = c.resolveBundle(elem, depth+1, out)
			if err != nil {
				return nil, err
			}
			continue
		}
		msg, err := c.decodeMessage(elem)
		if err != nil {
			log.Debug().Err(err).Int("bytes", len(elem)).Msg("protocol.resolve skipped bundle element")
			c.observer().ObserveDropped(err)
			continue
		}
		msg.timetag = timetag
		msg.inBundle = true
		out = append(out, msg)
	}
}
