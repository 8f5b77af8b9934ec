package protocol

import (
	"github.com/danmuck/oscwire/internal/protocol/frame"
	"github.com/rs/zerolog/log"
)

var defaultCodec = &Codec{Limits: frame.DefaultLimits()}

// Codec binds tokenizer limits and an optional Observer to the encode and
// decode entry points. A Codec holds no per-call state.
type Codec struct {
	Limits   frame.Limits
	Observer Observer
}

func NewCodec(limits frame.Limits, observer Observer) *Codec {
	return &Codec{Limits: limits, Observer: observer}
}

func (c *Codec) observer() Observer {
	return observerOrNop(c.Observer)
}

// EncodeTo encodes like the package-level EncodeTo and reports the outcome
// to the Observer.
func (c *Codec) EncodeTo(msg *Message, dst []byte) (int, error) {
	n, err := EncodeTo(msg, dst)
	c.observeEncode(msg, n, err)
	return n, err
}

// Encode encodes like the package-level Encode and reports the outcome to
// the Observer.
func (c *Codec) Encode(msg *Message) ([]byte, error) {
	buf, err := Encode(msg)
	c.observeEncode(msg, len(buf), err)
	return buf, err
}

func (c *Codec) observeEncode(msg *Message, n int, err error) {
	if err != nil {
		addr := ""
		if msg != nil {
			addr = msg.address
		}
		log.Debug().Err(err).Str("address", addr).Msg("protocol.encode failed")
	}
	c.observer().ObserveEncode(n, err)
}
