package protocol

// PacketKind labels what the resolver found at the top level of a packet.
type PacketKind string

const (
	PacketMessage PacketKind = "message"
	PacketBundle  PacketKind = "bundle"
)

// Observer receives codec outcomes. Implementations must be safe for
// concurrent use if the codec is.
type Observer interface {
	// ObservePacket is called once per resolved packet with the number of
	// messages produced and the failure, if any.
	ObservePacket(kind PacketKind, messages int, err error)
	// ObserveEncode is called once per encode with the bytes written or the failure.
	ObserveEncode(n int, err error)
	// ObserveDropped is called for each bundle element that failed to
	// decode and was skipped.
	ObserveDropped(err error)
}

type nopObserver struct{}

func (nopObserver) ObservePacket(PacketKind, int, error) {}
func (nopObserver) ObserveEncode(int, error) {}
func (nopObserver) ObserveDropped(error) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
