package observability

import (
	"errors"
	"sync"

	"github.com/danmuck/oscwire/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	packetsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oscwire",
			Subsystem: "codec",
			Name:      "packets_total",
			Help:      "Resolved packets by top-level kind and result.",
		},
		[]string{"kind", "result"},
	)
	messagesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "oscwire",
			Subsystem: "codec",
			Name:      "messages_total",
			Help:      "Messages produced by packet resolution.",
		},
	)
	droppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oscwire",
			Subsystem: "codec",
			Name:      "dropped_messages_total",
			Help:      "Bundle elements skipped because they failed to decode.",
		},
		[]string{"reason"},
	)
	encodeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "oscwire",
			Subsystem: "codec",
			Name:      "encode_total",
			Help:      "Encode calls by result.",
		},
		[]string{"result"},
	)
	encodeBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "oscwire",
			Subsystem: "codec",
			Name:      "encode_bytes",
			Help:      "Size of successfully encoded messages.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(packetsTotal, messagesTotal, droppedTotal, encodeTotal, encodeBytes)
	})
}

// CodecMetrics reports codec outcomes to the default prometheus registry.
type CodecMetrics struct{}

func NewCodecMetrics() CodecMetrics {
	RegisterMetrics()
	return CodecMetrics{}
}

func (CodecMetrics) ObservePacket(kind protocol.PacketKind, messages int, err error) {
	RecordPacket(kind, messages, err)
}

func (CodecMetrics) ObserveEncode(n int, err error) {
	RecordEncode(n, err)
}

func (CodecMetrics) ObserveDropped(err error) {
	RecordDropped(err)
}

func RecordPacket(kind protocol.PacketKind, messages int, err error) {
	RegisterMetrics()
	packetsTotal.WithLabelValues(string(kind), packetResult(err)).Inc()
	messagesTotal.Add(float64(messages))
}

func RecordDropped(err error) {
	RegisterMetrics()
	droppedTotal.WithLabelValues(packetResult(err)).Inc()
}

func RecordEncode(n int, err error) {
	RegisterMetrics()
	encodeTotal.WithLabelValues(EncodeResult(err)).Inc()
	if err == nil {
		encodeBytes.Observe(float64(n))
	}
}

// EncodeResult maps an encode error to its metric label.
func EncodeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, protocol.ErrAddressOverflow):
		return "address_overflow"
	case errors.Is(err, protocol.ErrTagOverflow):
		return "tag_overflow"
	case errors.Is(err, protocol.ErrPayloadOverflow):
		return "payload_overflow"
	case errors.Is(err, protocol.ErrUnsupportedKind):
		return "unsupported_kind"
	default:
		return "error"
	}
}

func packetResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, protocol.ErrUnknownTag):
		return "unknown_tag"
	case errors.Is(err, protocol.ErrBundleTooDeep):
		return "too_deep"
	default:
		return "malformed"
	}
}
