package protocol

import "time"

// Timetag is a 64-bit NTP fixed-point time: seconds since 1900 in the high
// 32 bits, fractional seconds in the low 32 bits.
type Timetag uint64

// TimetagImmediate is the reserved "execute now" value.
const TimetagImmediate Timetag = 1

// seconds between 1900-01-01 and 1970-01-01
const ntpUnixOffset = 2208988800

func NewTimetagParts(seconds, fraction uint32) Timetag {
	return Timetag(uint64(seconds)<<32 | uint64(fraction))
}

// TimetagFromTime converts t to NTP fixed point.
func TimetagFromTime(t time.Time) Timetag {
	secs := uint64(t.Unix() + ntpUnixOffset)
	frac := (uint64(t.Nanosecond()) << 32) / uint64(time.Second)
	return Timetag(secs<<32 | frac)
}

func (t Timetag) Seconds() uint32 { return uint32(t >> 32) }

func (t Timetag) Fraction() uint32 { return uint32(t) }

// IsImmediate reports whether t is the reserved immediate value.
func (t Timetag) IsImmediate() bool { return t == TimetagImmediate }

// Time converts t to wall-clock time in UTC.
func (t Timetag) Time() time.Time {
	secs := int64(t.Seconds()) - ntpUnixOffset
	nanos := (uint64(t.Fraction()) * uint64(time.Second)) >> 32
	return time.Unix(secs, int64(nanos)).UTC()
}
