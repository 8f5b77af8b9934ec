package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/oscwire/internal/protocol"
)

// argList collects repeated -arg flags.
type argList []string

func (a *argList) String() string { return strings.Join(*a, " ") }

func (a *argList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

// parseArgument turns a "tag:value" literal into an Argument. Tags without
// payload (T, F, N, I) take no value.
func parseArgument(lit string) (protocol.Argument, error) {
	tag, value, hasValue := strings.Cut(lit, ":")
	if len(tag) != 1 {
		return protocol.Argument{}, fmt.Errorf("argument %q: tag must be one character", lit)
	}
	switch tag[0] {
	case 'T', 'F', 'N', 'I':
		if hasValue {
			return protocol.Argument{}, fmt.Errorf("argument %q: tag %s takes no value", lit, tag)
		}
	default:
		if !hasValue {
			return protocol.Argument{}, fmt.Errorf("argument %q: missing value", lit)
		}
	}

	switch tag[0] {
	case 'b':
		b, err := hex.DecodeString(value)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewBlob(b), nil
	case 'f':
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewFloat32(float32(v)), nil
	case 'd':
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewFloat64(v), nil
	case 'i':
		v, err := strconv.ParseInt(value, 0, 32)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewInt32(int32(v)), nil
	case 'h':
		v, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewInt64(v), nil
	case 's':
		return protocol.NewString(value), nil
	case 'm':
		m, err := parseMidi(value)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewMidi(m), nil
	case 't':
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return protocol.Argument{}, fmt.Errorf("argument %q: %w", lit, err)
		}
		return protocol.NewTimetag(protocol.Timetag(v)), nil
	case 'T':
		return protocol.NewBool(true), nil
	case 'F':
		return protocol.NewBool(false), nil
	case 'N':
		return protocol.NewNil(), nil
	case 'I':
		return protocol.NewInfinitum(), nil
	default:
		return protocol.Argument{}, fmt.Errorf("argument %q: unknown tag %q", lit, tag)
	}
}

// parseMidi reads four comma-separated hex bytes: port,status,data1,data2.
func parseMidi(value string) (protocol.Midi, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return protocol.Midi{}, fmt.Errorf("midi needs 4 bytes, got %d", len(parts))
	}
	var b [4]byte
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 16, 8)
		if err != nil {
			return protocol.Midi{}, fmt.Errorf("midi byte %d: %w", i, err)
		}
		b[i] = byte(v)
	}
	return protocol.Midi{Port: b[0], Status: b[1], Data1: b[2], Data2: b[3]}, nil
}

// formatArgument renders an argument in the same literal syntax.
func formatArgument(a protocol.Argument) string {
	switch a.Kind() {
	case protocol.KindBlob:
		b, _ := a.Blob()
		return "b:" + hex.EncodeToString(b)
	case protocol.KindFloat32:
		v, _ := a.Float32()
		return "f:" + strconv.FormatFloat(float64(v), 'g', -1, 32)
	case protocol.KindFloat64:
		v, _ := a.Float64()
		return "d:" + strconv.FormatFloat(v, 'g', -1, 64)
	case protocol.KindInt32:
		v, _ := a.Int32()
		return "i:" + strconv.FormatInt(int64(v), 10)
	case protocol.KindInt64:
		v, _ := a.Int64()
		return "h:" + strconv.FormatInt(v, 10)
	case protocol.KindString:
		v, _ := a.String()
		return "s:" + v
	case protocol.KindMidi:
		m, _ := a.Midi()
		return fmt.Sprintf("m:%02x,%02x,%02x,%02x", m.Port, m.Status, m.Data1, m.Data2)
	case protocol.KindTimetag:
		v, _ := a.Timetag()
		return "t:" + strconv.FormatUint(uint64(v), 10)
	default:
		return string(a.Tag())
	}
}
