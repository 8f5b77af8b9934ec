package protocol

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/danmuck/oscwire/internal/protocol/frame"
	"github.com/danmuck/oscwire/internal/testutil/testlog"
)

func fullMessage() *Message {
	m := NewMessage("/mixer/ch/3")
	m.AddBlob([]byte{0xde, 0xad, 0xbe, 0xef, 0x01})
	m.AddFloat32(-0.25)
	m.AddFloat64(math.Pi)
	m.AddInt32(math.MinInt32)
	m.AddInt64(math.MaxInt64)
	m.AddString("fader")
	m.AddMidi(Midi{Port: 0x01, Status: 0x90, Data1: 0x3c, Data2: 0x7f})
	m.AddTimetag(NewTimetagParts(3900000000, 0x80000000))
	m.AddBool(true)
	m.AddBool(false)
	m.AddNil()
	m.AddInfinitum()
	m.AddString("")
	return m
}

func TestEncodeFloatVector(t *testing.T) {
	testlog.Start(t)

	m := NewMessage("/synth/1/freq")
	m.AddFloat32(440.0)

	buf, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		'/', 's', 'y', 'n', 't', 'h', '/', '1', '/', 'f', 'r', 'e', 'q', 0, 0, 0,
		',', 'f', 0, 0,
		0x43, 0xdc, 0x00, 0x00,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded bytes mismatch:\n got=%x\nwant=%x", buf, want)
	}

	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Address() != "/synth/1/freq" || out.Len() != 1 {
		t.Fatalf("unexpected message: %q len=%d", out.Address(), out.Len())
	}
	f, err := out.Float32At(0)
	if err != nil || f != 440.0 {
		t.Fatalf("unexpected float: %v %v", f, err)
	}
}

func TestEncodeStringPadding(t *testing.T) {
	testlog.Start(t)

	m := NewMessage("/a")
	m.AddString("hi")
	buf, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		'/', 'a', 0, 0,
		',', 's', 0, 0,
		'h', 'i', 0, 0,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded bytes mismatch: got=%x want=%x", buf, want)
	}
}

func TestEncodeAddressOnFourByteBoundary(t *testing.T) {
	testlog.Start(t)

	m := NewMessage("/abc")
	buf, err := Encode(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{'/', 'a', 'b', 'c', 0, 0, 0, 0, ',', 0, 0, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded bytes mismatch: got=%x want=%x", buf, want)
	}
}

func TestRoundTripAllKinds(t *testing.T) {
	testlog.Start(t)

	in := fullMessage()
	buf, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buf) != in.Size() {
		t.Fatalf("size mismatch: encoded=%d Size()=%d", len(buf), in.Size())
	}
	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("round-trip mismatch: tags in=%q out=%q", in.TypeTags(), out.TypeTags())
	}
	if out.TypeTags() != "bfdihsmtTFNIs" {
		t.Fatalf("unexpected tags: %q", out.TypeTags())
	}
	if out.HasTimetag() {
		t.Fatalf("bare message must not carry a timetag")
	}

	again, err := Encode(out)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(buf, again) {
		t.Fatalf("re-encode mismatch")
	}
}

func TestRoundTripNaNBits(t *testing.T) {
	testlog.Start(t)

	nan := math.Float32frombits(0x7fc00001)
	in := NewMessage("/nan", NewFloat32(nan), NewFloat64(math.NaN()))
	buf, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Equal(in) {
		t.Fatalf("NaN payload not preserved")
	}
}

func TestTagKindConsistency(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(fullMessage())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	fm, err := frame.ParseMessage(buf, frame.DefaultLimits())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tags := fm.TypeTags()
	for i, a := range out.Args() {
		if a.Tag() != tags[i] {
			t.Fatalf("arg %d: kind %s has tag %q, wire tag %q", i, a.Kind(), a.Tag(), tags[i])
		}
	}
}

func TestAlignmentInvariant(t *testing.T) {
	testlog.Start(t)

	addrs := []string{"/", "/a", "/ab", "/abc", "/abcd", "/abcde"}
	for _, addr := range addrs {
		for nargs := 0; nargs < 7; nargs++ {
			m := NewMessage(addr)
			payloadLen := 0
			for k := 0; k < nargs; k++ {
				s := "xyz"[:k%4]
				m.AddString(s)
				payloadLen += frame.Align4(len(s) + 1)
			}
			buf, err := Encode(m)
			if err != nil {
				t.Fatalf("encode %q/%d: %v", addr, nargs, err)
			}
			tagStart := bytes.IndexByte(buf, ',')
			if tagStart%4 != 0 || tagStart <= len(addr) {
				t.Fatalf("%q/%d: tag string at %d", addr, nargs, tagStart)
			}
			if buf[tagStart+nargs+1] != 0 {
				t.Fatalf("%q/%d: tag string not terminated", addr, nargs)
			}
			payloadStart := len(buf) - payloadLen
			if payloadStart%4 != 0 || payloadStart < tagStart+nargs+2 {
				t.Fatalf("%q/%d: payload at %d", addr, nargs, payloadStart)
			}
			if len(buf)%4 != 0 {
				t.Fatalf("%q/%d: length %d not aligned", addr, nargs, len(buf))
			}
		}
	}
}

func TestEncodeCapacityBoundary(t *testing.T) {
	testlog.Start(t)

	m := NewMessage("/synth/1/freq")
	m.AddInt32(7)
	m.AddString("hi")
	m.AddFloat32(440.0)
	size := m.Size()

	dst := make([]byte, size)
	n, err := EncodeTo(m, dst)
	if err != nil || n != size {
		t.Fatalf("exact capacity: n=%d err=%v want n=%d", n, err, size)
	}

	_, err = EncodeTo(m, make([]byte, size-1))
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected EncodeError, got %v", err)
	}
	if encErr.Code != CodePayloadOverflow || encErr.Index != 2 {
		t.Fatalf("unexpected failure: code=%d index=%d", encErr.Code, encErr.Index)
	}
	if !errors.Is(err, ErrPayloadOverflow) {
		t.Fatalf("expected ErrPayloadOverflow, got %v", err)
	}

	_, err = EncodeTo(m, make([]byte, size-5))
	if !errors.As(err, &encErr) || encErr.Index != 1 {
		t.Fatalf("expected overflow at the string argument, got %v", err)
	}
}

func TestEncodeToZeroFillsPadding(t *testing.T) {
	testlog.Start(t)

	dst := bytes.Repeat([]byte{0xff}, 32)
	n, err := EncodeTo(NewMessage("/a", NewString("hi")), dst)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if n != 12 {
		t.Fatalf("unexpected length: %d", n)
	}
	for i := n; i < len(dst); i++ {
		if dst[i] != 0 {
			t.Fatalf("byte %d not cleared", i)
		}
	}
}

func TestEncodeErrorCodes(t *testing.T) {
	testlog.Start(t)

	cases := []struct {
		name     string
		msg      *Message
		capacity int
		code     EncodeCode
		want     error
	}{
		{"nil message", nil, 64, CodeAddressOverflow, ErrAddressOverflow},
		{"empty address", NewMessage(""), 64, CodeAddressOverflow, ErrAddressOverflow},
		{"no slash", NewMessage("synth"), 64, CodeAddressOverflow, ErrAddressOverflow},
		{"address fills buffer", NewMessage("/abc"), 4, CodeAddressOverflow, ErrAddressOverflow},
		{"tags do not fit", NewMessage("/abc", NewInt32(1)), 10, CodeTagOverflow, ErrTagOverflow},
		{"tag padding does not fit", NewMessage("/a"), 7, CodeTagOverflow, ErrTagOverflow},
		{"payload does not fit", NewMessage("/a", NewFloat64(1)), 12, CodePayloadOverflow, ErrPayloadOverflow},
		{"zero argument", NewMessage("/a", Argument{}), 64, CodeUnsupportedKind, ErrUnsupportedKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EncodeTo(tc.msg, make([]byte, tc.capacity))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var encErr *EncodeError
			if !errors.As(err, &encErr) || encErr.Code != tc.code {
				t.Fatalf("expected code %d, got %v", tc.code, err)
			}
		})
	}
}

func TestEncodeRejectsStringWithNUL(t *testing.T) {
	testlog.Start(t)

	msg := NewMessage("/p", NewString("a\x00bcdefg"), NewInt32(7))
	_, err := EncodeTo(msg, make([]byte, 64))
	var encErr *EncodeError
	if !errors.As(err, &encErr) || encErr.Code != CodeUnsupportedKind || encErr.Index != 0 {
		t.Fatalf("expected unsupported kind at index 0, got %v", err)
	}
	if _, err := Encode(msg); !errors.Is(err, ErrUnsupportedKind) {
		t.Fatalf("Encode: expected %v, got %v", ErrUnsupportedKind, err)
	}

	buf, err := Encode(NewMessage("/p", NewString("abcdefg"), NewInt32(7)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v, err := out.Int32At(1); err != nil || v != 7 {
		t.Fatalf("argument after string=%d err=%v", v, err)
	}
}

func TestEncodeMidiVerbatim(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(NewMessage("/m", NewMidi(Midi{Port: 0xf0, Status: 0x01, Data1: 0x02, Data2: 0x80})))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(buf[8:], []byte{0xf0, 0x01, 0x02, 0x80}) {
		t.Fatalf("midi bytes reordered: %x", buf[8:])
	}
}

func TestEncodeBlobPadding(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(NewMessage("/b", NewBlob([]byte{1, 2, 3, 4, 5}), NewInt32(9)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{
		'/', 'b', 0, 0,
		',', 'b', 'i', 0,
		0, 0, 0, 5, 1, 2, 3, 4, 5, 0, 0, 0,
		0, 0, 0, 9,
	}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded bytes mismatch: got=%x want=%x", buf, want)
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	testlog.Start(t)

	buf := []byte{'/', 'x', 0, 0, ',', 'i', 'c', 0, 0, 0, 0, 1, 0, 0, 0, 'a'}
	_, err := Decode(buf)
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	var tagErr UnknownTagError
	if !errors.As(err, &tagErr) || tagErr.Tag != 'c' || tagErr.Index != 1 {
		t.Fatalf("unexpected tag error: %+v", tagErr)
	}
}

func TestDecodeMalformed(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(NewMessage("/x", NewString("abc"), NewFloat64(1)))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cases := map[string][]byte{
		"truncated payload": buf[:len(buf)-4],
		"not a message":     []byte("nope"),
		"empty":             nil,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(in); !errors.Is(err, ErrMalformedPacket) {
				t.Fatalf("expected ErrMalformedPacket, got %v", err)
			}
		})
	}
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	testlog.Start(t)

	buf, err := Encode(NewMessage("/b", NewBlob([]byte{9, 9})))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	clear(buf)
	blob, err := out.BlobAt(0)
	if err != nil || !bytes.Equal(blob, []byte{9, 9}) {
		t.Fatalf("blob changed with input buffer: %x %v", blob, err)
	}
	if out.Address() != "/b" {
		t.Fatalf("address changed with input buffer: %q", out.Address())
	}
}
