package protocol

import "github.com/danmuck/oscwire/internal/protocol/frame"

// Message is an address pattern plus an ordered argument list. Messages
// decoded from a bundle carry the bundle timetag; bare messages carry zero.
type Message struct {
	address  string
	args     []Argument
	timetag  Timetag
	inBundle bool
}

// NewMessage starts a message for programmatic construction.
func NewMessage(address string, args ...Argument) *Message {
	m := &Message{address: address}
	for _, a := range args {
		m.Add(a)
	}
	return m
}

func (m *Message) Address() string { return m.address }

// Timetag returns the enclosing bundle timetag, zero for a bare message.
// A bundle may itself be stamped zero; use HasTimetag to tell them apart.
func (m *Message) Timetag() Timetag { return m.timetag }

// HasTimetag reports whether the message arrived inside a bundle.
func (m *Message) HasTimetag() bool { return m.inBundle }

// MatchesAddress reports whether address equals the message address.
func (m *Message) MatchesAddress(address string) bool { return m.address == address }

// Len returns the number of arguments.
func (m *Message) Len() int { return len(m.args) }

// Arg returns the argument at i.
func (m *Message) Arg(i int) (Argument, error) {
	if i < 0 || i >= len(m.args) {
		return Argument{}, ErrArgumentIndex
	}
	return m.args[i], nil
}

// Args returns a copy of the argument list.
func (m *Message) Args() []Argument {
	out := make([]Argument, len(m.args))
	copy(out, m.args)
	return out
}

// TypeTags returns the tag characters of every argument in order.
func (m *Message) TypeTags() string {
	tags := make([]byte, len(m.args))
	for i, a := range m.args {
		tags[i] = a.Tag()
	}
	return string(tags)
}

// Add appends an argument. Blob arguments are copied so the message owns
// their bytes.
func (m *Message) Add(a Argument) {
	if a.kind == KindBlob {
		a = NewBlob(a.blob)
	}
	m.args = append(m.args, a)
}

func (m *Message) AddBlob(b []byte) { m.args = append(m.args, NewBlob(b)) }
func (m *Message) AddFloat32(v float32) { m.args = append(m.args, NewFloat32(v)) }
func (m *Message) AddFloat64(v float64) { m.args = append(m.args, NewFloat64(v)) }
func (m *Message) AddInt32(v int32) { m.args = append(m.args, NewInt32(v)) }
func (m *Message) AddInt64(v int64) { m.args = append(m.args, NewInt64(v)) }
func (m *Message) AddString(v string) { m.args = append(m.args, NewString(v)) }
func (m *Message) AddMidi(v Midi) { m.args = append(m.args, NewMidi(v)) }
func (m *Message) AddTimetag(v Timetag) { m.args = append(m.args, NewTimetag(v)) }
func (m *Message) AddBool(v bool) { m.args = append(m.args, NewBool(v)) }
func (m *Message) AddNil() { m.args = append(m.args, NewNil()) }
func (m *Message) AddInfinitum() { m.args = append(m.args, NewInfinitum()) }

// Is reports whether argument i exists and has kind k.
func (m *Message) Is(i int, k Kind) bool {
	return i >= 0 && i < len(m.args) && m.args[i].kind == k
}

func (m *Message) BlobAt(i int) ([]byte, error) {
	a, err := m.Arg(i)
	if err != nil {
		return nil, err
	}
	return a.Blob()
}

func (m *Message) Float32At(i int) (float32, error) {
	a, err := m.Arg(i)
	if err != nil {
		return 0, err
	}
	return a.Float32()
}

func (m *Message) Float64At(i int) (float64, error) {
	a, err := m.Arg(i)
	if err != nil {
		return 0, err
	}
	return a.Float64()
}

func (m *Message) Int32At(i int) (int32, error) {
	a, err := m.Arg(i)
	if err != nil {
		return 0, err
	}
	return a.Int32()
}

func (m *Message) Int64At(i int) (int64, error) {
	a, err := m.Arg(i)
	if err != nil {
		return 0, err
	}
	return a.Int64()
}

func (m *Message) StringAt(i int) (string, error) {
	a, err := m.Arg(i)
	if err != nil {
		return "", err
	}
	return a.String()
}

func (m *Message) MidiAt(i int) (Midi, error) {
	a, err := m.Arg(i)
	if err != nil {
		return Midi{}, err
	}
	return a.Midi()
}

func (m *Message) TimetagAt(i int) (Timetag, error) {
	a, err := m.Arg(i)
	if err != nil {
		return 0, err
	}
	return a.Timetag()
}

func (m *Message) BoolAt(i int) (bool, error) {
	a, err := m.Arg(i)
	if err != nil {
		return false, err
	}
	return a.Bool()
}

// Clone returns a deep copy, blob bytes included.
func (m *Message) Clone() *Message {
	out := &Message{
		address:  m.address,
		timetag:  m.timetag,
		inBundle: m.inBundle,
		args:     make([]Argument, len(m.args)),
	}
	for i, a := range m.args {
		if a.kind == KindBlob {
			a = NewBlob(a.blob)
		}
		out.args[i] = a
	}
	return out
}

// Equal compares address and arguments. The bundle timetag is not part of
// message content.
func (m *Message) Equal(o *Message) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.address != o.address || len(m.args) != len(o.args) {
		return false
	}
	for i := range m.args {
		if !m.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

// Size returns the exact encoded length of the message.
func (m *Message) Size() int {
	n := frame.Align4(len(m.address)+1) + frame.Align4(len(m.args)+2)
	for _, a := range m.args {
		n += a.size()
	}
	return n
}
