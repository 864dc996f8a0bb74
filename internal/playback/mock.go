// internal/playback/mock.go
package playback

import "fmt"

// Call records one intent received by Mock.
type Call struct {
	Op  string // "load", "seek", "play", "stop", "still", "hide"
	Arg string
}

func (c Call) String() string {
	if c.Arg == "" {
		return c.Op
	}
	return c.Op + "(" + c.Arg + ")"
}

// Mock is a test double for Player.
type Mock struct {
	source  string
	state   State
	output  Output
	offset  float64
	loadErr map[string]error
	calls   []Call
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{loadErr: make(map[string]error)}
}

func (m *Mock) Load(path string) error {
	m.calls = append(m.calls, Call{Op: "load", Arg: path})
	if err := m.loadErr[path]; err != nil {
		m.source = ""
		return err
	}
	m.source = path
	m.offset = 0
	return nil
}

func (m *Mock) Seek(offset float64) {
	m.calls = append(m.calls, Call{Op: "seek", Arg: fmt.Sprintf("%g", offset)})
	m.offset = offset
}

func (m *Mock) Play() {
	m.calls = append(m.calls, Call{Op: "play"})
	if m.source != "" {
		m.state = StatePlaying
		m.output = OutputVideo
	}
}

func (m *Mock) Stop() {
	m.calls = append(m.calls, Call{Op: "stop"})
	m.state = StateStopped
}

func (m *Mock) ShowStill(path string) error {
	m.calls = append(m.calls, Call{Op: "still", Arg: path})
	if err := m.loadErr[path]; err != nil {
		return err
	}
	m.output = OutputStill
	return nil
}

func (m *Mock) Hide() {
	m.calls = append(m.calls, Call{Op: "hide"})
	m.output = OutputHidden
}

func (m *Mock) Source() string { return m.source }

// Test helpers

func (m *Mock) State() State { return m.state }

func (m *Mock) Output() Output { return m.output }

func (m *Mock) Offset() float64 { return m.offset }

func (m *Mock) SetLoadError(path string, err error) { m.loadErr[path] = err }

func (m *Mock) Calls() []Call { return m.calls }

func (m *Mock) ResetCalls() { m.calls = nil }

// CallsOf returns the recorded calls with the given op.
func (m *Mock) CallsOf(op string) []Call {
	var out []Call
	for _, c := range m.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Verify Mock implements Player at compile time.
var _ Player = (*Mock)(nil)
