package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chaz8081/badge2-textd/internal/ble"
	"github.com/chaz8081/badge2-textd/internal/store"
)

// mockTransport scripts the transport for session tests. Each element
// of connections is the sequence of listen events for one accepted
// connection; when a connection's events run out, the listen loop sees
// a disconnect. Once all scripted connections are consumed,
// WaitForConnection blocks until the context is cancelled and closes
// exhausted so tests know the script has fully played out.
type mockTransport struct {
	mu          sync.Mutex
	connections [][]ble.Event
	current     []ble.Event
	inConn      bool

	readValue      []byte
	advertiseName  string
	advertiseErrs  []error // returned by successive Advertise calls, then nil
	advertiseCalls int
	stopCalls      int
	closed         bool

	exhausted     chan struct{}
	exhaustedOnce sync.Once
}

func newMockTransport(connections ...[]ble.Event) *mockTransport {
	return &mockTransport{
		connections: connections,
		exhausted:   make(chan struct{}),
	}
}

func (m *mockTransport) Enable() error { return nil }

func (m *mockTransport) Advertise(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advertiseName = name
	m.advertiseCalls++
	if len(m.advertiseErrs) > 0 {
		err := m.advertiseErrs[0]
		m.advertiseErrs = m.advertiseErrs[1:]
		return err
	}
	return nil
}

func (m *mockTransport) StopAdvertise() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	return nil
}

func (m *mockTransport) WaitForConnection(ctx context.Context) error {
	m.mu.Lock()
	if len(m.connections) > 0 {
		m.current = m.connections[0]
		m.connections = m.connections[1:]
		m.inConn = true
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	m.exhaustedOnce.Do(func() { close(m.exhausted) })
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockTransport) NextWrite(timeout time.Duration) ble.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.inConn || len(m.current) == 0 {
		m.inConn = false
		return ble.Event{Kind: ble.EventDisconnected}
	}
	ev := m.current[0]
	m.current = m.current[1:]
	return ev
}

func (m *mockTransport) SetReadValue(value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readValue = append(m.readValue[:0], value...)
	return nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// lastReadValue returns the current characteristic read value (thread-safe).
func (m *mockTransport) lastReadValue() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.readValue)
}

func frag(s string) ble.Event {
	return ble.Event{Kind: ble.EventFragment, Data: []byte(s)}
}

// recordingDisplay captures everything shown for assertions.
type recordingDisplay struct {
	mu       sync.Mutex
	texts    []string
	statuses []string
	password string
	url      string
}

func (d *recordingDisplay) ShowText(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts = append(d.texts, text)
}

func (d *recordingDisplay) ShowStatus(label string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statuses = append(d.statuses, label)
}

func (d *recordingDisplay) ShowPairing(password, url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.password = password
	d.url = url
}

func (d *recordingDisplay) sawStatus(label string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.statuses {
		if s == label {
			return true
		}
	}
	return false
}

// memStore is an in-memory Store for session tests.
type memStore struct {
	mu    sync.Mutex
	text  string
	saves int
}

func (s *memStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.text == "" {
		return store.DefaultText, nil
	}
	return s.text, nil
}

func (s *memStore) Save(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.saves++
	return nil
}

func (s *memStore) saved() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text, s.saves
}

func TestMockTransportImplementsInterface(t *testing.T) {
	var _ ble.Transport = (*mockTransport)(nil)
}
