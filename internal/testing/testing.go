// package testing contains test doubles shared by the songsmith packages: failing I/O, a scripted
// round tripper and a fake backend ([FakeBackend])
package testing

import (
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
)

// ErrInjected is returned by every failure these doubles simulate.
var ErrInjected = errors.New("injected failure")

// FWriter is an [io.Writer] whose writes always fail.
type FWriter struct{}

func (*FWriter) Write([]byte) (int, error) { return 0, ErrInjected }

// LimitedWriter forwards to a target until it has accepted maxWrites writes, then fails.
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, ErrInjected
	}
	l.written++
	return l.target.Write(p)
}

// MockRoundTripper answers every request with the same response or error and keeps the requests it saw.
type MockRoundTripper struct {
	response *http.Response
	err      error

	mu       sync.Mutex
	requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.response, m.err
}

// Requests returns the requests seen so far.
func (m *MockRoundTripper) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request(nil), m.requests...)
}

// FCloser is a response body that fails on read.
type FCloser struct{}

func (*FCloser) Read([]byte) (int, error) { return 0, ErrInjected }
func (*FCloser) Close() error             { return nil }

// AssertFileExists fails the test when path is missing.
func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected %s to exist, got %v", path, err)
	}
}

// MustReadFile returns the contents of path or stops the test.
func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}
