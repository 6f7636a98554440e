// Package testing provides sink doubles used in tests.
package testing

import (
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockSink provides a mock implementation of sink.Sink.
type MockSink struct {
	mock.Mock
}

// WriteLine implements sink.Sink.WriteLine.
func (m *MockSink) WriteLine(line string) error {
	args := m.Called(line)
	return args.Error(0)
}

// Close implements sink.Sink.Close.
func (m *MockSink) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MemorySink records written lines in memory.
type MemorySink struct {
	mu     sync.Mutex
	lines  []string
	Closed bool
}

// WriteLine appends line.
func (s *MemorySink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	return nil
}

// Close marks the sink closed.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// Lines returns a copy of the written lines.
func (s *MemorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}
