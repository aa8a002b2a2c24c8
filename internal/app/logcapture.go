package app

import (
	"strings"
	"sync"
)

// logCapture keeps the last lines written by the service logger for the
// log pane. Writers never block; the UI is told through updates that new
// text is available.
type logCapture struct {
	mu      sync.Mutex
	lines   []string
	limit   int
	updates chan struct{}
}

func newLogCapture(limit int) *logCapture {
	return &logCapture{limit: limit, updates: make(chan struct{}, 1)}
}

func (l *logCapture) Write(p []byte) (int, error) {
	text := strings.ReplaceAll(string(p), "\r\n", "\n")
	l.mu.Lock()
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			continue
		}
		l.lines = append(l.lines, part)
	}
	if len(l.lines) > l.limit {
		l.lines = l.lines[len(l.lines)-l.limit:]
	}
	l.mu.Unlock()
	select {
	case l.updates <- struct{}{}:
	default:
	}
	return len(p), nil
}

func (l *logCapture) Text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}
