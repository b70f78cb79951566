package models

import "sync"

// MessageLog collects the human-readable notices, warnings and errors a
// vault produces. Entries are append-only; guard rejections and remote
// failures land here in addition to the typed error returned to the caller,
// so callers that ignore return values can still inspect what happened.
type MessageLog struct {
	mu       sync.Mutex
	notices  []string
	warnings []string
	errors   []string
}

func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Notice appends an informational message.
func (m *MessageLog) Notice(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, msg)
}

// Warn appends a warning message.
func (m *MessageLog) Warn(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnings = append(m.warnings, msg)
}

// Error appends an error message.
func (m *MessageLog) Error(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

// Notices returns a copy of the accumulated notices.
func (m *MessageLog) Notices() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.notices...)
}

// Warnings returns a copy of the accumulated warnings.
func (m *MessageLog) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.warnings...)
}

// Errors returns a copy of the accumulated errors.
func (m *MessageLog) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.errors...)
}

// ErrorCount returns the number of error entries logged so far.
func (m *MessageLog) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

// LastError returns the most recent error entry, if any.
func (m *MessageLog) LastError() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errors) == 0 {
		return "", false
	}
	return m.errors[len(m.errors)-1], true
}
