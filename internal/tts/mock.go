package tts

import "sync"

// MockSpeaker records phrases instead of voicing them. It doubles as
// the silent speaker when speech is disabled.
type MockSpeaker struct {
	mu      sync.Mutex
	phrases []string
	err     error
}

// Say records the phrase.
func (m *MockSpeaker) Say(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.phrases = append(m.phrases, text)
	return nil
}

// SetError makes subsequent Say calls fail.
func (m *MockSpeaker) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Phrases returns everything spoken so far.
func (m *MockSpeaker) Phrases() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.phrases))
	copy(out, m.phrases)
	return out
}
