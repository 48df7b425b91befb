package config

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"
)

// ChatKey identifies one saved browsing position: a chat plus a media tab.
type ChatKey struct {
	ChannelID int64  `yaml:"channel_id"`
	Tab       string `yaml:"tab"`
}

// ChatState is the saved browsing position of one chat tab, mirroring the
// gallery's memento.
type ChatState struct {
	AroundChannelID  int64 `yaml:"around_channel_id"`
	AroundMessageID  int64 `yaml:"around_message_id"`
	IdsLimit         int   `yaml:"ids_limit"`
	ScrollTopChannel int64 `yaml:"scroll_top_channel"`
	ScrollTopMessage int64 `yaml:"scroll_top_message"`
	ScrollTopShift   int   `yaml:"scroll_top_shift"`
}

type sessionEntry struct {
	Key   ChatKey   `yaml:"key"`
	State ChatState `yaml:"state"`
}

// Session persists browsing positions across runs. Each session gets a
// fresh ULID so log lines from different runs can be correlated.
type Session struct {
	ID      string         `yaml:"id"`
	SavedAt time.Time      `yaml:"saved_at"`
	Entries []sessionEntry `yaml:"entries"`
}

// NewSession creates an empty session with a fresh id.
func NewSession() *Session {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return &Session{
		ID: ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String(),
	}
}

// LoadSession reads the session at path, returning a fresh session when the
// file does not exist.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session %s: %w", path, err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", path, err)
	}
	if s.ID == "" {
		s.ID = NewSession().ID
	}
	return &s, nil
}

// Save writes the session to path, creating parent directories.
func (s *Session) Save(path string) error {
	s.SavedAt = time.Now()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing session %s: %w", path, err)
	}
	return nil
}

// Get returns the saved state for key, if any.
func (s *Session) Get(key ChatKey) (ChatState, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e.State, true
		}
	}
	return ChatState{}, false
}

// Put stores or replaces the state for key.
func (s *Session) Put(key ChatKey, state ChatState) {
	for i, e := range s.Entries {
		if e.Key == key {
			s.Entries[i].State = state
			return
		}
	}
	s.Entries = append(s.Entries, sessionEntry{Key: key, State: state})
}

// Delete removes the state for key.
func (s *Session) Delete(key ChatKey) {
	for i, e := range s.Entries {
		if e.Key == key {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return
		}
	}
}
