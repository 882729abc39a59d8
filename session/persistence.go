package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"aidbg/storage"
)

// persistedSession is the on-disk shape: one JSON document per session id.
// Loading a file and re-saving it immediately reproduces the same messages
// array (saved_at may differ).
type persistedSession struct {
	SessionID string    `json:"session_id"`
	SavedAt   time.Time `json:"saved_at"`
	Messages  []Message `json:"messages"`
}

// Info is listing metadata for one stored session.
type Info struct {
	ID           string    `json:"id"`
	SavedAt      time.Time `json:"saved_at"`
	MessageCount int       `json:"message_count"`
}

// Persistence saves and restores session transcripts through a key→bytes
// store. The store decides where bytes live (files by default, SQLite as an
// alternative); Persistence only owns the encoding.
type Persistence struct {
	store storage.Store
}

func NewPersistence(store storage.Store) *Persistence {
	return &Persistence{store: store}
}

// Start binds the session to the given id. If a stored transcript exists it
// replaces the in-memory history wholesale and Start reports resumed=true;
// otherwise the history is reset for a fresh start. A corrupt stored
// transcript degrades to a fresh start rather than failing the session.
func (p *Persistence) Start(sess *Session, id string) (resumed bool, err error) {
	sess.SetID(id)

	data, err := p.store.Read(id)
	if err == storage.ErrNotFound {
		sess.History.Clear()
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to start session %q: %w", id, err)
	}

	var stored persistedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		sess.History.Clear()
		return false, nil
	}

	replay(sess.History, stored.Messages)
	return true, nil
}

// Save serializes the current transcript, overwriting any previous snapshot
// for the session id.
func (p *Persistence) Save(sess *Session) error {
	doc := persistedSession{
		SessionID: sess.ID(),
		SavedAt:   time.Now().UTC(),
		Messages:  sess.History.Messages(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := p.store.Write(sess.ID(), data); err != nil {
		return fmt.Errorf("failed to save session %q: %w", sess.ID(), err)
	}
	return nil
}

// ExportToJSON writes the current transcript to a standalone file outside the
// store, for sharing or archival.
func (p *Persistence) ExportToJSON(sess *Session, path string) error {
	doc := persistedSession{
		SessionID: sess.ID(),
		SavedAt:   time.Now().UTC(),
		Messages:  sess.History.Messages(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to export session to %q: %w", path, err)
	}
	return nil
}

// Clear deletes the stored snapshot and resets the in-memory transcript.
// A missing snapshot is not an error.
func (p *Persistence) Clear(sess *Session) error {
	err := p.store.Delete(sess.ID())
	if err != nil && err != storage.ErrNotFound {
		return fmt.Errorf("failed to clear session %q: %w", sess.ID(), err)
	}
	sess.Reset()
	return nil
}

// List enumerates stored sessions, newest first. Entries that fail to parse
// are skipped, not fatal: one corrupt file must not hide the rest.
func (p *Persistence) List() ([]Info, error) {
	keys, err := p.store.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	var infos []Info
	for _, key := range keys {
		data, err := p.store.Read(key)
		if err != nil {
			continue
		}
		var stored persistedSession
		if err := json.Unmarshal(data, &stored); err != nil {
			continue
		}
		id := stored.SessionID
		if id == "" {
			id = key
		}
		infos = append(infos, Info{
			ID:           id,
			SavedAt:      stored.SavedAt,
			MessageCount: len(stored.Messages),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].SavedAt.After(infos[j].SavedAt)
	})
	return infos, nil
}

// replay rebuilds a history through its own mutation operations so that the
// pending-pair attachment invariant holds for the loaded transcript too.
func replay(h *History, messages []Message) {
	h.Clear()
	for _, msg := range messages {
		switch msg.Role {
		case "user":
			h.AddUserMessage(msg.Content)
		case "model":
			for _, tc := range msg.ToolCalls {
				h.AddToolCall(tc.Name, tc.Args, tc.Result, tc.ID)
			}
			h.AddAssistantMessage(msg.Content)
		}
	}
}
