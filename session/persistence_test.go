package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"aidbg/storage"
)

func newTestPersistence(t *testing.T) *Persistence {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewPersistence(store)
}

func TestPersistenceStartSaveResume(t *testing.T) {
	p := newTestPersistence(t)

	sess := New("s1")
	resumed, err := p.Start(sess, "s1")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if resumed {
		t.Error("first start must report a new session")
	}
	if sess.History.Len() != 0 {
		t.Errorf("new session must have empty history, got %d", sess.History.Len())
	}

	sess.History.AddUserMessage("hi")
	sess.History.AddAssistantMessage("hello")
	if err := p.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := New("s1")
	resumed, err = p.Start(fresh, "s1")
	if err != nil {
		t.Fatalf("Start after save: %v", err)
	}
	if !resumed {
		t.Error("second start must report resumed")
	}
	if !reflect.DeepEqual(fresh.History.Messages(), sess.History.Messages()) {
		t.Errorf("resumed history differs:\n got %+v\nwant %+v",
			fresh.History.Messages(), sess.History.Messages())
	}
}

func TestPersistenceRoundTripWithToolCalls(t *testing.T) {
	p := newTestPersistence(t)

	sess := New("tools")
	sess.History.AddUserMessage("inspect x")
	sess.History.AddToolCall("evaluate_code", map[string]any{"code": "x"}, map[string]any{"result": "42"}, "c1")
	sess.History.AddToolCall("list_methods", map[string]any{"expression": "x"}, map[string]any{"count": float64(3)}, "c2")
	sess.History.AddAssistantMessage("x is 42")
	sess.History.AddUserMessage("thanks")
	sess.History.AddAssistantMessage("any time")

	if err := p.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := New("tools")
	if _, err := p.Start(loaded, "tools"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !reflect.DeepEqual(loaded.History.Messages(), sess.History.Messages()) {
		t.Errorf("round trip lost information:\n got %+v\nwant %+v",
			loaded.History.Messages(), sess.History.Messages())
	}
}

func TestPersistenceCorruptFileDegradesToFresh(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := store.Write("broken", []byte("{not json")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	p := NewPersistence(store)

	sess := New("broken")
	resumed, err := p.Start(sess, "broken")
	if err != nil {
		t.Fatalf("Start with corrupt file: %v", err)
	}
	if resumed {
		t.Error("corrupt file must degrade to a fresh session")
	}
	if sess.History.Len() != 0 {
		t.Error("corrupt file must yield an empty history")
	}
}

func TestPersistenceListSkipsCorruptEntries(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	p := NewPersistence(store)

	good := New("good")
	good.History.AddUserMessage("hi")
	good.History.AddAssistantMessage("hello")
	if err := p.Save(good); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Write("bad", []byte("garbage")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	infos, err := p.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 listed session, got %d", len(infos))
	}
	if infos[0].ID != "good" || infos[0].MessageCount != 2 {
		t.Errorf("unexpected listing: %+v", infos[0])
	}
}

func TestPersistenceClear(t *testing.T) {
	p := newTestPersistence(t)

	sess := New("gone")
	sess.History.AddUserMessage("hi")
	if err := p.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := p.Clear(sess); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if sess.History.Len() != 0 {
		t.Error("Clear must reset the in-memory history")
	}

	// clearing again with no stored file is not an error
	if err := p.Clear(sess); err != nil {
		t.Errorf("Clear without a stored file: %v", err)
	}
}

func TestPersistenceExportToJSON(t *testing.T) {
	p := newTestPersistence(t)

	sess := New("exp")
	sess.History.AddUserMessage("hi")
	sess.History.AddAssistantMessage("hello")

	path := filepath.Join(t.TempDir(), "export.json")
	if err := p.ExportToJSON(sess, path); err != nil {
		t.Fatalf("ExportToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	var doc persistedSession
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if doc.SessionID != "exp" || len(doc.Messages) != 2 {
		t.Errorf("exported doc = %+v", doc)
	}
}
