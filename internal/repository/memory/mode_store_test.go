package memory

import (
	"path/filepath"
	"reflect"
	"testing"

	"ai-dashboard-be/internal/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestStore(t *testing.T) *ModeStore {
	t.Helper()
	return NewModeStore(filepath.Join(t.TempDir(), "modes.json"), nopLogger{})
}

func TestDefaultsToBanking(t *testing.T) {
	s := newTestStore(t)
	if got := s.CurrentMode().Id; got != "banking" {
		t.Errorf("default mode = %q", got)
	}
}

func TestBuiltinFamiliesPresent(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"banking", "insurance", "healthcare"} {
		m, ok := s.GetMode(id)
		if !ok {
			t.Fatalf("missing builtin mode %q", id)
		}
		if m.CompanyName == "" || m.SystemPrompt == "" || len(m.Tabs) == 0 {
			t.Errorf("builtin %q is incomplete", id)
		}
	}
}

func TestSetCurrentMode(t *testing.T) {
	s := newTestStore(t)

	m, ok := s.SetCurrentMode("healthcare")
	if !ok || m.Id != "healthcare" {
		t.Fatalf("SetCurrentMode = %v, %v", m, ok)
	}
	if s.CurrentMode().Id != "healthcare" {
		t.Error("current mode not updated")
	}

	if _, ok := s.SetCurrentMode("nonexistent"); ok {
		t.Error("unknown id should be rejected")
	}
	if s.CurrentMode().Id != "healthcare" {
		t.Error("failed switch must not change current mode")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modes.json")

	s := NewModeStore(path, nopLogger{})
	s.SaveGenerated(&entity.Mode{
		Id:          "pet_store",
		Name:        "Pet Store",
		CompanyName: "Pawsome Pets",
		SystemPrompt: "You are a pet store assistant.",
	})
	if _, ok := s.SetCurrentMode("pet_store"); !ok {
		t.Fatal("generated mode not resolvable")
	}

	// A fresh store over the same path picks up the snapshot.
	restored := NewModeStore(path, nopLogger{})
	m, ok := restored.GetMode("pet_store")
	if !ok {
		t.Fatal("generated mode lost across restart")
	}
	if m.CompanyName != "Pawsome Pets" {
		t.Errorf("company = %q", m.CompanyName)
	}
	if restored.CurrentMode().Id != "pet_store" {
		t.Errorf("current mode not restored: %q", restored.CurrentMode().Id)
	}
}

func TestGeneratePersonaCached(t *testing.T) {
	s := newTestStore(t)

	a := s.GeneratePersona("banking", 42)
	b := s.GeneratePersona("banking", 42)
	if !reflect.DeepEqual(a, b) {
		t.Error("same mode+seed should return the cached persona")
	}
	if a["name"] != "Marco Casalaina" {
		t.Errorf("name = %v", a["name"])
	}

	other := s.GeneratePersona("insurance", 42)
	if reflect.DeepEqual(a, other) {
		t.Error("different modes must generate different personas")
	}
}
