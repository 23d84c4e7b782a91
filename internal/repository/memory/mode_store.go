package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/pkg/persona"

	"github.com/patrickmn/go-cache"
)

// ModeStore is the process-wide mode registry: pre-built bundles,
// runtime-generated bundles, the current-mode pointer, and the persona
// cache. It is shared by every session, so all access is mutex-guarded.
// Generated modes are snapshotted to disk best-effort; losing the
// snapshot only costs regeneration time.

type ModeStore struct {
	mu           sync.RWMutex
	prebuilt     map[string]*entity.Mode
	generated    map[string]*entity.Mode
	currentId    string
	snapshotPath string
	personas     *cache.Cache
	logger       logger.ILogger
}

type snapshot struct {
	CurrentId string         `json:"current_id"`
	Generated []*entity.Mode `json:"generated"`
}

func NewModeStore(snapshotPath string, log logger.ILogger) *ModeStore {
	s := &ModeStore{
		prebuilt:     builtinModes(),
		generated:    make(map[string]*entity.Mode),
		currentId:    "banking",
		snapshotPath: snapshotPath,
		personas:     cache.New(1*time.Hour, 10*time.Minute),
		logger:       log,
	}
	s.loadSnapshot()
	return s
}

// CurrentMode returns the active mode bundle.
func (s *ModeStore) CurrentMode() *entity.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.lookup(s.currentId); ok {
		return m
	}
	return s.prebuilt["banking"]
}

// GetMode resolves a mode id among pre-built and generated bundles.
func (s *ModeStore) GetMode(id string) (*entity.Mode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

func (s *ModeStore) lookup(id string) (*entity.Mode, bool) {
	if m, ok := s.prebuilt[id]; ok {
		return m, true
	}
	if m, ok := s.generated[id]; ok {
		return m, true
	}
	return nil, false
}

// SetCurrentMode activates a known mode and returns it; unknown ids leave
// the current mode untouched.
func (s *ModeStore) SetCurrentMode(id string) (*entity.Mode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.lookup(id)
	if !ok {
		return nil, false
	}
	s.currentId = id
	s.saveSnapshotLocked()
	return m, true
}

// SaveGenerated registers a generated mode (replacing any previous bundle
// with the same id) and persists the snapshot.
func (s *ModeStore) SaveGenerated(m *entity.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generated[m.Id] = m
	s.saveSnapshotLocked()
}

// GeneratePersona builds (and caches) the persona for a mode + session
// seed. Regeneration on mode switch is achieved by the mode id changing,
// not by invalidation.
func (s *ModeStore) GeneratePersona(modeID string, seed int64) entity.Persona {
	key := fmt.Sprintf("%s:%d", modeID, seed)
	if cached, found := s.personas.Get(key); found {
		return cached.(entity.Persona)
	}
	p := entity.Persona(persona.Generate(modeID, seed))
	s.personas.Set(key, p, cache.DefaultExpiration)
	return p
}

func (s *ModeStore) loadSnapshot() {
	if s.snapshotPath == "" {
		return
	}
	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("ModeStore", "Failed to read mode snapshot", map[string]interface{}{
				"path": s.snapshotPath, "error": err.Error(),
			})
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("ModeStore", "Corrupt mode snapshot ignored", map[string]interface{}{
			"path": s.snapshotPath, "error": err.Error(),
		})
		return
	}

	for _, m := range snap.Generated {
		s.generated[m.Id] = m
	}
	if _, ok := s.lookup(snap.CurrentId); ok {
		s.currentId = snap.CurrentId
	}
	s.logger.Info("ModeStore", "Mode snapshot loaded", map[string]interface{}{
		"generated": len(snap.Generated), "current": s.currentId,
	})
}

// saveSnapshotLocked persists best-effort; failures are logged, never
// propagated. Callers must hold s.mu.
func (s *ModeStore) saveSnapshotLocked() {
	if s.snapshotPath == "" {
		return
	}
	snap := snapshot{CurrentId: s.currentId}
	for _, m := range s.generated {
		snap.Generated = append(snap.Generated, m)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.snapshotPath), 0o755); err != nil {
		s.logger.Warn("ModeStore", "Failed to create snapshot dir", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := os.WriteFile(s.snapshotPath, data, 0o644); err != nil {
		s.logger.Warn("ModeStore", "Failed to write mode snapshot", map[string]interface{}{
			"path": s.snapshotPath, "error": err.Error(),
		})
	}
}
