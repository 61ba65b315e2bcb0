package materials

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Repository persists per-module completion sets.
type Repository interface {
	CompletedMaterials(ctx context.Context, key string) ([]string, error)
	MarkMaterialComplete(ctx context.Context, key, materialID string) error
}

// CompletionKey is the storage key of a learner's completion set for one
// module.
func CompletionKey(learnerID, courseID, moduleID string) string {
	return fmt.Sprintf("completions_%s_%s_%s", learnerID, courseID, moduleID)
}

// MaterialStatus pairs a material with its completion.
type MaterialStatus struct {
	Material Material
	Complete bool
}

// State returns the persisted flow state of the material.
func (s MaterialStatus) State() State {
	if s.Complete {
		return StateComplete
	}
	return StateIncomplete
}

// Gate decides whether a learner may enter a module.
type Gate struct {
	repo      Repository
	logger    *slog.Logger
	learnerID string
	courseID  string
	moduleID  string
	materials []Material
}

// NewGate creates a gate over a module's material list.
func NewGate(repo Repository, logger *slog.Logger, learnerID, courseID, moduleID string, materials []Material) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		repo:      repo,
		logger:    logger,
		learnerID: learnerID,
		courseID:  courseID,
		moduleID:  moduleID,
		materials: materials,
	}
}

// ModuleID returns the module the gate guards.
func (g *Gate) ModuleID() string { return g.moduleID }

// Key returns the completion-set key for this learner and module.
func (g *Gate) Key() string { return CompletionKey(g.learnerID, g.courseID, g.moduleID) }

// IsUnlocked reports whether every required material is complete. The
// completion set is read from the repository on every call.
func (g *Gate) IsUnlocked(ctx context.Context) (bool, error) {
	statuses, err := g.Status(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range statuses {
		if s.Material.Blocking() && !s.Complete {
			return false, nil
		}
	}
	return true, nil
}

// Status lists every material of the module with its completion.
func (g *Gate) Status(ctx context.Context) ([]MaterialStatus, error) {
	done, err := g.completed(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MaterialStatus, len(g.materials))
	for i, m := range g.materials {
		out[i] = MaterialStatus{Material: m, Complete: slices.Contains(done, m.ID)}
	}
	return out, nil
}

// Material returns the material with the given id.
func (g *Gate) Material(id string) (Material, bool) {
	for _, m := range g.materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// Open starts the completion flow for a material.
func (g *Gate) Open(ctx context.Context, id string) (*Flow, error) {
	m, ok := g.Material(id)
	if !ok {
		return nil, fmt.Errorf("material %q not in module %s", id, g.moduleID)
	}
	done, err := g.completed(ctx)
	if err != nil {
		return nil, err
	}
	f := &Flow{gate: g, material: m, state: StateViewing}
	if slices.Contains(done, id) {
		f.state = StateComplete
	}
	return f, nil
}

func (g *Gate) completed(ctx context.Context) ([]string, error) {
	if g.repo == nil {
		return nil, nil
	}
	done, err := g.repo.CompletedMaterials(ctx, g.Key())
	if err != nil {
		return nil, fmt.Errorf("read completions for %s: %w", g.moduleID, err)
	}
	return done, nil
}

func (g *Gate) markComplete(ctx context.Context, id string) error {
	if g.repo == nil {
		return nil
	}
	if err := g.repo.MarkMaterialComplete(ctx, g.Key(), id); err != nil {
		return fmt.Errorf("record completion of %s: %w", id, err)
	}
	g.logger.Info("material completed", "module", g.moduleID, "material", id)
	return nil
}

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu   sync.Mutex
	sets map[string][]string
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sets: make(map[string][]string)}
}

func (r *MemoryRepository) CompletedMaterials(_ context.Context, key string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.sets[key]), nil
}

func (r *MemoryRepository) MarkMaterialComplete(_ context.Context, key, materialID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.sets[key], materialID) {
		r.sets[key] = append(r.sets[key], materialID)
	}
	return nil
}
