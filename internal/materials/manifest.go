package materials

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Module is one unit of a course with its concepts and materials.
type Module struct {
	ID        string     `yaml:"id"`
	Title     string     `yaml:"title"`
	Concepts  []string   `yaml:"concepts"`
	Materials []Material `yaml:"materials"`
}

// Course lists the modules of a course in order.
type Course struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Modules []Module `yaml:"modules"`
}

// Manifest is the materials file: every course the client knows materials for.
type Manifest struct {
	Courses []Course `yaml:"courses"`
}

// LoadManifest reads a YAML manifest. A missing file yields an empty
// manifest so that no module is gated.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return &Manifest{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates manifest YAML.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every material and rejects duplicate ids within a module.
func (m *Manifest) Validate() error {
	for _, c := range m.Courses {
		for _, mod := range c.Modules {
			seen := make(map[string]bool, len(mod.Materials))
			for _, mat := range mod.Materials {
				if err := mat.Validate(); err != nil {
					return fmt.Errorf("course %s module %s: %w", c.ID, mod.ID, err)
				}
				if seen[mat.ID] {
					return fmt.Errorf("course %s module %s: duplicate material %s", c.ID, mod.ID, mat.ID)
				}
				seen[mat.ID] = true
			}
		}
	}
	return nil
}

// Course returns the course with the given id.
func (m *Manifest) Course(id string) (Course, bool) {
	for _, c := range m.Courses {
		if c.ID == id {
			return c, true
		}
	}
	return Course{}, false
}

// Module returns a module of a course.
func (m *Manifest) Module(courseID, moduleID string) (Module, bool) {
	c, ok := m.Course(courseID)
	if !ok {
		return Module{}, false
	}
	for _, mod := range c.Modules {
		if mod.ID == moduleID {
			return mod, true
		}
	}
	return Module{}, false
}

// ModuleFor returns the id of the module that teaches a concept, or "".
func (m *Manifest) ModuleFor(courseID, conceptID string) string {
	c, ok := m.Course(courseID)
	if !ok {
		return ""
	}
	for _, mod := range c.Modules {
		for _, id := range mod.Concepts {
			if id == conceptID {
				return mod.ID
			}
		}
	}
	return ""
}

// Registry builds gates from a manifest and a completion repository.
type Registry struct {
	manifest *Manifest
	repo     Repository
	logger   *slog.Logger
}

// NewRegistry creates a registry. A nil manifest gates nothing.
func NewRegistry(manifest *Manifest, repo Repository, logger *slog.Logger) *Registry {
	if manifest == nil {
		manifest = &Manifest{}
	}
	return &Registry{manifest: manifest, repo: repo, logger: logger}
}

// Manifest returns the underlying manifest.
func (r *Registry) Manifest() *Manifest { return r.manifest }

// ModuleFor resolves the module of a concept.
func (r *Registry) ModuleFor(courseID, conceptID string) string {
	return r.manifest.ModuleFor(courseID, conceptID)
}

// Gate returns the gate for a learner's module. Unknown modules get a gate
// with no materials, which is always unlocked.
func (r *Registry) Gate(learnerID, courseID, moduleID string) *Gate {
	mod, _ := r.manifest.Module(courseID, moduleID)
	return NewGate(r.repo, r.logger, learnerID, courseID, moduleID, mod.Materials)
}
