// Package alteration models time-bounded stat modifiers and status effects
// applied to movable entities.
package alteration

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind selects how an alteration affects its owner.
type Kind string

const (
	// Stun makes the owner skip its turns while active.
	Stun Kind = "stun"
	// StrengthUp adds Power to strike damage.
	StrengthUp Kind = "strength_up"
	// DefenseUp adds Power to physical mitigation.
	DefenseUp Kind = "defense_up"
	// ResistanceUp adds Power to spiritual mitigation.
	ResistanceUp Kind = "resistance_up"
	// Poison removes Power hp at every tick, never below 1.
	Poison Kind = "poison"
	// Regen restores Power hp at every tick.
	Regen Kind = "regen"
)

// ValidKind reports whether k is a known alteration kind.
func ValidKind(k Kind) bool {
	switch k {
	case Stun, StrengthUp, DefenseUp, ResistanceUp, Poison, Regen:
		return true
	}
	return false
}

// ErrDuplicate is returned when a definition id is registered twice.
var ErrDuplicate = errors.New("alteration: duplicate definition")

// Def is the static definition of an alteration, loaded from YAML.
type Def struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Kind        Kind   `yaml:"kind"`
	Power       int    `yaml:"power"`
	Duration    int    `yaml:"duration"`
}

// Validate checks the definition fields.
func (d *Def) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if !ValidKind(d.Kind) {
		errs = append(errs, fmt.Errorf("unknown kind %q", d.Kind))
	}
	if d.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be positive, got %d", d.Duration))
	}
	if d.Power < 0 {
		errs = append(errs, fmt.Errorf("power must be >= 0, got %d", d.Power))
	}
	return errors.Join(errs...)
}

// New instantiates the definition with its default power and duration.
func (d *Def) New() *Alteration {
	return &Alteration{Name: d.ID, Kind: d.Kind, Power: d.Power, Duration: d.Duration, Description: d.Description}
}

// Registry holds all known Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry.
//
// Precondition: def must not be nil.
// Postcondition: returns ErrDuplicate if def.ID is already registered; the
// registry is unchanged in that case.
func (r *Registry) Register(def *Def) error {
	if def == nil {
		panic("alteration: Register called with nil def")
	}
	if _, ok := r.defs[def.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, def.ID)
	}
	r.defs[def.ID] = def
	return nil
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns every registered Def sorted by ID.
func (r *Registry) All() []*Def {
	out := make([]*Def, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def,
// validates it and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading alteration dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		if err := reg.Register(&def); err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
	}
	return reg, nil
}
