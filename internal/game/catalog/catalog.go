// Package catalog loads the static game data: item, foe and character
// templates, classes, races and alteration definitions. Every definition is
// read from YAML, validated at load time and instantiated on demand.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Grimmys/rpg-tactical-fantasy-game-sub001/internal/game/alteration"
)

var (
	// ErrDuplicate is returned when two definitions of one kind share an id.
	ErrDuplicate = errors.New("catalog: duplicate definition")
	// ErrUnknown is returned when a definition references a missing id.
	ErrUnknown = errors.New("catalog: unknown definition")
)

// Sub directories of a catalog root.
const (
	DirItems       = "items"
	DirFoes        = "foes"
	DirCharacters  = "characters"
	DirClasses     = "classes"
	DirRaces       = "races"
	DirAlterations = "alterations"
)

// identified is implemented by every definition type.
type identified interface {
	comparable
	key() string
}

// Registry holds definitions of one kind keyed by id.
type Registry[T identified] struct {
	defs map[string]T
}

// NewRegistry creates an empty Registry.
func NewRegistry[T identified]() *Registry[T] {
	return &Registry[T]{defs: make(map[string]T)}
}

// Register adds def.
//
// Postcondition: returns ErrDuplicate and leaves the registry unchanged when
// the id is taken.
func (r *Registry[T]) Register(def T) error {
	var zero T
	if def == zero {
		panic("catalog: Register called with nil def")
	}
	if _, ok := r.defs[def.key()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, def.key())
	}
	r.defs[def.key()] = def
	return nil
}

// Get returns the definition for id.
func (r *Registry[T]) Get(id string) (T, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Len returns the number of definitions.
func (r *Registry[T]) Len() int { return len(r.defs) }

// All returns every definition sorted by id.
func (r *Registry[T]) All() []T {
	out := make([]T, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key() < out[j].key() })
	return out
}

// Catalog is the complete static data set.
type Catalog struct {
	Items       *Registry[*ItemDef]
	Foes        *Registry[*FoeDef]
	Characters  *Registry[*CharacterDef]
	Classes     *Registry[*ClassDef]
	Races       *Registry[*RaceDef]
	Alterations *alteration.Registry
}

// New returns an empty Catalog.
func New() *Catalog {
	return &Catalog{
		Items:       NewRegistry[*ItemDef](),
		Foes:        NewRegistry[*FoeDef](),
		Characters:  NewRegistry[*CharacterDef](),
		Classes:     NewRegistry[*ClassDef](),
		Races:       NewRegistry[*RaceDef](),
		Alterations: alteration.NewRegistry(),
	}
}

// LoadDirectory reads a catalog rooted at root. Missing sub directories
// yield empty registries; a missing root is an error. Cross references
// (loot, starting items, classes, races, side effect alterations) are
// checked once everything is loaded.
//
// Precondition: root must be a readable directory.
func LoadDirectory(root string) (*Catalog, error) {
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("reading catalog root %q: %w", root, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("catalog root %q is not a directory", root)
	}
	c := New()
	altDir := filepath.Join(root, DirAlterations)
	if _, err := os.Stat(altDir); err == nil {
		reg, err := alteration.LoadDirectory(altDir)
		if err != nil {
			return nil, err
		}
		c.Alterations = reg
	}
	if err := loadInto(filepath.Join(root, DirItems), c.Items); err != nil {
		return nil, err
	}
	if err := loadInto(filepath.Join(root, DirRaces), c.Races); err != nil {
		return nil, err
	}
	if err := loadInto(filepath.Join(root, DirClasses), c.Classes); err != nil {
		return nil, err
	}
	if err := loadInto(filepath.Join(root, DirFoes), c.Foes); err != nil {
		return nil, err
	}
	if err := loadInto(filepath.Join(root, DirCharacters), c.Characters); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validator is implemented by definitions checking their own fields.
type validator interface {
	Validate() error
}

// loadInto decodes every *.yaml file of dir as a D and registers it.
func loadInto[D any, T interface {
	*D
	identified
	validator
}](dir string, reg *Registry[T]) error {
	files, err := yamlFiles(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		def := T(new(D))
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(def); err != nil {
			return fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating %q: %w", path, err)
		}
		if err := reg.Register(def); err != nil {
			return fmt.Errorf("%q: %w", path, err)
		}
	}
	return nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir %q: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// Validate checks the references between definitions.
func (c *Catalog) Validate() error {
	var errs []error
	for _, it := range c.Items.All() {
		for _, e := range it.allEffects() {
			if e.Kind == "alteration" {
				if _, ok := c.Alterations.Get(e.Alteration); !ok {
					errs = append(errs, fmt.Errorf("item %q: %w alteration %q", it.ID, ErrUnknown, e.Alteration))
				}
			}
		}
	}
	for _, f := range c.Foes.All() {
		for _, l := range f.Loot {
			if l.Item != "" {
				if _, ok := c.Items.Get(l.Item); !ok {
					errs = append(errs, fmt.Errorf("foe %q: %w loot item %q", f.ID, ErrUnknown, l.Item))
				}
			}
		}
	}
	for _, cl := range c.Classes.All() {
		for _, s := range cl.Skills {
			if s.Alteration != "" {
				if _, ok := c.Alterations.Get(s.Alteration); !ok {
					errs = append(errs, fmt.Errorf("class %q: %w alteration %q", cl.ID, ErrUnknown, s.Alteration))
				}
			}
		}
	}
	for _, ch := range c.Characters.All() {
		if _, ok := c.Races.Get(ch.Race); !ok {
			errs = append(errs, fmt.Errorf("character %q: %w race %q", ch.ID, ErrUnknown, ch.Race))
		} else if err := c.checkRace(ch); err != nil {
			errs = append(errs, err)
		}
		for _, cl := range ch.Classes {
			if _, ok := c.Classes.Get(cl); !ok {
				errs = append(errs, fmt.Errorf("character %q: %w class %q", ch.ID, ErrUnknown, cl))
			}
		}
		for _, id := range append(append([]string{}, ch.Items...), ch.Equipment...) {
			if _, ok := c.Items.Get(id); !ok {
				errs = append(errs, fmt.Errorf("character %q: %w item %q", ch.ID, ErrUnknown, id))
			}
		}
		for _, id := range ch.Equipment {
			if it, ok := c.Items.Get(id); ok && it.Equipment == nil {
				errs = append(errs, fmt.Errorf("character %q: item %q is not wearable", ch.ID, id))
			}
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) checkRace(ch *CharacterDef) error {
	race, _ := c.Races.Get(ch.Race)
	if len(race.AllowedClasses) == 0 {
		return nil
	}
	for _, cl := range ch.Classes {
		if !slices.Contains(race.AllowedClasses, cl) {
			return fmt.Errorf("character %q: race %q cannot be a %q", ch.ID, ch.Race, cl)
		}
	}
	return nil
}
