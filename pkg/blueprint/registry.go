package blueprint

import (
	"cmp"
	"slices"
	"sync"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// Registry is a catalog of blueprints keyed by (ID, Version).
// It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	blueprints map[string]map[int]Blueprint
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{blueprints: make(map[string]map[int]Blueprint)}
}

// Default returns a registry preloaded with the built-in catalog.
func Default() *Registry {
	r := NewRegistry()
	for _, bp := range Builtin() {
		if err := r.Register(bp); err != nil {
			panic("blueprint: invalid builtin " + bp.Key() + ": " + err.Error())
		}
	}
	return r
}

// Register validates bp and adds it to the registry. Registering an
// existing (ID, Version) pair fails: published versions are immutable.
func (r *Registry) Register(bp Blueprint) error {
	if err := bp.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	versions, ok := r.blueprints[bp.ID]
	if !ok {
		versions = make(map[int]Blueprint)
		r.blueprints[bp.ID] = versions
	}
	if _, exists := versions[bp.Version]; exists {
		return perrors.New(perrors.ErrCodeInvalidBlueprint, "blueprint %s already registered", bp.Key())
	}
	versions[bp.Version] = bp
	return nil
}

// Get returns the blueprint with the exact id and version.
func (r *Registry) Get(id string, version int) (Blueprint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if bp, ok := r.blueprints[id][version]; ok {
		return bp, nil
	}
	return Blueprint{}, perrors.New(perrors.ErrCodeBlueprintNotFound, "blueprint %s@v%d not found", id, version)
}

// Latest returns the highest registered version of id. It is meant for
// starting new plots; existing plots must use [Registry.Get] with their
// pinned version.
func (r *Registry) Latest(id string) (Blueprint, error) {
	versions := r.Versions(id)
	if len(versions) == 0 {
		return Blueprint{}, perrors.New(perrors.ErrCodeBlueprintNotFound, "blueprint %s not found", id)
	}
	return r.Get(id, versions[len(versions)-1])
}

// Versions returns the registered versions of id in ascending order.
func (r *Registry) Versions(id string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := make([]int, 0, len(r.blueprints[id]))
	for v := range r.blueprints[id] {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions
}

// List returns all blueprints sorted by id, then version.
func (r *Registry) List() []Blueprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Blueprint
	for _, versions := range r.blueprints {
		for _, bp := range versions {
			out = append(out, bp)
		}
	}
	slices.SortFunc(out, func(a, b Blueprint) int {
		if c := cmp.Compare(a.ID, b.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.Version, b.Version)
	})
	return out
}

// Len returns the number of registered (ID, Version) pairs.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, versions := range r.blueprints {
		n += len(versions)
	}
	return n
}
