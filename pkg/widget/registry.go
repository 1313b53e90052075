package widget

import (
	"sort"

	"github.com/google/uuid"

	"github.com/matzehuels/freeboard/pkg/errors"
	"github.com/matzehuels/freeboard/pkg/geom"
)

type entry struct {
	desc    Descriptor
	factory Factory
}

// Registry is the catalog of widget types.
//
// Entries are registered once at startup and never mutated afterwards.
// Registry is not safe for concurrent registration; lookups after startup
// are read-only and may run concurrently.
type Registry struct {
	entries map[string]entry
	newID   func() string
}

// NewRegistry creates an empty registry that generates random UUIDs for new
// instances.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
		newID:   uuid.NewString,
	}
}

// WithIDGenerator replaces the instance id generator. Intended for tests and
// deterministic tooling.
func (r *Registry) WithIDGenerator(fn func() string) *Registry {
	r.newID = fn
	return r
}

// Register adds a widget type. Registering the same id twice is an error.
func (r *Registry) Register(d Descriptor, f Factory) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "descriptor %q has no body factory", d.ID)
	}
	if _, ok := r.entries[d.ID]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "widget %q already registered", d.ID)
	}
	r.entries[d.ID] = entry{desc: d.clone(), factory: f}
	return nil
}

// MustRegister is like Register but panics on error. Use it for built-in
// widget types registered from init code.
func (r *Registry) MustRegister(d Descriptor, f Factory) {
	if err := r.Register(d, f); err != nil {
		panic(err)
	}
}

// Lookup returns a copy of the descriptor registered under id.
func (r *Registry) Lookup(id string) (Descriptor, bool) {
	e, ok := r.entries[id]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc.clone(), true
}

// Descriptors returns copies of all registered descriptors sorted by id.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.desc.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered widget types.
func (r *Registry) Len() int { return len(r.entries) }

// CreateInstance creates a new instance of the widget type id with a fresh
// InstanceID, the descriptor's default size and a copy of its default
// settings. The position is left at geom.Unplaced.
func (r *Registry) CreateInstance(id string) (Instance, error) {
	e, ok := r.entries[id]
	if !ok {
		return Instance{}, errors.New(errors.ErrCodeUnknownWidget, "no widget registered as %q", id)
	}
	w, h := e.desc.DefaultSize.Dimensions()
	return Instance{
		InstanceID: r.newID(),
		WidgetID:   id,
		X:          geom.Unplaced,
		Y:          geom.Unplaced,
		Width:      w,
		Height:     h,
		Settings:   e.desc.DefaultSettings(),
	}, nil
}

// NewBody builds a body for the widget type id.
func (r *Registry) NewBody(id string) (Body, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownWidget, "no widget registered as %q", id)
	}
	return e.factory(), nil
}

func (r *Registry) factory(id string) (Factory, bool) {
	e, ok := r.entries[id]
	return e.factory, ok
}
