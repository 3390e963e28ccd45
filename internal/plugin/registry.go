package plugin

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// ErrUnknown is returned for names not in the registry.
var ErrUnknown = errors.New("unknown plugin")

type entry struct {
	info    Info
	factory Factory
}

// Registry is the static set of plugins the host can run, in
// registration order.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a plugin. Names are matched case-insensitively and must
// be unique.
func (r *Registry) Register(f Factory) error {
	if f == nil {
		return errors.New("nil plugin factory")
	}
	info := f().Info()
	if strings.TrimSpace(info.Name) == "" {
		return errors.New("plugin has no name")
	}
	if _, ok := r.find(info.Name); ok {
		return fmt.Errorf("plugin %q already registered", info.Name)
	}
	r.entries = append(r.entries, entry{info: info, factory: f})
	return nil
}

// MustRegister is Register for static tables.
func (r *Registry) MustRegister(fs ...Factory) *Registry {
	for _, f := range fs {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) find(name string) (entry, bool) {
	return lo.Find(r.entries, func(e entry) bool {
		return strings.EqualFold(e.info.Name, name)
	})
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.find(name)
	return ok
}

// New creates an instance of the named plugin.
func (r *Registry) New(name string) (Plugin, error) {
	e, ok := r.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return e.factory(), nil
}

// Infos lists visible plugins in registration order.
func (r *Registry) Infos() []Info {
	visible := lo.Filter(r.entries, func(e entry, _ int) bool { return !e.info.Hidden })
	return lo.Map(visible, func(e entry, _ int) Info { return e.info })
}

// ByCategory lists visible plugins grouped by category.
func (r *Registry) ByCategory() map[Category][]Info {
	return lo.GroupBy(r.Infos(), func(i Info) Category { return i.Category })
}

// Names returns every registered name, hidden ones included.
func (r *Registry) Names() []string {
	return lo.Map(r.entries, func(e entry, _ int) string { return e.info.Name })
}

// Restrict keeps only the named plugins, preserving registration order.
// Unknown names are returned so the caller can report them. An empty
// list keeps everything.
func (r *Registry) Restrict(names []string) (unknown []string) {
	if len(names) == 0 {
		return nil
	}
	for _, n := range names {
		if !r.Has(n) {
			unknown = append(unknown, n)
		}
	}
	r.entries = slices.DeleteFunc(r.entries, func(e entry) bool {
		if e.info.Hidden {
			return false
		}
		return !slices.ContainsFunc(names, func(n string) bool {
			return strings.EqualFold(n, e.info.Name)
		})
	})
	return unknown
}
