package lint

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Module is one lint check over descriptor or signing files.
type Module interface {
	Name() string
	// Applies reports whether the module inspects files of kind. The
	// engine never calls Check for other kinds.
	Applies(kind FileKind) bool
	DefaultEnabled() bool
	Check(ctx context.Context, file FileInfo) ([]Finding, error)
}

// Factory builds a fresh module. The engine calls it for every check, so a
// module may keep lazily built state without locking.
type Factory func() Module

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: map[string]Factory{}}

// Register adds a module factory. Modules call it from init().
func Register(name string, f Factory) {
	registry.Lock()
	defer registry.Unlock()
	if _, exists := registry.factories[name]; exists {
		panic(fmt.Sprintf("lint: module %s registered twice", name))
	}
	registry.factories[name] = f
}

// New builds the named module.
func New(name string) (Module, error) {
	registry.RLock()
	f, ok := registry.factories[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("lint: unknown module %q (available: %v)", name, Names())
	}
	return f(), nil
}

// Names lists registered modules in sorted order.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.factories))
}

// AnyKind is an Applies implementation for modules that read every file.
func AnyKind(FileKind) bool { return true }
