package theme

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	descriptors = make(map[string]Descriptor)
	mu          sync.RWMutex
)

// Register adds a theme to the registry after validating it. Theme names
// are case-insensitive. Registering a duplicate name is a programming
// error and panics, matching the fail-fast contract for static tables.
func Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	key := strings.ToUpper(d.Name)

	mu.Lock()
	defer mu.Unlock()

	if _, exists := descriptors[key]; exists {
		panic(fmt.Sprintf("theme: %q already registered", d.Name))
	}
	descriptors[key] = d
	return nil
}

// MustRegister registers a theme and panics on validation failure.
// Used for the embedded built-in themes, which are compile-time data.
func MustRegister(d Descriptor) {
	if err := Register(d); err != nil {
		panic(err)
	}
}

// Get returns the theme with the given name (case-insensitive).
func Get(name string) (Descriptor, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := descriptors[strings.ToUpper(name)]
	if !ok {
		return Descriptor{}, fmt.Errorf("theme: unknown theme %q", name)
	}
	return d, nil
}

// Exists reports whether a theme with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := descriptors[strings.ToUpper(name)]
	return ok
}

// List returns the names of all registered themes, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}
